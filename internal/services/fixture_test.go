package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Kartik1014/Rentit/internal/auth"
	"github.com/Kartik1014/Rentit/internal/events"
	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/repository/memory"
	"github.com/Kartik1014/Rentit/internal/storage"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2030, time.January, 10, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e events.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingPublisher) statuses() []models.BookingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.BookingStatus, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Status)
	}
	return out
}

type fixture struct {
	t         *testing.T
	ctx       context.Context
	store     *memory.Store
	publisher *recordingPublisher
	svc       *Services
	tokens    *auth.TokenManager
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := auth.NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		publisher: &recordingPublisher{},
		tokens:    tokens,
		now:       fixedNow,
	}
	f.store = memory.NewStore().WithClock(func() time.Time { return f.now })

	f.svc = New(Deps{
		Store:     f.store,
		Tokens:    tokens,
		Storage:   files,
		Publisher: f.publisher,
		Logger:    zap.NewNop(),
		ResetTTL:  time.Hour,
		Now:       func() time.Time { return f.now },
	})

	return f
}

func (f *fixture) register(username string, role models.Role) policy.Principal {
	f.t.Helper()

	resp, err := f.svc.Auth.Register(f.ctx, RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Role:     role,
	})
	require.NoError(f.t, err)

	return policy.Principal{ID: resp.User.ID, Role: role}
}

func (f *fixture) admin() policy.Principal {
	f.t.Helper()

	user := &models.User{Username: "root", Email: "root@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(f.t, f.store.Users().Create(f.ctx, user))

	return policy.Principal{ID: user.ID, Role: models.RoleAdmin}
}

func float(v float64) *float64 { return &v }

func propertyInput(city string, rent float64, bedrooms int) PropertyInput {
	return PropertyInput{
		Title:        city + " home",
		Description:  "A nice place",
		PropertyType: models.PropertyTypeApartment,
		RentAmount:   float(rent),
		Deposit:      float(rent * 2),
		Address:      "1 Main St",
		City:         city,
		State:        "TX",
		Pincode:      "73301",
		Bedrooms:     bedrooms,
		Bathrooms:    1,
		Amenities:    []string{"wifi", "parking"},
		Images:       []ImageInput{{URL: "/api/images/front.jpg", IsPrimary: true}},
	}
}

func (f *fixture) listing(owner policy.Principal, city string, rent float64, bedrooms int) types.PropertyResponse {
	f.t.Helper()

	created, err := f.svc.Properties.Create(f.ctx, owner, propertyInput(city, rent, bedrooms))
	require.NoError(f.t, err)

	available, err := f.svc.Properties.SetStatus(f.ctx, owner, created.ID, models.AvailabilityAvailable)
	require.NoError(f.t, err)

	return available
}

func (f *fixture) book(tenant policy.Principal, propertyID uint) types.BookingResponse {
	f.t.Helper()

	b, err := f.svc.Bookings.Create(f.ctx, tenant, CreateBookingInput{
		PropertyID:  propertyID,
		CheckInDate: "2030-02-01",
	})
	require.NoError(f.t, err)
	return b
}

func (f *fixture) availability(id uint) models.AvailabilityStatus {
	f.t.Helper()
	p, err := f.store.Properties().FindByID(f.ctx, id)
	require.NoError(f.t, err)
	return p.AvailabilityStatus
}
