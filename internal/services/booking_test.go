package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/Kartik1014/Rentit/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBookingFullLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)

	booking := f.book(tenant, property.ID)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, owner.ID, booking.OwnerID)
	assert.Equal(t, "2030-02-01", booking.CheckInDate)

	approved, err := f.svc.Bookings.Approve(f.ctx, owner, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingApproved, approved.Status)
	assert.Equal(t, models.AvailabilityRented, f.availability(property.ID))

	cancelled, err := f.svc.Bookings.Cancel(f.ctx, tenant, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.Equal(t, models.AvailabilityAvailable, f.availability(property.ID))

	assert.Equal(t,
		[]models.BookingStatus{models.BookingPending, models.BookingApproved, models.BookingCancelled},
		f.publisher.statuses())
	assert.Equal(t, models.BookingApproved, f.publisher.events[2].PreviousStatus)
	assert.Equal(t, "Austin home", f.publisher.events[0].PropertyTitle)
}

func TestApproveAloneLeavesPropertyRented(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)
	booking := f.book(tenant, property.ID)

	_, err := f.svc.Bookings.Approve(f.ctx, owner, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, models.AvailabilityRented, f.availability(property.ID))
}

func TestCancelPendingKeepsAvailability(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)
	booking := f.book(tenant, property.ID)

	_, err := f.svc.Bookings.Cancel(f.ctx, tenant, booking.ID)
	require.NoError(t, err)

	assert.Equal(t, models.AvailabilityAvailable, f.availability(property.ID))
}

func TestSecondActiveBookingConflicts(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)
	f.book(tenant, property.ID)

	_, err := f.svc.Bookings.Create(f.ctx, tenant, CreateBookingInput{PropertyID: property.ID, CheckInDate: "2030-03-01"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestRebookAfterCancellation(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)
	first := f.book(tenant, property.ID)

	_, err := f.svc.Bookings.Cancel(f.ctx, tenant, first.ID)
	require.NoError(t, err)

	second := f.book(tenant, property.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateBookingRejections(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	available := f.listing(owner, "Austin", 1500, 2)

	draft, err := f.svc.Properties.Create(f.ctx, owner, propertyInput("Dallas", 900, 1))
	require.NoError(t, err)

	tests := []struct {
		name   string
		actor  policy.Principal
		input  CreateBookingInput
		expect apperr.Kind
	}{
		{"missing property", tenant, CreateBookingInput{PropertyID: 999, CheckInDate: "2030-02-01"}, apperr.KindNotFound},
		{"draft property", tenant, CreateBookingInput{PropertyID: draft.ID, CheckInDate: "2030-02-01"}, apperr.KindConflict},
		{"own property", owner, CreateBookingInput{PropertyID: available.ID, CheckInDate: "2030-02-01"}, apperr.KindConflict},
		{"past date", tenant, CreateBookingInput{PropertyID: available.ID, CheckInDate: "2030-01-09"}, apperr.KindValidation},
		{"malformed date", tenant, CreateBookingInput{PropertyID: available.ID, CheckInDate: "01/02/2030"}, apperr.KindValidation},
		{"missing property id", tenant, CreateBookingInput{CheckInDate: "2030-02-01"}, apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Bookings.Create(f.ctx, tt.actor, tt.input)
			assert.Equal(t, tt.expect, apperr.KindOf(err), "%v", err)
		})
	}
}

func TestCheckInTodayIsAllowed(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)

	_, err := f.svc.Bookings.Create(f.ctx, tenant, CreateBookingInput{PropertyID: property.ID, CheckInDate: "2030-01-10"})
	assert.NoError(t, err)
}

func TestNonOwnerCannotDecide(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	otherOwner := f.register("oscar", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)
	booking := f.book(tenant, property.ID)

	_, err := f.svc.Bookings.Approve(f.ctx, otherOwner, booking.ID)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = f.svc.Bookings.Reject(f.ctx, tenant, booking.ID)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = f.svc.Bookings.Cancel(f.ctx, owner, booking.ID)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	assert.Equal(t, models.AvailabilityAvailable, f.availability(property.ID))
}

func TestAdminCanDecide(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	admin := f.admin()
	property := f.listing(owner, "Austin", 1500, 2)
	booking := f.book(tenant, property.ID)

	_, err := f.svc.Bookings.Approve(f.ctx, admin, booking.ID)
	require.NoError(t, err)

	_, err = f.svc.Bookings.Cancel(f.ctx, admin, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityAvailable, f.availability(property.ID))
}

func TestTransitionsFromWrongState(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)

	approved := f.book(tenant, property.ID)
	_, err := f.svc.Bookings.Approve(f.ctx, owner, approved.ID)
	require.NoError(t, err)

	_, err = f.svc.Bookings.Reject(f.ctx, owner, approved.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "reject after approve")

	_, err = f.svc.Bookings.Approve(f.ctx, owner, approved.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "approve twice")

	_, err = f.svc.Bookings.Cancel(f.ctx, tenant, approved.ID)
	require.NoError(t, err)

	_, err = f.svc.Bookings.Cancel(f.ctx, tenant, approved.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "cancel twice")

	rejected := f.book(tenant, property.ID)
	_, err = f.svc.Bookings.Reject(f.ctx, owner, rejected.ID)
	require.NoError(t, err)

	_, err = f.svc.Bookings.Cancel(f.ctx, tenant, rejected.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "cancel after reject")

	_, err = f.svc.Bookings.Approve(f.ctx, owner, rejected.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "approve after reject")
}

func TestMissingBooking(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)

	_, err := f.svc.Bookings.Approve(f.ctx, owner, 404)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.svc.Bookings.Get(f.ctx, owner, 404)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestApproveAfterPropertyDeletedIsNotFound(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)
	booking := f.book(tenant, property.ID)

	require.NoError(t, f.svc.Properties.Delete(f.ctx, owner, property.ID))

	_, err := f.svc.Bookings.Approve(f.ctx, owner, booking.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	stored, err := f.store.Bookings().FindByID(f.ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, stored.Status)
}

func TestCancelApprovedReleasesDeletedProperty(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)
	booking := f.book(tenant, property.ID)

	_, err := f.svc.Bookings.Approve(f.ctx, owner, booking.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Properties.Delete(f.ctx, owner, property.ID))

	_, err = f.svc.Bookings.Cancel(f.ctx, tenant, booking.ID)
	assert.NoError(t, err)
}

type failingStore struct {
	repository.Store
	err error
}

func (s failingStore) Properties() repository.PropertyRepository {
	return failingProperties{PropertyRepository: s.Store.Properties(), err: s.err}
}

func (s failingStore) WithinTransaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.WithinTransaction(ctx, func(tx repository.Store) error {
		return fn(failingStore{Store: tx, err: s.err})
	})
}

type failingProperties struct {
	repository.PropertyRepository
	err error
}

func (p failingProperties) SetAvailability(context.Context, uint, models.AvailabilityStatus) error {
	return p.err
}

func TestApproveRollsBackWhenPropertyWriteFails(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)
	booking := f.book(tenant, property.ID)

	broken := NewBookingService(
		failingStore{Store: f.store, err: errors.New("disk full")},
		validation.New(), f.publisher, func() time.Time { return f.now }, zap.NewNop(),
	)

	_, err := broken.Approve(f.ctx, owner, booking.ID)
	assert.True(t, apperr.Is(err, apperr.KindInternal))

	stored, err := f.store.Bookings().FindByID(f.ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, stored.Status)
	assert.Equal(t, models.AvailabilityAvailable, f.availability(property.ID))
	assert.Len(t, f.publisher.events, 1)
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)
	booking := f.book(tenant, property.ID)

	f.publisher.err = errors.New("webhook down")

	resp, err := f.svc.Bookings.Approve(f.ctx, owner, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingApproved, resp.Status)
}

func TestGetBookingVisibility(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	stranger := f.register("sam", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)
	booking := f.book(tenant, property.ID)

	for _, p := range []policy.Principal{owner, tenant, f.admin()} {
		got, err := f.svc.Bookings.Get(f.ctx, p, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.ID, got.ID)
		require.NotNil(t, got.Property)
		assert.Equal(t, "Austin home", got.Property.Title)
	}

	_, err := f.svc.Bookings.Get(f.ctx, stranger, booking.ID)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestListBookingsNewestFirst(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	first := f.listing(owner, "Austin", 1500, 2)
	second := f.listing(owner, "Dallas", 1200, 1)

	older := f.book(tenant, first.ID)
	f.now = f.now.Add(time.Hour)
	newer := f.book(tenant, second.ID)

	page, err := f.svc.Bookings.ListByTenant(f.ctx, tenant, tenant.ID, types.NewPageRequest(0, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, newer.ID, page.Items[0].ID)
	assert.Equal(t, older.ID, page.Items[1].ID)
	assert.EqualValues(t, 2, page.TotalItems)
	assert.Equal(t, 1, page.TotalPages)

	ownerPage, err := f.svc.Bookings.ListByOwner(f.ctx, owner, owner.ID, types.NewPageRequest(0, 1))
	require.NoError(t, err)
	require.Len(t, ownerPage.Items, 1)
	assert.Equal(t, newer.ID, ownerPage.Items[0].ID)
	assert.Equal(t, 2, ownerPage.TotalPages)

	_, err = f.svc.Bookings.ListByTenant(f.ctx, owner, tenant.ID, types.NewPageRequest(0, 10))
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = f.svc.Bookings.ListByOwner(f.ctx, tenant, owner.ID, types.NewPageRequest(0, 10))
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}
