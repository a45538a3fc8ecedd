// Package memory is a process-local repository.Store. It backs local runs
// without Postgres and the service and handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/repository"
)

type tables struct {
	users      map[uint]models.User
	properties map[uint]models.Property
	bookings   map[uint]models.Booking
	reviews    map[uint]models.Review
	seq        map[string]uint
}

func newTables() *tables {
	return &tables{
		users:      map[uint]models.User{},
		properties: map[uint]models.Property{},
		bookings:   map[uint]models.Booking{},
		reviews:    map[uint]models.Review{},
		seq:        map[string]uint{},
	}
}

func (t *tables) next(table string) uint {
	t.seq[table]++
	return t.seq[table]
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = cloneUser(v)
	}
	for k, v := range t.properties {
		c.properties[k] = cloneProperty(v)
	}
	for k, v := range t.bookings {
		c.bookings[k] = v
	}
	for k, v := range t.reviews {
		c.reviews[k] = v
	}
	for k, v := range t.seq {
		c.seq[k] = v
	}
	return c
}

type state struct {
	mu   sync.Mutex
	data *tables
	now  func() time.Time
}

// Store guards every call with one mutex. A transaction holds the mutex
// for its whole duration and restores a snapshot when fn fails.
type Store struct {
	st   *state
	inTx bool
}

func NewStore() *Store {
	return &Store{st: &state{data: newTables(), now: time.Now}}
}

// WithClock replaces the timestamp source used for created_at/updated_at.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.st.now = now
	return s
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.st.mu.Lock()
	return s.st.mu.Unlock
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{s: s}
}

func (s *Store) Properties() repository.PropertyRepository {
	return &propertyRepository{s: s}
}

func (s *Store) Bookings() repository.BookingRepository {
	return &bookingRepository{s: s}
}

func (s *Store) Reviews() repository.ReviewRepository {
	return &reviewRepository{s: s}
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.st.data.clone()

	if err := fn(&Store{st: s.st, inTx: true}); err != nil {
		s.st.data = snapshot
		return err
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func cloneUser(u models.User) models.User {
	if u.ResetPasswordToken != nil {
		token := *u.ResetPasswordToken
		u.ResetPasswordToken = &token
	}
	if u.ResetPasswordExpire != nil {
		expire := *u.ResetPasswordExpire
		u.ResetPasswordExpire = &expire
	}
	u.Properties, u.TenantBookings, u.OwnerBookings, u.Reviews = nil, nil, nil, nil
	return u
}

func cloneProperty(p models.Property) models.Property {
	if p.Images != nil {
		p.Images = append([]models.PropertyImage(nil), p.Images...)
	}
	if p.Amenities != nil {
		p.Amenities = append(p.Amenities[:0:0], p.Amenities...)
	}
	p.Latitude = cloneFloat(p.Latitude)
	p.Longitude = cloneFloat(p.Longitude)
	p.AreaSqft = cloneFloat(p.AreaSqft)
	p.Owner = models.User{}
	return p
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
