// Package postgres implements the repository contracts with gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kartik1014/Rentit/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{db: s.db}
}

func (s *Store) Properties() repository.PropertyRepository {
	return &propertyRepository{db: s.db}
}

func (s *Store) Bookings() repository.BookingRepository {
	return &bookingRepository{db: s.db}
}

func (s *Store) Reviews() repository.ReviewRepository {
	return &reviewRepository{db: s.db}
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

// translate maps gorm errors onto the repository sentinels.
// The connection must be opened with TranslateError so unique violations
// arrive as gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type groupCount struct {
	Name  string
	Count int64
}

func countBy(ctx context.Context, db *gorm.DB, model interface{}, column string) ([]groupCount, error) {
	var rows []groupCount
	err := db.WithContext(ctx).
		Model(model).
		Select(column + " AS name, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	return rows, err
}
