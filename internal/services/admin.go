package services

import (
	"context"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/repository"
	"github.com/Kartik1014/Rentit/internal/types"
	"go.uber.org/zap"
)

type ChangeRoleInput struct {
	Role models.Role `json:"role" binding:"required,oneof=TENANT OWNER ADMIN"`
}

type AdminService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewAdminService(store repository.Store, logger *zap.Logger) *AdminService {
	return &AdminService{store: store, logger: logger}
}

func (s *AdminService) ListUsers(ctx context.Context, p policy.Principal, page types.PageRequest) (types.Page[types.UserResponse], error) {
	if err := policy.RequireAdmin(p); err != nil {
		return types.Page[types.UserResponse]{}, err
	}

	page = page.Normalize()

	users, total, err := s.store.Users().List(ctx, page)
	if err != nil {
		return types.Page[types.UserResponse]{}, internal(err)
	}

	items := make([]types.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, types.NewUserResponse(&users[i]))
	}

	return types.NewPage(items, page, total), nil
}

func (s *AdminService) DeleteUser(ctx context.Context, p policy.Principal, id uint) error {
	if err := policy.RequireAdmin(p); err != nil {
		return err
	}

	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return lookup(err, "User not found")
	}

	if user.Role == models.RoleAdmin {
		return apperr.Unauthorized("Admin accounts cannot be deleted")
	}

	if err := s.store.Users().Delete(ctx, id); err != nil {
		return lookup(err, "User not found")
	}

	s.logger.Info("User deleted", zap.Uint("user_id", id), zap.Uint("admin_id", p.ID))
	return nil
}

func (s *AdminService) ChangeRole(ctx context.Context, p policy.Principal, id uint, role models.Role) (types.UserResponse, error) {
	if err := policy.RequireAdmin(p); err != nil {
		return types.UserResponse{}, err
	}

	if !role.Valid() {
		return types.UserResponse{}, apperr.Validation("role must be one of [TENANT OWNER ADMIN]")
	}

	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return types.UserResponse{}, lookup(err, "User not found")
	}

	user.Role = role
	if err := s.store.Users().Save(ctx, user); err != nil {
		return types.UserResponse{}, internal(err)
	}

	s.logger.Info("User role changed", zap.Uint("user_id", id), zap.String("role", string(role)), zap.Uint("admin_id", p.ID))
	return types.NewUserResponse(user), nil
}

func (s *AdminService) ListPendingProperties(ctx context.Context, p policy.Principal, page types.PageRequest) (types.Page[types.PropertyResponse], error) {
	if err := policy.RequireAdmin(p); err != nil {
		return types.Page[types.PropertyResponse]{}, err
	}

	page = page.Normalize()

	properties, total, err := s.store.Properties().Search(ctx, repository.PropertyFilter{UnverifiedOnly: true}, page)
	if err != nil {
		return types.Page[types.PropertyResponse]{}, internal(err)
	}

	items := make([]types.PropertyResponse, 0, len(properties))
	for i := range properties {
		items = append(items, types.NewPropertyResponse(&properties[i]))
	}

	return types.NewPage(items, page, total), nil
}

func (s *AdminService) VerifyProperty(ctx context.Context, p policy.Principal, id uint) (types.PropertyResponse, error) {
	if err := policy.RequireAdmin(p); err != nil {
		return types.PropertyResponse{}, err
	}

	if err := s.store.Properties().SetVerified(ctx, id, true); err != nil {
		return types.PropertyResponse{}, lookup(err, "Property not found")
	}

	property, err := s.store.Properties().FindByID(ctx, id)
	if err != nil {
		return types.PropertyResponse{}, lookup(err, "Property not found")
	}

	return types.NewPropertyResponse(property), nil
}

func (s *AdminService) Analytics(ctx context.Context, p policy.Principal) (types.Analytics, error) {
	if err := policy.RequireAdmin(p); err != nil {
		return types.Analytics{}, err
	}

	roles, err := s.store.Users().CountByRole(ctx)
	if err != nil {
		return types.Analytics{}, internal(err)
	}

	availability, err := s.store.Properties().CountByAvailability(ctx)
	if err != nil {
		return types.Analytics{}, internal(err)
	}

	statuses, err := s.store.Bookings().CountByStatus(ctx)
	if err != nil {
		return types.Analytics{}, internal(err)
	}

	reviews, err := s.store.Reviews().Count(ctx)
	if err != nil {
		return types.Analytics{}, internal(err)
	}

	return types.Analytics{
		Users: types.UserStats{
			Total:   sum(roles),
			Tenants: roles[models.RoleTenant],
			Owners:  roles[models.RoleOwner],
			Admins:  roles[models.RoleAdmin],
		},
		Properties: types.PropertyStats{
			Total:     sum(availability),
			Draft:     availability[models.AvailabilityDraft],
			Available: availability[models.AvailabilityAvailable],
			Rented:    availability[models.AvailabilityRented],
		},
		Bookings: types.BookingStats{
			Total:     sum(statuses),
			Pending:   statuses[models.BookingPending],
			Approved:  statuses[models.BookingApproved],
			Rejected:  statuses[models.BookingRejected],
			Cancelled: statuses[models.BookingCancelled],
		},
		Reviews: types.ReviewStats{Total: reviews},
	}, nil
}

func sum[K comparable](counts map[K]int64) int64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	return total
}
