// Package policy decides whether a principal may act on a resource.
package policy

import (
	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/models"
)

type Principal struct {
	ID   uint
	Role models.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

type Action string

const (
	ActionView   Action = "view"
	ActionManage Action = "manage"
	ActionDecide Action = "decide"
	ActionCancel Action = "cancel"
	ActionList   Action = "list"
)

type ResourceKind string

const (
	KindProperty ResourceKind = "property"
	KindBooking  ResourceKind = "booking"
	KindReview   ResourceKind = "review"
	KindAccount  ResourceKind = "account"
)

// Resource holds the ownership facts a decision needs.
// OwnerID is the owner for properties and bookings, the author for reviews
// and the subject for accounts. TenantID is only set for bookings.
type Resource struct {
	Kind     ResourceKind
	OwnerID  uint
	TenantID uint
}

func PropertyResource(p *models.Property) Resource {
	return Resource{Kind: KindProperty, OwnerID: p.OwnerID}
}

func BookingResource(b *models.Booking) Resource {
	return Resource{Kind: KindBooking, OwnerID: b.OwnerID, TenantID: b.TenantID}
}

func ReviewResource(r *models.Review) Resource {
	return Resource{Kind: KindReview, OwnerID: r.TenantID}
}

func AccountResource(userID uint) Resource {
	return Resource{Kind: KindAccount, OwnerID: userID}
}

// Allowed is the single authorization predicate. Admins may do anything.
func Allowed(p Principal, action Action, r Resource) bool {
	if p.IsAdmin() {
		return true
	}

	switch r.Kind {
	case KindProperty, KindReview, KindAccount:
		return p.ID == r.OwnerID
	case KindBooking:
		switch action {
		case ActionView:
			return p.ID == r.OwnerID || p.ID == r.TenantID
		case ActionDecide:
			return p.ID == r.OwnerID
		case ActionCancel:
			return p.ID == r.TenantID
		}
	}

	return false
}

func Authorize(p Principal, action Action, r Resource) error {
	if Allowed(p, action, r) {
		return nil
	}
	return apperr.Unauthorized(denialMessage(action, r.Kind))
}

func denialMessage(action Action, kind ResourceKind) string {
	switch kind {
	case KindBooking:
		switch action {
		case ActionDecide:
			return "Only the property owner can decide on this booking"
		case ActionCancel:
			return "Only the tenant can cancel this booking"
		}
		return "You are not allowed to access this booking"
	case KindProperty:
		return "You are not the owner of this property"
	case KindReview:
		return "You are not the author of this review"
	case KindAccount:
		return "You can only access your own records"
	}
	return "Access denied"
}

func RequireAdmin(p Principal) error {
	if p.IsAdmin() {
		return nil
	}
	return apperr.Unauthorized("Admin access required")
}
