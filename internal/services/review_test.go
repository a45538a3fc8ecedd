package services

import (
	"testing"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/policy"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rented registers a tenant with an approved booking on propertyID.
func (f *fixture) rented(username string, owner policy.Principal, propertyID uint) policy.Principal {
	f.t.Helper()

	tenant := f.register(username, models.RoleTenant)
	booking := f.book(tenant, propertyID)
	_, err := f.svc.Bookings.Approve(f.ctx, owner, booking.ID)
	require.NoError(f.t, err)

	_, err = f.svc.Properties.SetStatus(f.ctx, owner, propertyID, models.AvailabilityAvailable)
	require.NoError(f.t, err)

	return tenant
}

func TestReviewRequiresApprovedBooking(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)
	f.book(tenant, property.ID)

	_, err := f.svc.Reviews.Submit(f.ctx, tenant, SubmitReviewInput{PropertyID: property.ID, Rating: 5})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = f.svc.Reviews.Submit(f.ctx, tenant, SubmitReviewInput{PropertyID: 999, Rating: 5})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestReviewOncePerProperty(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	property := f.listing(owner, "Austin", 1500, 2)
	tenant := f.rented("tom", owner, property.ID)

	review, err := f.svc.Reviews.Submit(f.ctx, tenant, SubmitReviewInput{PropertyID: property.ID, Rating: 4, Comment: " Cozy "})
	require.NoError(t, err)
	assert.Equal(t, "Cozy", review.Comment)
	assert.Equal(t, 4, review.Rating)

	_, err = f.svc.Reviews.Submit(f.ctx, tenant, SubmitReviewInput{PropertyID: property.ID, Rating: 2})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestReviewRatingBounds(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	property := f.listing(owner, "Austin", 1500, 2)
	tenant := f.rented("tom", owner, property.ID)

	for _, rating := range []int{0, 6} {
		_, err := f.svc.Reviews.Submit(f.ctx, tenant, SubmitReviewInput{PropertyID: property.ID, Rating: rating})
		assert.True(t, apperr.Is(err, apperr.KindValidation), "rating %d", rating)
	}
}

func TestAverageRating(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	property := f.listing(owner, "Austin", 1500, 2)

	empty, err := f.svc.Reviews.ListForProperty(f.ctx, property.ID, types.NewPageRequest(0, 10))
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.AverageRating)
	assert.EqualValues(t, 0, empty.TotalReviews)
	assert.Empty(t, empty.Items)

	first := f.rented("tom", owner, property.ID)
	second := f.rented("tina", owner, property.ID)

	_, err = f.svc.Reviews.Submit(f.ctx, first, SubmitReviewInput{PropertyID: property.ID, Rating: 4})
	require.NoError(t, err)
	_, err = f.svc.Reviews.Submit(f.ctx, second, SubmitReviewInput{PropertyID: property.ID, Rating: 5})
	require.NoError(t, err)

	summary, err := f.svc.Reviews.ListForProperty(f.ctx, property.ID, types.NewPageRequest(0, 10))
	require.NoError(t, err)
	assert.Equal(t, 4.5, summary.AverageRating)
	assert.EqualValues(t, 2, summary.TotalReviews)
	assert.Len(t, summary.Items, 2)
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.3, roundRating(13.0/3.0))
	assert.Equal(t, 3.7, roundRating(11.0/3.0))
	assert.Equal(t, 0.0, roundRating(0))
}

func TestUpdateReviewIsPartial(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	property := f.listing(owner, "Austin", 1500, 2)
	tenant := f.rented("tom", owner, property.ID)

	review, err := f.svc.Reviews.Submit(f.ctx, tenant, SubmitReviewInput{PropertyID: property.ID, Rating: 3, Comment: "Fine"})
	require.NoError(t, err)

	rating := 5
	updated, err := f.svc.Reviews.Update(f.ctx, tenant, review.ID, UpdateReviewInput{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "Fine", updated.Comment)

	blank := "  "
	updated, err = f.svc.Reviews.Update(f.ctx, tenant, review.ID, UpdateReviewInput{Comment: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Fine", updated.Comment)

	_, err = f.svc.Reviews.Update(f.ctx, owner, review.ID, UpdateReviewInput{Rating: &rating})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestDeleteReview(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	property := f.listing(owner, "Austin", 1500, 2)
	tenant := f.rented("tom", owner, property.ID)
	stranger := f.register("sam", models.RoleTenant)

	review, err := f.svc.Reviews.Submit(f.ctx, tenant, SubmitReviewInput{PropertyID: property.ID, Rating: 3})
	require.NoError(t, err)

	err = f.svc.Reviews.Delete(f.ctx, stranger, review.ID)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	require.NoError(t, f.svc.Reviews.Delete(f.ctx, f.admin(), review.ID))

	err = f.svc.Reviews.Delete(f.ctx, tenant, review.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
