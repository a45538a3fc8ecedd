package services

import (
	"math"
	"testing"

	"github.com/Kartik1014/Rentit/internal/apperr"
	"github.com/Kartik1014/Rentit/internal/models"
	"github.com/Kartik1014/Rentit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePropertyStartsAsDraft(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)

	created, err := f.svc.Properties.Create(f.ctx, owner, propertyInput("Austin", 1500, 2))
	require.NoError(t, err)

	assert.Equal(t, models.AvailabilityDraft, created.AvailabilityStatus)
	assert.False(t, created.IsVerified)
	assert.Equal(t, []string{"wifi", "parking"}, created.Amenities)
	require.Len(t, created.Images, 1)
	assert.True(t, created.Images[0].IsPrimary)
	require.NotNil(t, created.Owner)
	assert.Equal(t, "olivia", created.Owner.Username)
}

func TestCreatePropertyValidation(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)

	in := propertyInput("Austin", 1500, 2)
	in.Title = "   "
	_, err := f.svc.Properties.Create(f.ctx, owner, in)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	in = propertyInput("Austin", 1500, 2)
	in.RentAmount = nil
	_, err = f.svc.Properties.Create(f.ctx, owner, in)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	in = propertyInput("Austin", 1500, 2)
	in.PropertyType = "CASTLE"
	_, err = f.svc.Properties.Create(f.ctx, owner, in)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestGetPropertyCountsViews(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	property := f.listing(owner, "Austin", 1500, 2)

	_, err := f.svc.Properties.Get(f.ctx, property.ID)
	require.NoError(t, err)
	second, err := f.svc.Properties.Get(f.ctx, property.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 2, second.Views)
}

func TestDeletedPropertyIsHidden(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	kept := f.listing(owner, "Austin", 1500, 2)
	gone := f.listing(owner, "Austin", 1600, 2)

	require.NoError(t, f.svc.Properties.Delete(f.ctx, owner, gone.ID))

	_, err := f.svc.Properties.Get(f.ctx, gone.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	page, err := f.svc.Properties.List(f.ctx, types.NewPageRequest(0, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, kept.ID, page.Items[0].ID)

	results, err := f.svc.Properties.Search(f.ctx, SearchInput{City: "Austin"}, types.NewPageRequest(0, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, results.TotalItems)

	mine, err := f.svc.Properties.ListByOwner(f.ctx, owner, owner.ID, types.NewPageRequest(0, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.TotalItems)

	err = f.svc.Properties.Delete(f.ctx, owner, gone.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSearchAustinScenario(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)

	match := f.listing(owner, "Austin", 1500, 2)
	bigger := f.listing(owner, "Austin", 2000, 3)
	f.listing(owner, "Austin", 2500, 2)
	f.listing(owner, "Austin", 1200, 1)
	f.listing(owner, "Dallas", 1500, 2)
	deleted := f.listing(owner, "Austin", 1800, 2)
	require.NoError(t, f.svc.Properties.Delete(f.ctx, owner, deleted.ID))

	bedrooms := 2
	page, err := f.svc.Properties.Search(f.ctx, SearchInput{
		City:     "Austin",
		MinPrice: float(1000),
		MaxPrice: float(2000),
		Bedrooms: &bedrooms,
	}, types.PageRequest{Size: 10, SortBy: "rent_amount"})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, match.ID, page.Items[0].ID)
	assert.Equal(t, bigger.ID, page.Items[1].ID)
	for _, item := range page.Items {
		assert.Equal(t, "Austin", item.City)
		assert.GreaterOrEqual(t, item.Bedrooms, 2)
	}
}

func TestSearchRejectsUnknownType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Properties.Search(f.ctx, SearchInput{PropertyType: "CASTLE"}, types.NewPageRequest(0, 10))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSearchNearby(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)

	near := propertyInput("Austin", 1500, 2)
	near.Latitude, near.Longitude = float(30.27), float(-97.74)
	created, err := f.svc.Properties.Create(f.ctx, owner, near)
	require.NoError(t, err)

	far := propertyInput("Dallas", 1500, 2)
	far.Latitude, far.Longitude = float(32.78), float(-96.80)
	_, err = f.svc.Properties.Create(f.ctx, owner, far)
	require.NoError(t, err)

	_, err = f.svc.Properties.Create(f.ctx, owner, propertyInput("Nowhere", 1500, 2))
	require.NoError(t, err)

	page, err := f.svc.Properties.SearchNearby(f.ctx, NearbyInput{Latitude: 30.26, Longitude: -97.75, RadiusKm: 10}, types.NewPageRequest(0, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.ID, page.Items[0].ID)

	_, err = f.svc.Properties.SearchNearby(f.ctx, NearbyInput{Latitude: 30, Longitude: -97, RadiusKm: 0}, types.NewPageRequest(0, 10))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestBoundingBoxClampsAtPole(t *testing.T) {
	box := boundingBox(NearbyInput{Latitude: 90, Longitude: 0, RadiusKm: 50})

	assert.Equal(t, 90.0, box.MaxLat)
	assert.Equal(t, -180.0, box.MinLng)
	assert.Equal(t, 180.0, box.MaxLng)
}

func TestUpdateProperty(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	other := f.register("oscar", models.RoleOwner)
	property := f.listing(owner, "Austin", 1500, 2)

	in := propertyInput("Austin", 1750, 3)
	in.Images = nil
	in.Amenities = []string{"pool"}
	updated, err := f.svc.Properties.Update(f.ctx, owner, property.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 1750.0, updated.RentAmount)
	assert.Equal(t, 3, updated.Bedrooms)
	assert.Equal(t, []string{"pool"}, updated.Amenities)
	assert.Len(t, updated.Images, 1, "omitted images are kept")
	assert.Equal(t, models.AvailabilityAvailable, updated.AvailabilityStatus)

	in.Images = []ImageInput{{URL: "/api/images/a.jpg"}, {URL: "/api/images/b.jpg", IsPrimary: true}}
	updated, err = f.svc.Properties.Update(f.ctx, owner, property.ID, in)
	require.NoError(t, err)
	assert.Len(t, updated.Images, 2)

	_, err = f.svc.Properties.Update(f.ctx, other, property.ID, in)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = f.svc.Properties.Update(f.ctx, f.admin(), property.ID, in)
	assert.NoError(t, err)
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	tenant := f.register("tom", models.RoleTenant)
	property := f.listing(owner, "Austin", 1500, 2)

	_, err := f.svc.Properties.SetStatus(f.ctx, owner, property.ID, "SOLD")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.Properties.SetStatus(f.ctx, tenant, property.ID, models.AvailabilityRented)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	booking := f.book(tenant, property.ID)
	_, err = f.svc.Bookings.Approve(f.ctx, owner, booking.ID)
	require.NoError(t, err)

	updated, err := f.svc.Properties.SetStatus(f.ctx, owner, property.ID, models.AvailabilityAvailable)
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityAvailable, updated.AvailabilityStatus)
}

func TestListByOwnerRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	other := f.register("oscar", models.RoleOwner)
	f.listing(owner, "Austin", 1500, 2)

	_, err := f.svc.Properties.ListByOwner(f.ctx, other, owner.ID, types.NewPageRequest(0, 10))
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	page, err := f.svc.Properties.ListByOwner(f.ctx, f.admin(), owner.ID, types.NewPageRequest(0, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalItems)
}

func TestListPastTheLastPageIsEmpty(t *testing.T) {
	f := newFixture(t)
	owner := f.register("olivia", models.RoleOwner)
	f.listing(owner, "Austin", 1500, 2)

	assert.NotPanics(t, func() {
		page, err := f.svc.Properties.List(f.ctx, types.NewPageRequest(math.MaxInt64/10+1, 10))
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.EqualValues(t, 1, page.TotalItems)
	})
}
