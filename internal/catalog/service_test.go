// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvukelic/kavomjer/internal/catalog"
	"github.com/dvukelic/kavomjer/internal/platform/apperr"
	"github.com/dvukelic/kavomjer/internal/platform/jsonstore"
)

// newService builds a Service on a throwaway flat-file repository and seeds
// one brand and one country, returning their generated IDs.
func newService(t *testing.T) (*catalog.Service, string, string) {
	t.Helper()

	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)
	service := catalog.NewService(catalog.NewJSONRepository(store))

	ctx := context.Background()
	brand, err := service.CreateBrand(ctx, map[string]any{"name": "Barcaffe", "country": "Slovenija"})
	require.NoError(t, err)
	country, err := service.CreateCountry(ctx, map[string]any{"name": "Brazil", "flag": "🇧🇷"})
	require.NoError(t, err)

	return service, brand.ID, country.ID
}

func coffeePayload(brandID, countryID string) map[string]any {
	return map[string]any{
		"name":       "Barcaffe Classic",
		"brandId":    brandID,
		"type":       catalog.TypeGround,
		"roast":      catalog.RoastMedium,
		"priceEUR":   4.5,
		"weightG":    250.0,
		"countryIds": []string{countryID},
	}
}

/*
TestService_CreateCoffee verifies record materialization: generated ID,
derived slug, and timestamps.
*/
func TestService_CreateCoffee(t *testing.T) {
	service, brandID, countryID := newService(t)
	ctx := context.Background()

	coffee, err := service.CreateCoffee(ctx, coffeePayload(brandID, countryID))
	require.NoError(t, err)

	assert.NotEmpty(t, coffee.ID)
	assert.Equal(t, "barcaffe-classic", coffee.Slug)
	assert.Equal(t, brandID, coffee.BrandID)
	assert.False(t, coffee.CreatedAt.IsZero())
	assert.Equal(t, coffee.CreatedAt, coffee.UpdatedAt)

	// Round-trips through the repository.
	stored, err := service.GetCoffee(ctx, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, coffee.Name, stored.Name)
}

/*
TestService_CreateCoffee_ReferentialIntegrity verifies unknown brand and
country references are rejected with field-level validation errors.
*/
func TestService_CreateCoffee_ReferentialIntegrity(t *testing.T) {
	service, brandID, countryID := newService(t)
	ctx := context.Background()

	t.Run("unknown_brand", func(t *testing.T) {
		_, err := service.CreateCoffee(ctx, coffeePayload("no-such-brand", countryID))
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, apperr.CodeValidation, ae.Code)
		assert.Equal(t, "brandId", ae.Details[0].Field)
	})

	t.Run("unknown_country", func(t *testing.T) {
		payload := coffeePayload(brandID, countryID)
		payload["countryIds"] = []string{"no-such-country"}

		_, err := service.CreateCoffee(ctx, payload)
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "countryIds", ae.Details[0].Field)
	})
}

/*
TestService_CreateCoffee_DuplicateName verifies the same name under the
same brand conflicts, case-insensitively.
*/
func TestService_CreateCoffee_DuplicateName(t *testing.T) {
	service, brandID, countryID := newService(t)
	ctx := context.Background()

	_, err := service.CreateCoffee(ctx, coffeePayload(brandID, countryID))
	require.NoError(t, err)

	payload := coffeePayload(brandID, countryID)
	payload["name"] = "BARCAFFE CLASSIC"
	_, err = service.CreateCoffee(ctx, payload)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.As(err).Code)
}

/*
TestService_UpdateCoffee verifies partial payloads change only the present
fields and refresh the slug when the name changes.
*/
func TestService_UpdateCoffee(t *testing.T) {
	service, brandID, countryID := newService(t)
	ctx := context.Background()

	coffee, err := service.CreateCoffee(ctx, coffeePayload(brandID, countryID))
	require.NoError(t, err)

	t.Run("partial_price_change", func(t *testing.T) {
		updated, err := service.UpdateCoffee(ctx, coffee.ID, map[string]any{"priceEUR": 5.99})
		require.NoError(t, err)

		assert.Equal(t, 5.99, updated.PriceEUR)
		assert.Equal(t, coffee.Name, updated.Name, "absent fields keep stored values")
		assert.Equal(t, coffee.ID, updated.ID)
		assert.Equal(t, coffee.CreatedAt, updated.CreatedAt)
	})

	t.Run("rename_refreshes_slug", func(t *testing.T) {
		updated, err := service.UpdateCoffee(ctx, coffee.ID, map[string]any{"name": "Žuta Mješavina"})
		require.NoError(t, err)
		assert.Equal(t, "zuta-mjesavina", updated.Slug)
	})

	t.Run("unknown_id", func(t *testing.T) {
		_, err := service.UpdateCoffee(ctx, "no-such-id", map[string]any{"priceEUR": 1.0})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeNotFound, apperr.As(err).Code)
	})
}

/*
TestService_UpdateCountry_NestedPatch verifies that patching one
coordinate leaves the other one untouched in storage.
*/
func TestService_UpdateCountry_NestedPatch(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	country, err := service.CreateCountry(ctx, map[string]any{
		"name":        "Kolumbija",
		"coordinates": map[string]any{"lat": 4.57, "lng": -74.3},
	})
	require.NoError(t, err)

	updated, err := service.UpdateCountry(ctx, country.ID, map[string]any{
		"coordinates": map[string]any{"lat": 6.25},
	})
	require.NoError(t, err)

	assert.Equal(t, 6.25, updated.Coordinates.Lat)
	assert.Equal(t, -74.3, updated.Coordinates.Lng, "untouched nested fields keep stored values")
}

/*
TestService_DeleteCoffee verifies deletion cascades to the coffee's price
history.
*/
func TestService_DeleteCoffee(t *testing.T) {
	service, brandID, countryID := newService(t)
	ctx := context.Background()

	coffee, err := service.CreateCoffee(ctx, coffeePayload(brandID, countryID))
	require.NoError(t, err)
	store, err := service.CreateStore(ctx, map[string]any{"name": "Konzum"})
	require.NoError(t, err)
	_, err = service.AddPrice(ctx, coffee.ID, map[string]any{
		"storeId": store.ID, "date": "2026-08-01", "priceEUR": 4.2,
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteCoffee(ctx, coffee.ID))

	_, err = service.GetCoffee(ctx, coffee.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.As(err).Code)

	// Price history went with it, so the store is deletable again.
	assert.NoError(t, service.DeleteStore(ctx, store.ID))
}

/*
TestService_ReferencedRecordsAreUndeletable verifies delete guards on
brands, countries, and stores that are still referenced.
*/
func TestService_ReferencedRecordsAreUndeletable(t *testing.T) {
	service, brandID, countryID := newService(t)
	ctx := context.Background()

	coffee, err := service.CreateCoffee(ctx, coffeePayload(brandID, countryID))
	require.NoError(t, err)

	err = service.DeleteBrand(ctx, brandID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.As(err).Code)

	err = service.DeleteCountry(ctx, countryID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.As(err).Code)

	store, err := service.CreateStore(ctx, map[string]any{"name": "Konzum"})
	require.NoError(t, err)
	_, err = service.AddPrice(ctx, coffee.ID, map[string]any{
		"storeId": store.ID, "date": "2026-08-01", "priceEUR": 4.2,
	})
	require.NoError(t, err)

	err = service.DeleteStore(ctx, store.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.As(err).Code)
}

/*
TestService_PriceHistory verifies store reference checks and newest-first
ordering.
*/
func TestService_PriceHistory(t *testing.T) {
	service, brandID, countryID := newService(t)
	ctx := context.Background()

	coffee, err := service.CreateCoffee(ctx, coffeePayload(brandID, countryID))
	require.NoError(t, err)
	store, err := service.CreateStore(ctx, map[string]any{"name": "Konzum"})
	require.NoError(t, err)

	t.Run("unknown_store", func(t *testing.T) {
		_, err := service.AddPrice(ctx, coffee.ID, map[string]any{
			"storeId": "no-such-store", "date": "2026-08-01", "priceEUR": 4.2,
		})
		require.Error(t, err)
		assert.Equal(t, "storeId", apperr.As(err).Details[0].Field)
	})

	t.Run("unknown_coffee", func(t *testing.T) {
		_, err := service.AddPrice(ctx, "no-such-coffee", map[string]any{
			"storeId": store.ID, "date": "2026-08-01", "priceEUR": 4.2,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeNotFound, apperr.As(err).Code)
	})

	t.Run("newest_first", func(t *testing.T) {
		for _, date := range []string{"2026-08-01", "2026-08-15", "2026-08-08"} {
			_, err := service.AddPrice(ctx, coffee.ID, map[string]any{
				"storeId": store.ID, "date": date, "priceEUR": 4.2,
			})
			require.NoError(t, err)
		}

		history, err := service.PricesForCoffee(ctx, coffee.ID)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, "2026-08-15", history[0].Date)
		assert.Equal(t, "2026-08-08", history[1].Date)
		assert.Equal(t, "2026-08-01", history[2].Date)
	})
}

/*
TestService_ListCoffees verifies the listing filters: brand, minimum
rating, price ceiling, and image presence.
*/
func TestService_ListCoffees(t *testing.T) {
	service, brandID, countryID := newService(t)
	ctx := context.Background()

	other, err := service.CreateBrand(ctx, map[string]any{"name": "Franck"})
	require.NoError(t, err)

	cheap, err := service.CreateCoffee(ctx, coffeePayload(brandID, countryID))
	require.NoError(t, err)
	payload := coffeePayload(other.ID, countryID)
	payload["name"] = "Jubilarna"
	payload["priceEUR"] = 8.9
	payload["rating"] = 5
	_, err = service.CreateCoffee(ctx, payload)
	require.NoError(t, err)

	all, err := service.ListCoffees(ctx, catalog.CoffeeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	t.Run("by_brand", func(t *testing.T) {
		filtered, err := service.ListCoffees(ctx, catalog.CoffeeFilter{BrandID: other.ID})
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, "Jubilarna", filtered[0].Name)
	})

	t.Run("by_min_rating", func(t *testing.T) {
		filtered, err := service.ListCoffees(ctx, catalog.CoffeeFilter{MinRating: 4})
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, "Jubilarna", filtered[0].Name)
	})

	t.Run("by_max_price", func(t *testing.T) {
		filtered, err := service.ListCoffees(ctx, catalog.CoffeeFilter{MaxPriceEUR: 5.0})
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, cheap.Name, filtered[0].Name)
	})

	t.Run("by_image_presence", func(t *testing.T) {
		filtered, err := service.ListCoffees(ctx, catalog.CoffeeFilter{HasImage: true})
		require.NoError(t, err)
		assert.Empty(t, filtered)

		_, err = service.SetCoffeeImage(ctx, cheap.ID, "/uploads/classic.jpg")
		require.NoError(t, err)

		filtered, err = service.ListCoffees(ctx, catalog.CoffeeFilter{HasImage: true})
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, cheap.ID, filtered[0].ID)
	})
}
