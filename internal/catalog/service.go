// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dvukelic/kavomjer/internal/platform/apperr"
	"github.com/dvukelic/kavomjer/pkg/slug"
	"github.com/dvukelic/kavomjer/pkg/uuidv7"
)

// Service orchestrates catalog use cases on top of a [Repository].
//
// Handlers pass in schema-sanitized payloads; the service owns referential
// integrity (brand/country/store references must resolve), duplicate
// detection, and record materialization.
type Service struct {
	repository Repository
}

// NewService constructs a catalog Service.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// # Coffees

// CoffeeFilter narrows a coffee listing. Zero values mean "no constraint".
type CoffeeFilter struct {
	BrandID     string
	MinRating   int
	MaxPriceEUR float64
	// HasImage keeps only coffees with an uploaded image.
	HasImage bool
}

func (filter CoffeeFilter) matches(coffee Coffee) bool {
	if filter.BrandID != "" && coffee.BrandID != filter.BrandID {
		return false
	}
	if filter.MinRating > 0 && coffee.Rating < filter.MinRating {
		return false
	}
	if filter.MaxPriceEUR > 0 && coffee.PriceEUR > filter.MaxPriceEUR {
		return false
	}
	if filter.HasImage && coffee.ImagePath == "" {
		return false
	}
	return true
}

// ListCoffees returns all coffees matching the filter.
func (service *Service) ListCoffees(ctx context.Context, filter CoffeeFilter) ([]Coffee, error) {
	coffees, err := service.repository.Coffees(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	filtered := make([]Coffee, 0, len(coffees))
	for _, coffee := range coffees {
		if filter.matches(coffee) {
			filtered = append(filtered, coffee)
		}
	}
	return filtered, nil
}

// GetCoffee returns one coffee by ID.
func (service *Service) GetCoffee(ctx context.Context, id string) (*Coffee, error) {
	coffees, err := service.repository.Coffees(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	for i := range coffees {
		if coffees[i].ID == id {
			return &coffees[i], nil
		}
	}
	return nil, apperr.NotFound("Kava")
}

// CreateCoffee persists a new coffee from a schema-sanitized payload.
func (service *Service) CreateCoffee(ctx context.Context, payload map[string]any) (*Coffee, error) {
	coffee := &Coffee{}
	if err := materialize(payload, coffee); err != nil {
		return nil, apperr.Internal(err)
	}

	if err := service.checkCoffeeReferences(ctx, coffee.BrandID, coffee.CountryIDs); err != nil {
		return nil, err
	}

	coffees, err := service.repository.Coffees(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, existing := range coffees {
		if strings.EqualFold(existing.Name, coffee.Name) && existing.BrandID == coffee.BrandID {
			return nil, apperr.Conflict("Kava s tim imenom već postoji za ovu marku")
		}
	}

	currentTime := time.Now().UTC()
	coffee.ID = uuidv7.New()
	coffee.Slug = slug.From(coffee.Name)
	coffee.CreatedAt = currentTime
	coffee.UpdatedAt = currentTime

	coffees = append(coffees, *coffee)
	if err := service.repository.SaveCoffees(ctx, coffees); err != nil {
		return nil, apperr.Internal(err)
	}
	return coffee, nil
}

// UpdateCoffee applies a full or partial sanitized payload to an existing coffee.
//
// In partial mode only the present fields change; absent fields keep their
// stored values and schema defaults are never re-injected.
func (service *Service) UpdateCoffee(ctx context.Context, id string, payload map[string]any) (*Coffee, error) {
	coffees, err := service.repository.Coffees(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	index := -1
	for i := range coffees {
		if coffees[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, apperr.NotFound("Kava")
	}

	updated := coffees[index]
	if err := patch(&updated, payload); err != nil {
		return nil, apperr.Internal(err)
	}

	if err := service.checkCoffeeReferences(ctx, updated.BrandID, updated.CountryIDs); err != nil {
		return nil, err
	}

	// Identity fields never come from the payload.
	updated.ID = coffees[index].ID
	updated.CreatedAt = coffees[index].CreatedAt
	updated.Slug = slug.From(updated.Name)
	updated.UpdatedAt = time.Now().UTC()

	coffees[index] = updated
	if err := service.repository.SaveCoffees(ctx, coffees); err != nil {
		return nil, apperr.Internal(err)
	}
	return &updated, nil
}

// DeleteCoffee removes a coffee and its price history.
func (service *Service) DeleteCoffee(ctx context.Context, id string) error {
	coffees, err := service.repository.Coffees(ctx)
	if err != nil {
		return apperr.Internal(err)
	}

	remaining := make([]Coffee, 0, len(coffees))
	found := false
	for _, coffee := range coffees {
		if coffee.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, coffee)
	}
	if !found {
		return apperr.NotFound("Kava")
	}

	if err := service.repository.SaveCoffees(ctx, remaining); err != nil {
		return apperr.Internal(err)
	}

	// Cascade: orphaned price entries are dropped with their coffee.
	prices, err := service.repository.Prices(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	keptPrices := make([]PriceEntry, 0, len(prices))
	for _, price := range prices {
		if price.CoffeeID != id {
			keptPrices = append(keptPrices, price)
		}
	}
	if len(keptPrices) != len(prices) {
		if err := service.repository.SavePrices(ctx, keptPrices); err != nil {
			return apperr.Internal(err)
		}
	}
	return nil
}

// SetCoffeeImage records the stored image path for a coffee.
func (service *Service) SetCoffeeImage(ctx context.Context, id, imagePath string) (*Coffee, error) {
	return service.UpdateCoffee(ctx, id, map[string]any{"imagePath": imagePath})
}

// checkCoffeeReferences verifies that the brand and every origin country exist.
func (service *Service) checkCoffeeReferences(ctx context.Context, brandID string, countryIDs []string) error {
	brands, err := service.repository.Brands(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	if !brandExists(brands, brandID) {
		return apperr.ValidationError("Validacija nije uspjela", apperr.FieldError{
			Field:   "brandId",
			Message: "Marka ne postoji",
		})
	}

	countries, err := service.repository.Countries(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	known := make(map[string]struct{}, len(countries))
	for _, country := range countries {
		known[country.ID] = struct{}{}
	}
	for _, countryID := range countryIDs {
		if _, ok := known[countryID]; !ok {
			return apperr.ValidationError("Validacija nije uspjela", apperr.FieldError{
				Field:   "countryIds",
				Message: fmt.Sprintf("Država %s ne postoji", countryID),
			})
		}
	}
	return nil
}

// # Brands

// ListBrands returns all brands.
func (service *Service) ListBrands(ctx context.Context) ([]Brand, error) {
	brands, err := service.repository.Brands(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return brands, nil
}

// CreateBrand persists a new brand.
func (service *Service) CreateBrand(ctx context.Context, payload map[string]any) (*Brand, error) {
	brand := &Brand{}
	if err := materialize(payload, brand); err != nil {
		return nil, apperr.Internal(err)
	}

	brands, err := service.repository.Brands(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, existing := range brands {
		if strings.EqualFold(existing.Name, brand.Name) {
			return nil, apperr.Conflict("Marka s tim imenom već postoji")
		}
	}

	currentTime := time.Now().UTC()
	brand.ID = uuidv7.New()
	brand.Slug = slug.From(brand.Name)
	brand.CreatedAt = currentTime
	brand.UpdatedAt = currentTime

	brands = append(brands, *brand)
	if err := service.repository.SaveBrands(ctx, brands); err != nil {
		return nil, apperr.Internal(err)
	}
	return brand, nil
}

// UpdateBrand applies a sanitized payload to an existing brand.
func (service *Service) UpdateBrand(ctx context.Context, id string, payload map[string]any) (*Brand, error) {
	brands, err := service.repository.Brands(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	index := -1
	for i := range brands {
		if brands[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, apperr.NotFound("Marka")
	}

	updated := brands[index]
	if err := patch(&updated, payload); err != nil {
		return nil, apperr.Internal(err)
	}
	updated.ID = brands[index].ID
	updated.CreatedAt = brands[index].CreatedAt
	updated.Slug = slug.From(updated.Name)
	updated.UpdatedAt = time.Now().UTC()

	brands[index] = updated
	if err := service.repository.SaveBrands(ctx, brands); err != nil {
		return nil, apperr.Internal(err)
	}
	return &updated, nil
}

// DeleteBrand removes a brand unless a coffee still references it.
func (service *Service) DeleteBrand(ctx context.Context, id string) error {
	coffees, err := service.repository.Coffees(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	for _, coffee := range coffees {
		if coffee.BrandID == id {
			return apperr.Conflict("Marka se ne može obrisati dok postoje njezine kave")
		}
	}

	brands, err := service.repository.Brands(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	remaining := make([]Brand, 0, len(brands))
	found := false
	for _, brand := range brands {
		if brand.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, brand)
	}
	if !found {
		return apperr.NotFound("Marka")
	}
	if err := service.repository.SaveBrands(ctx, remaining); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// # Countries

// ListCountries returns all origin countries.
func (service *Service) ListCountries(ctx context.Context) ([]Country, error) {
	countries, err := service.repository.Countries(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return countries, nil
}

// CreateCountry persists a new origin country.
func (service *Service) CreateCountry(ctx context.Context, payload map[string]any) (*Country, error) {
	country := &Country{}
	if err := materialize(payload, country); err != nil {
		return nil, apperr.Internal(err)
	}

	countries, err := service.repository.Countries(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, existing := range countries {
		if strings.EqualFold(existing.Name, country.Name) {
			return nil, apperr.Conflict("Država s tim imenom već postoji")
		}
	}

	currentTime := time.Now().UTC()
	country.ID = uuidv7.New()
	country.CreatedAt = currentTime
	country.UpdatedAt = currentTime

	countries = append(countries, *country)
	if err := service.repository.SaveCountries(ctx, countries); err != nil {
		return nil, apperr.Internal(err)
	}
	return country, nil
}

// UpdateCountry applies a sanitized payload to an existing country.
func (service *Service) UpdateCountry(ctx context.Context, id string, payload map[string]any) (*Country, error) {
	countries, err := service.repository.Countries(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	index := -1
	for i := range countries {
		if countries[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, apperr.NotFound("Država")
	}

	updated := countries[index]
	if err := patch(&updated, payload); err != nil {
		return nil, apperr.Internal(err)
	}
	updated.ID = countries[index].ID
	updated.CreatedAt = countries[index].CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	countries[index] = updated
	if err := service.repository.SaveCountries(ctx, countries); err != nil {
		return nil, apperr.Internal(err)
	}
	return &updated, nil
}

// DeleteCountry removes a country unless a coffee still references it.
func (service *Service) DeleteCountry(ctx context.Context, id string) error {
	coffees, err := service.repository.Coffees(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	for _, coffee := range coffees {
		for _, countryID := range coffee.CountryIDs {
			if countryID == id {
				return apperr.Conflict("Država se ne može obrisati dok je kave navode kao porijeklo")
			}
		}
	}

	countries, err := service.repository.Countries(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	remaining := make([]Country, 0, len(countries))
	found := false
	for _, country := range countries {
		if country.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, country)
	}
	if !found {
		return apperr.NotFound("Država")
	}
	if err := service.repository.SaveCountries(ctx, remaining); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// # Stores

// ListStores returns all retail stores.
func (service *Service) ListStores(ctx context.Context) ([]Store, error) {
	stores, err := service.repository.Stores(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return stores, nil
}

// CreateStore persists a new retail store.
func (service *Service) CreateStore(ctx context.Context, payload map[string]any) (*Store, error) {
	store := &Store{}
	if err := materialize(payload, store); err != nil {
		return nil, apperr.Internal(err)
	}

	stores, err := service.repository.Stores(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, existing := range stores {
		if strings.EqualFold(existing.Name, store.Name) {
			return nil, apperr.Conflict("Trgovina s tim imenom već postoji")
		}
	}

	currentTime := time.Now().UTC()
	store.ID = uuidv7.New()
	store.Slug = slug.From(store.Name)
	store.CreatedAt = currentTime
	store.UpdatedAt = currentTime

	stores = append(stores, *store)
	if err := service.repository.SaveStores(ctx, stores); err != nil {
		return nil, apperr.Internal(err)
	}
	return store, nil
}

// DeleteStore removes a store unless a price entry still references it.
func (service *Service) DeleteStore(ctx context.Context, id string) error {
	prices, err := service.repository.Prices(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	for _, price := range prices {
		if price.StoreID == id {
			return apperr.Conflict("Trgovina se ne može obrisati dok postoje njezini zapisi cijena")
		}
	}

	stores, err := service.repository.Stores(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	remaining := make([]Store, 0, len(stores))
	found := false
	for _, store := range stores {
		if store.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, store)
	}
	if !found {
		return apperr.NotFound("Trgovina")
	}
	if err := service.repository.SaveStores(ctx, remaining); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// # Price Entries

// PricesForCoffee returns the price history of one coffee, newest first.
func (service *Service) PricesForCoffee(ctx context.Context, coffeeID string) ([]PriceEntry, error) {
	if _, err := service.GetCoffee(ctx, coffeeID); err != nil {
		return nil, err
	}

	prices, err := service.repository.Prices(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	history := make([]PriceEntry, 0)
	for _, price := range prices {
		if price.CoffeeID == coffeeID {
			history = append(history, price)
		}
	}

	// Dates are ISO strings, so lexicographic order is chronological.
	for i := 0; i < len(history); i++ {
		for j := i + 1; j < len(history); j++ {
			if history[j].Date > history[i].Date {
				history[i], history[j] = history[j], history[i]
			}
		}
	}
	return history, nil
}

// AddPrice appends a price observation to a coffee's history.
func (service *Service) AddPrice(ctx context.Context, coffeeID string, payload map[string]any) (*PriceEntry, error) {
	if _, err := service.GetCoffee(ctx, coffeeID); err != nil {
		return nil, err
	}

	entry := &PriceEntry{}
	if err := materialize(payload, entry); err != nil {
		return nil, apperr.Internal(err)
	}

	stores, err := service.repository.Stores(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !storeExists(stores, entry.StoreID) {
		return nil, apperr.ValidationError("Validacija nije uspjela", apperr.FieldError{
			Field:   "storeId",
			Message: "Trgovina ne postoji",
		})
	}

	entry.ID = uuidv7.New()
	entry.CoffeeID = coffeeID
	entry.CreatedAt = time.Now().UTC()

	prices, err := service.repository.Prices(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	prices = append(prices, *entry)
	if err := service.repository.SavePrices(ctx, prices); err != nil {
		return nil, apperr.Internal(err)
	}
	return entry, nil
}

// # Helpers

// materialize decodes a sanitized payload into a typed record via a JSON
// round-trip, so schema output and storage share one field mapping.
func materialize(payload map[string]any, target any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, target)
}

// patch overlays a sanitized payload onto an existing record, leaving
// absent fields untouched.
func patch(record any, payload map[string]any) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return err
	}

	var merged map[string]any
	if err := json.Unmarshal(encoded, &merged); err != nil {
		return err
	}
	for key, value := range payload {
		// Object fields merge key-by-key so a partial nested update does
		// not wipe its siblings.
		if nested, ok := value.(map[string]any); ok {
			if existing, ok := merged[key].(map[string]any); ok {
				for nestedKey, nestedValue := range nested {
					existing[nestedKey] = nestedValue
				}
				continue
			}
		}
		merged[key] = value
	}

	encoded, err = json.Marshal(merged)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, record)
}

func brandExists(brands []Brand, id string) bool {
	for _, brand := range brands {
		if brand.ID == id {
			return true
		}
	}
	return false
}

func storeExists(stores []Store, id string) bool {
	for _, store := range stores {
		if store.ID == id {
			return true
		}
	}
	return false
}
