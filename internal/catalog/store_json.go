// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package catalog

import (
	"context"
	"fmt"

	"github.com/dvukelic/kavomjer/internal/platform/jsonstore"
)

// Collection file names under the data directory.
const (
	collectionCoffees   = "coffees"
	collectionBrands    = "brands"
	collectionCountries = "countries"
	collectionStores    = "stores"
	collectionPrices    = "prices"
)

// JSONRepository implements [Repository] on top of flat JSON files.
type JSONRepository struct {
	store *jsonstore.Store
}

// NewJSONRepository creates a flat-file repository rooted at the given store.
func NewJSONRepository(store *jsonstore.Store) *JSONRepository {
	return &JSONRepository{store: store}
}

func (repository *JSONRepository) Coffees(_ context.Context) ([]Coffee, error) {
	coffees := make([]Coffee, 0)
	if err := repository.store.Read(collectionCoffees, &coffees); err != nil {
		return nil, fmt.Errorf("catalog: load coffees: %w", err)
	}
	return coffees, nil
}

func (repository *JSONRepository) SaveCoffees(_ context.Context, coffees []Coffee) error {
	if err := repository.store.Write(collectionCoffees, coffees); err != nil {
		return fmt.Errorf("catalog: save coffees: %w", err)
	}
	return nil
}

func (repository *JSONRepository) Brands(_ context.Context) ([]Brand, error) {
	brands := make([]Brand, 0)
	if err := repository.store.Read(collectionBrands, &brands); err != nil {
		return nil, fmt.Errorf("catalog: load brands: %w", err)
	}
	return brands, nil
}

func (repository *JSONRepository) SaveBrands(_ context.Context, brands []Brand) error {
	if err := repository.store.Write(collectionBrands, brands); err != nil {
		return fmt.Errorf("catalog: save brands: %w", err)
	}
	return nil
}

func (repository *JSONRepository) Countries(_ context.Context) ([]Country, error) {
	countries := make([]Country, 0)
	if err := repository.store.Read(collectionCountries, &countries); err != nil {
		return nil, fmt.Errorf("catalog: load countries: %w", err)
	}
	return countries, nil
}

func (repository *JSONRepository) SaveCountries(_ context.Context, countries []Country) error {
	if err := repository.store.Write(collectionCountries, countries); err != nil {
		return fmt.Errorf("catalog: save countries: %w", err)
	}
	return nil
}

func (repository *JSONRepository) Stores(_ context.Context) ([]Store, error) {
	stores := make([]Store, 0)
	if err := repository.store.Read(collectionStores, &stores); err != nil {
		return nil, fmt.Errorf("catalog: load stores: %w", err)
	}
	return stores, nil
}

func (repository *JSONRepository) SaveStores(_ context.Context, stores []Store) error {
	if err := repository.store.Write(collectionStores, stores); err != nil {
		return fmt.Errorf("catalog: save stores: %w", err)
	}
	return nil
}

func (repository *JSONRepository) Prices(_ context.Context) ([]PriceEntry, error) {
	prices := make([]PriceEntry, 0)
	if err := repository.store.Read(collectionPrices, &prices); err != nil {
		return nil, fmt.Errorf("catalog: load prices: %w", err)
	}
	return prices, nil
}

func (repository *JSONRepository) SavePrices(_ context.Context, prices []PriceEntry) error {
	if err := repository.store.Write(collectionPrices, prices); err != nil {
		return fmt.Errorf("catalog: save prices: %w", err)
	}
	return nil
}
