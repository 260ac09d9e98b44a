// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package catalog

import "context"

// Repository abstracts collection persistence.
//
// Collections are read and written whole: the catalog is small, writes are
// admin-only and rate limited, and whole-collection semantics keep the
// flat-file backend trivial.
type Repository interface {
	Coffees(ctx context.Context) ([]Coffee, error)
	SaveCoffees(ctx context.Context, coffees []Coffee) error

	Brands(ctx context.Context) ([]Brand, error)
	SaveBrands(ctx context.Context, brands []Brand) error

	Countries(ctx context.Context) ([]Country, error)
	SaveCountries(ctx context.Context, countries []Country) error

	Stores(ctx context.Context) ([]Store, error)
	SaveStores(ctx context.Context, stores []Store) error

	Prices(ctx context.Context) ([]PriceEntry, error)
	SavePrices(ctx context.Context, prices []PriceEntry) error
}
