// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package catalog

import "github.com/dvukelic/kavomjer/internal/platform/validate"

// Validation schemas, one per entity. Immutable at runtime: declared once
// here and only ever read. Every persisted record must satisfy its schema
// at the moment of write.

// CoffeeSchema validates coffee payloads.
//
// Domain constraints: type and roast are closed three-value sets,
// arabicaPercentage is an integer share 0–100, prices are bounded to weed
// out fat-finger entries (no coffee costs 10000 EUR), rating is a 1–5 star
// scale, and a coffee must name at least one origin country.
var CoffeeSchema = validate.Schema{
	Entity: "coffee",
	Rules: []validate.Rule{
		{Field: "name", Type: validate.String, Required: true, MaxLen: 200},
		{Field: "brandId", Type: validate.String, Required: true},
		{Field: "type", Type: validate.String, Required: true, Enum: []string{TypeBean, TypeCapsule, TypeGround}},
		{Field: "roast", Type: validate.String, Required: true, Enum: []string{RoastLight, RoastMedium, RoastDark}},
		{Field: "arabicaPercentage", Type: validate.Int, Min: validate.Ptr(0), Max: validate.Ptr(100), Default: 100},
		{Field: "priceEUR", Type: validate.Float, Required: true, GreaterThan: validate.Ptr(0), Max: validate.Ptr(10000)},
		{Field: "weightG", Type: validate.Float, Required: true, GreaterThan: validate.Ptr(0), Max: validate.Ptr(100000)},
		{Field: "rating", Type: validate.Int, Min: validate.Ptr(1), Max: validate.Ptr(5), Default: 3},
		{Field: "countryIds", Type: validate.StringSlice, Required: true, MinItems: 1},
	},
}

// BrandSchema validates brand payloads.
var BrandSchema = validate.Schema{
	Entity: "brand",
	Rules: []validate.Rule{
		{Field: "name", Type: validate.String, Required: true, MaxLen: 200},
		{Field: "country", Type: validate.String, MaxLen: 100, Default: DefaultBrandCountry},
	},
}

// CountrySchema validates country payloads.
var CountrySchema = validate.Schema{
	Entity: "country",
	Rules: []validate.Rule{
		{Field: "name", Type: validate.String, Required: true, MaxLen: 100},
		{Field: "flag", Type: validate.String, MaxLen: 16, Default: DefaultCountryFlag},
		{
			Field:   "coordinates",
			Type:    validate.Object,
			Default: map[string]any{"lat": 0.0, "lng": 0.0},
			Rules: []validate.Rule{
				{Field: "lat", Type: validate.Float, Min: validate.Ptr(-90), Max: validate.Ptr(90), Default: 0.0},
				{Field: "lng", Type: validate.Float, Min: validate.Ptr(-180), Max: validate.Ptr(180), Default: 0.0},
			},
		},
	},
}

// StoreSchema validates store payloads.
var StoreSchema = validate.Schema{
	Entity: "store",
	Rules: []validate.Rule{
		{Field: "name", Type: validate.String, Required: true, MaxLen: 200},
	},
}

// PriceEntrySchema validates price observations appended to a coffee.
var PriceEntrySchema = validate.Schema{
	Entity: "priceEntry",
	Rules: []validate.Rule{
		{Field: "storeId", Type: validate.String, Required: true},
		{Field: "date", Type: validate.ISODate, Required: true},
		{Field: "priceEUR", Type: validate.Float, Required: true, GreaterThan: validate.Ptr(0), Max: validate.Ptr(10000)},
	},
}
