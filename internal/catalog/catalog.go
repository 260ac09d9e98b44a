// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

/*
Package catalog implements the coffee price catalog: coffees, brands,
countries of origin, stores, and the price history tracked per coffee.

# Architecture

  - Entities: Plain records persisted as flat JSON collections.
  - Schemas: Declarative validation rules ([validate.Schema]) enforced on
    every write; a persisted record always satisfies its schema.
  - Service: Referential integrity (brand/country/store references) and
    conflict detection on top of the storage layer.
  - HTTP: Public reads; writes gated behind the admin token, the write
    rate limiter, and schema validation.
*/
package catalog

import "time"

// # Domain Entities

// Coffee is a single retail coffee product.
type Coffee struct {
	ID                string    `json:"id"`
	Slug              string    `json:"slug"`
	Name              string    `json:"name"`
	BrandID           string    `json:"brandId"`
	Type              string    `json:"type"`
	Roast             string    `json:"roast"`
	ArabicaPercentage int       `json:"arabicaPercentage"`
	PriceEUR          float64   `json:"priceEUR"`
	WeightG           float64   `json:"weightG"`
	Rating            int       `json:"rating"`
	CountryIDs        []string  `json:"countryIds"`
	ImagePath         string    `json:"imagePath,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Brand is a coffee producer or roaster.
type Brand struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Coordinates locates a country on the origin map.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Country is a coffee-growing origin.
type Country struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Flag        string      `json:"flag"`
	Coordinates Coordinates `json:"coordinates"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Store is a retail store where prices are observed.
type Store struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PriceEntry is one observed price of a coffee in a store on a date.
type PriceEntry struct {
	ID        string    `json:"id"`
	CoffeeID  string    `json:"coffeeId"`
	StoreID   string    `json:"storeId"`
	Date      string    `json:"date"`
	PriceEUR  float64   `json:"priceEUR"`
	CreatedAt time.Time `json:"createdAt"`
}

// # Enumerations

// Allowed coffee forms.
const (
	TypeBean    = "Bean"
	TypeCapsule = "Capsule"
	TypeGround  = "Ground"
)

// Allowed roast levels.
const (
	RoastLight  = "Light"
	RoastMedium = "Medium"
	RoastDark   = "Dark"
)

// DefaultBrandCountry is the fallback when a brand's country is unknown.
const DefaultBrandCountry = "Nepoznato"

// DefaultCountryFlag is the placeholder glyph for countries without a flag.
const DefaultCountryFlag = "🏳️"
