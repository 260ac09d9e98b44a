// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

/*
Package validate provides a declarative, data-driven schema engine that
collects every field-level violation before returning a single
[apperr.AppError].

# Architecture

Each entity declares an immutable [Schema]: a flat list of [Rule] values
evaluated uniformly over a decoded JSON object. The engine never fails fast —
the returned details array lists every violated field — and it sanitizes:
unknown input fields are dropped (allow-list semantics) and defaults are
injected for absent optional fields, so the output is safe to persist as-is.

This package is used exclusively in the service/handler layer — never in
storage. Schemas are constructed once at package init and never mutated.
*/
package validate

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dvukelic/kavomjer/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Neispravan JSON sadržaj")

// # Rule Types

// Type enumerates the JSON value types a [Rule] can require.
type Type int

const (
	// String requires a JSON string.
	String Type = iota
	// Int requires a JSON number with no fractional part.
	Int
	// Float requires any JSON number.
	Float
	// Bool requires a JSON boolean.
	Bool
	// StringSlice requires a JSON array of strings.
	StringSlice
	// Object requires a nested JSON object validated by the rule's Rules.
	Object
	// ISODate requires a string parseable as an ISO 8601 date.
	ISODate
)

// Rule declares the constraints for a single field.
//
// Zero values mean "unconstrained": a nil Min imposes no lower bound, an
// empty Enum allows any value, MaxLen 0 is unlimited.
type Rule struct {
	// Field is the JSON key this rule applies to.
	Field string
	// Type is the required JSON value type.
	Type Type
	// Required fails the rule when the field is absent (ignored in partial mode).
	Required bool

	// Min / Max bound numeric values inclusively.
	Min *float64
	Max *float64
	// GreaterThan bounds numeric values exclusively (e.g. price > 0).
	GreaterThan *float64

	// MinLen / MaxLen bound string length in Unicode characters.
	MinLen int
	MaxLen int

	// Enum restricts a string to a fixed set of values.
	Enum []string

	// MinItems requires at least this many array elements.
	MinItems int

	// Default is injected into the sanitized output when the field is
	// absent (full mode only).
	Default any

	// Rules validates a nested object field.
	Rules []Rule
}

// # Schema

// Schema is an immutable set of field rules for one entity.
type Schema struct {
	// Entity names the validated record type in log messages.
	Entity string
	Rules  []Rule
}

// Option adjusts how a [Schema] is applied.
type Option func(*settings)

type settings struct {
	partial bool
}

// Partial makes every field optional while keeping full constraints on the
// fields that are present. Defaults are not injected, so PATCH-style updates
// never overwrite stored values with schema defaults.
func Partial() Option {
	return func(s *settings) { s.partial = true }
}

// Validate applies every rule to the decoded JSON object and returns the
// sanitized value, or a VALIDATION_ERROR carrying one detail per violation.
//
// The sanitized map contains only schema-known fields: anything else in the
// input is silently dropped and never reaches storage.
func (schema Schema) Validate(data map[string]any, opts ...Option) (map[string]any, error) {
	cfg := settings{}
	for _, opt := range opts {
		opt(&cfg)
	}

	sanitized := make(map[string]any, len(schema.Rules))
	var violations []apperr.FieldError

	for _, rule := range schema.Rules {
		value, present := data[rule.Field]

		if !present || value == nil {
			if rule.Required && !cfg.partial {
				violations = append(violations, apperr.FieldError{
					Field:   rule.Field,
					Message: "Obavezno polje",
				})
				continue
			}
			if rule.Default != nil && !cfg.partial {
				sanitized[rule.Field] = rule.Default
			}
			continue
		}

		coerced, fieldErrs := rule.check(value, cfg)
		if len(fieldErrs) > 0 {
			violations = append(violations, fieldErrs...)
			continue
		}
		sanitized[rule.Field] = coerced
	}

	if len(violations) > 0 {
		return nil, apperr.ValidationError("Validacija nije uspjela", violations...)
	}

	return sanitized, nil
}

// # Rule Evaluation

// check validates a present value against one rule. It returns the coerced
// value and every constraint violation found. The settings travel along so
// nested objects inherit partial mode.
func (rule Rule) check(value any, cfg settings) (any, []apperr.FieldError) {
	switch rule.Type {
	case String:
		return rule.checkString(value)
	case Int, Float:
		return rule.checkNumber(value)
	case Bool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, rule.fail("Mora biti logička vrijednost")
	case StringSlice:
		return rule.checkStringSlice(value)
	case Object:
		return rule.checkObject(value, cfg)
	case ISODate:
		return rule.checkISODate(value)
	}
	return nil, rule.fail("Nepoznat tip pravila")
}

func (rule Rule) checkString(value any) (any, []apperr.FieldError) {
	str, ok := value.(string)
	if !ok {
		return nil, rule.fail("Mora biti tekst")
	}

	var errs []apperr.FieldError
	length := utf8.RuneCountInString(str)

	if rule.Required && strings.TrimSpace(str) == "" {
		errs = append(errs, rule.violation("Obavezno polje"))
	}
	if rule.MinLen > 0 && length < rule.MinLen {
		errs = append(errs, rule.violation(fmt.Sprintf("Najmanje %d znakova", rule.MinLen)))
	}
	if rule.MaxLen > 0 && length > rule.MaxLen {
		errs = append(errs, rule.violation(fmt.Sprintf("Najviše %d znakova", rule.MaxLen)))
	}
	if len(rule.Enum) > 0 && !contains(rule.Enum, str) {
		errs = append(errs, rule.violation("Mora biti jedno od: "+strings.Join(rule.Enum, ", ")))
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return str, nil
}

func (rule Rule) checkNumber(value any) (any, []apperr.FieldError) {
	// encoding/json decodes every number as float64.
	num, ok := value.(float64)
	if !ok {
		return nil, rule.fail("Mora biti broj")
	}

	var errs []apperr.FieldError

	if rule.Type == Int && math.Trunc(num) != num {
		errs = append(errs, rule.violation("Mora biti cijeli broj"))
	}
	if rule.GreaterThan != nil && num <= *rule.GreaterThan {
		errs = append(errs, rule.violation(fmt.Sprintf("Mora biti veće od %g", *rule.GreaterThan)))
	}
	if rule.Min != nil && num < *rule.Min {
		errs = append(errs, rule.violation(fmt.Sprintf("Najmanje %g", *rule.Min)))
	}
	if rule.Max != nil && num > *rule.Max {
		errs = append(errs, rule.violation(fmt.Sprintf("Najviše %g", *rule.Max)))
	}

	if len(errs) > 0 {
		return nil, errs
	}
	if rule.Type == Int {
		return int(num), nil
	}
	return num, nil
}

func (rule Rule) checkStringSlice(value any) (any, []apperr.FieldError) {
	raw, ok := value.([]any)
	if !ok {
		return nil, rule.fail("Mora biti popis")
	}

	if len(raw) < rule.MinItems {
		return nil, rule.fail(fmt.Sprintf("Mora sadržavati najmanje %d stavku/e", rule.MinItems))
	}

	items := make([]string, 0, len(raw))
	for _, element := range raw {
		str, ok := element.(string)
		if !ok || strings.TrimSpace(str) == "" {
			return nil, rule.fail("Sve stavke moraju biti neprazan tekst")
		}
		items = append(items, str)
	}
	return items, nil
}

func (rule Rule) checkObject(value any, cfg settings) (any, []apperr.FieldError) {
	nested, ok := value.(map[string]any)
	if !ok {
		return nil, rule.fail("Mora biti objekt")
	}

	// Nested objects are validated with their own schema; violations are
	// reported with a dotted path so clients can locate the exact field.
	// Partial mode carries through: a PATCH touching one nested field must
	// not default-inject its siblings.
	var opts []Option
	if cfg.partial {
		opts = append(opts, Partial())
	}
	sanitized, err := (Schema{Entity: rule.Field, Rules: rule.Rules}).Validate(nested, opts...)
	if err != nil {
		appError := apperr.As(err)
		prefixed := make([]apperr.FieldError, 0, len(appError.Details))
		for _, detail := range appError.Details {
			prefixed = append(prefixed, apperr.FieldError{
				Field:   rule.Field + "." + detail.Field,
				Message: detail.Message,
			})
		}
		return nil, prefixed
	}
	return sanitized, nil
}

func (rule Rule) checkISODate(value any) (any, []apperr.FieldError) {
	str, ok := value.(string)
	if !ok {
		return nil, rule.fail("Mora biti tekst")
	}

	// Accept both a bare date and a full timestamp; store the bare date.
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, str); err == nil {
			return parsed.Format("2006-01-02"), nil
		}
	}
	return nil, rule.fail("Mora biti ISO datum (GGGG-MM-DD)")
}

// # Helpers

func (rule Rule) violation(message string) apperr.FieldError {
	return apperr.FieldError{Field: rule.Field, Message: message}
}

func (rule Rule) fail(message string) []apperr.FieldError {
	return []apperr.FieldError{rule.violation(message)}
}

func contains(haystack []string, needle string) bool {
	for _, candidate := range haystack {
		if candidate == needle {
			return true
		}
	}
	return false
}

// Ptr returns a pointer to v, for inline numeric bounds in schema literals.
func Ptr(v float64) *float64 { return &v }
