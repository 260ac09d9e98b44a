// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package catalog

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/dvukelic/kavomjer/internal/platform/apperr"
	"github.com/dvukelic/kavomjer/internal/platform/constants"
	requestutil "github.com/dvukelic/kavomjer/internal/platform/request"
	"github.com/dvukelic/kavomjer/internal/platform/respond"
	"github.com/dvukelic/kavomjer/internal/platform/validate"
	"github.com/dvukelic/kavomjer/pkg/convert"
	"github.com/dvukelic/kavomjer/pkg/pagination"
	"github.com/dvukelic/kavomjer/pkg/uuidv7"
)

// Handler implements the catalog HTTP endpoints.
type Handler struct {
	catalogService *Service
	imageDir       string

	requireAdmin func(http.Handler) http.Handler
	writeLimit   func(http.Handler) http.Handler
	uploadLimit  func(http.Handler) http.Handler
}

// NewHandler constructs a new [Handler] with its dependencies.
//
// requireAdmin, writeLimit and uploadLimit are injected so the handler owns
// which routes they guard without owning how they decide.
func NewHandler(
	service *Service,
	imageDir string,
	requireAdmin func(http.Handler) http.Handler,
	writeLimit func(http.Handler) http.Handler,
	uploadLimit func(http.Handler) http.Handler,
) *Handler {
	return &Handler{
		catalogService: service,
		imageDir:       imageDir,
		requireAdmin:   requireAdmin,
		writeLimit:     writeLimit,
		uploadLimit:    uploadLimit,
	}
}

// Routes returns a [chi.Router] with the catalog routes.
//
// Reads are public. Every mutation sits behind the admin token check and the
// write limiter; the image route swaps the write limiter for the stricter
// upload limiter.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ── Public Reads ──────────────────────────────────────────────────────
	router.Get("/coffees", handler.listCoffees)
	router.Get("/coffees/{id}", handler.getCoffee)
	router.Get("/coffees/{id}/prices", handler.listPrices)
	router.Get("/brands", handler.listBrands)
	router.Get("/countries", handler.listCountries)
	router.Get("/stores", handler.listStores)

	// ── Admin Writes ──────────────────────────────────────────────────────
	router.Group(func(admin chi.Router) {
		admin.Use(handler.requireAdmin)
		admin.Use(handler.writeLimit)

		admin.Post("/coffees", handler.createCoffee)
		admin.Put("/coffees/{id}", handler.replaceCoffee)
		admin.Patch("/coffees/{id}", handler.patchCoffee)
		admin.Delete("/coffees/{id}", handler.deleteCoffee)
		admin.Post("/coffees/{id}/prices", handler.addPrice)

		admin.Post("/brands", handler.createBrand)
		admin.Put("/brands/{id}", handler.updateBrand)
		admin.Delete("/brands/{id}", handler.deleteBrand)

		admin.Post("/countries", handler.createCountry)
		admin.Put("/countries/{id}", handler.updateCountry)
		admin.Delete("/countries/{id}", handler.deleteCountry)

		admin.Post("/stores", handler.createStore)
		admin.Delete("/stores/{id}", handler.deleteStore)
	})

	router.Group(func(upload chi.Router) {
		upload.Use(handler.requireAdmin)
		upload.Use(handler.uploadLimit)
		upload.Post("/coffees/{id}/image", handler.uploadCoffeeImage)
	})

	return router
}

// # Coffees

/*
listCoffees returns a page of coffees.

GET /api/coffees?page=&limit=&brandId=&minRating=&maxPriceEUR=&hasImage=

Filter parameters are parsed leniently: malformed values fall back to the
zero value, which means "no constraint".
*/
func (handler *Handler) listCoffees(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := CoffeeFilter{
		BrandID:     query.Get("brandId"),
		MinRating:   convert.ToInt(query.Get("minRating")),
		MaxPriceEUR: convert.ToFloat64(query.Get("maxPriceEUR")),
		HasImage:    convert.ToBool(query.Get("hasImage")),
	}

	coffees, err := handler.catalogService.ListCoffees(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	from, to := params.Slice(len(coffees))
	respond.Paginated(writer, coffees[from:to], pagination.NewMeta(params.Page, params.Limit, len(coffees)))
}

func (handler *Handler) getCoffee(writer http.ResponseWriter, request *http.Request) {
	coffee, err := handler.catalogService.GetCoffee(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, coffee)
}

func (handler *Handler) createCoffee(writer http.ResponseWriter, request *http.Request) {
	sanitized, err := handler.decodeAndValidate(request, CoffeeSchema)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	coffee, err := handler.catalogService.CreateCoffee(request.Context(), sanitized)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, coffee)
}

func (handler *Handler) replaceCoffee(writer http.ResponseWriter, request *http.Request) {
	sanitized, err := handler.decodeAndValidate(request, CoffeeSchema)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.applyCoffeeUpdate(writer, request, sanitized)
}

func (handler *Handler) patchCoffee(writer http.ResponseWriter, request *http.Request) {
	sanitized, err := handler.decodeAndValidate(request, CoffeeSchema, validate.Partial())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.applyCoffeeUpdate(writer, request, sanitized)
}

func (handler *Handler) applyCoffeeUpdate(writer http.ResponseWriter, request *http.Request, sanitized map[string]any) {
	coffee, err := handler.catalogService.UpdateCoffee(request.Context(), requestutil.Param(request, "id"), sanitized)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, coffee)
}

func (handler *Handler) deleteCoffee(writer http.ResponseWriter, request *http.Request) {
	if err := handler.catalogService.DeleteCoffee(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
uploadCoffeeImage stores a coffee image from a multipart form.

POST /api/coffees/{id}/image

The body is capped at [constants.MaxImageUploadBytes]; the content is
sniffed, not trusted from the declared type, and only JPEG, PNG and WebP
pass. The stored file gets a fresh UUIDv7 name so uploads never collide
or overwrite by guessable paths.
*/
func (handler *Handler) uploadCoffeeImage(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxImageUploadBytes)

	file, _, err := requestFile(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer file.Close()

	// ── 1. Sniff the real content type ────────────────────────────────────
	head := make([]byte, 512)
	headLen, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		respond.Error(writer, request, apperr.ValidationError("Validacija nije uspjela", apperr.FieldError{
			Field:   constants.ImageFormField,
			Message: "Slika se ne može pročitati",
		}))
		return
	}
	extension, ok := imageExtension(http.DetectContentType(head[:headLen]))
	if !ok {
		respond.Error(writer, request, apperr.ValidationError("Validacija nije uspjela", apperr.FieldError{
			Field:   constants.ImageFormField,
			Message: "Dozvoljeni formati su JPEG, PNG i WebP",
		}))
		return
	}

	// ── 2. Persist to disk ────────────────────────────────────────────────
	fileName := uuidv7.New() + extension
	destination, err := os.Create(filepath.Join(handler.imageDir, fileName))
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}
	defer destination.Close()

	if _, err := destination.Write(head[:headLen]); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}
	if _, err := io.Copy(destination, file); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	// ── 3. Attach to the coffee ───────────────────────────────────────────
	coffee, err := handler.catalogService.SetCoffeeImage(
		request.Context(),
		requestutil.Param(request, "id"),
		"/uploads/"+fileName,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, coffee)
}

// # Price Entries

func (handler *Handler) listPrices(writer http.ResponseWriter, request *http.Request) {
	prices, err := handler.catalogService.PricesForCoffee(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, prices)
}

func (handler *Handler) addPrice(writer http.ResponseWriter, request *http.Request) {
	sanitized, err := handler.decodeAndValidate(request, PriceEntrySchema)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.catalogService.AddPrice(request.Context(), requestutil.Param(request, "id"), sanitized)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, entry)
}

// # Brands

func (handler *Handler) listBrands(writer http.ResponseWriter, request *http.Request) {
	brands, err := handler.catalogService.ListBrands(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, brands)
}

func (handler *Handler) createBrand(writer http.ResponseWriter, request *http.Request) {
	sanitized, err := handler.decodeAndValidate(request, BrandSchema)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	brand, err := handler.catalogService.CreateBrand(request.Context(), sanitized)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, brand)
}

func (handler *Handler) updateBrand(writer http.ResponseWriter, request *http.Request) {
	sanitized, err := handler.decodeAndValidate(request, BrandSchema, validate.Partial())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	brand, err := handler.catalogService.UpdateBrand(request.Context(), requestutil.Param(request, "id"), sanitized)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, brand)
}

func (handler *Handler) deleteBrand(writer http.ResponseWriter, request *http.Request) {
	if err := handler.catalogService.DeleteBrand(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Countries

func (handler *Handler) listCountries(writer http.ResponseWriter, request *http.Request) {
	countries, err := handler.catalogService.ListCountries(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, countries)
}

func (handler *Handler) createCountry(writer http.ResponseWriter, request *http.Request) {
	sanitized, err := handler.decodeAndValidate(request, CountrySchema)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	country, err := handler.catalogService.CreateCountry(request.Context(), sanitized)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, country)
}

func (handler *Handler) updateCountry(writer http.ResponseWriter, request *http.Request) {
	sanitized, err := handler.decodeAndValidate(request, CountrySchema, validate.Partial())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	country, err := handler.catalogService.UpdateCountry(request.Context(), requestutil.Param(request, "id"), sanitized)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, country)
}

func (handler *Handler) deleteCountry(writer http.ResponseWriter, request *http.Request) {
	if err := handler.catalogService.DeleteCountry(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Stores

func (handler *Handler) listStores(writer http.ResponseWriter, request *http.Request) {
	stores, err := handler.catalogService.ListStores(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stores)
}

func (handler *Handler) createStore(writer http.ResponseWriter, request *http.Request) {
	sanitized, err := handler.decodeAndValidate(request, StoreSchema)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	store, err := handler.catalogService.CreateStore(request.Context(), sanitized)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, store)
}

func (handler *Handler) deleteStore(writer http.ResponseWriter, request *http.Request) {
	if err := handler.catalogService.DeleteStore(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Helpers

func (handler *Handler) decodeAndValidate(request *http.Request, schema validate.Schema, opts ...validate.Option) (map[string]any, error) {
	payload, err := requestutil.DecodeObject(request)
	if err != nil {
		return nil, err
	}
	return schema.Validate(payload, opts...)
}

// requestFile pulls the image part out of the multipart form, translating
// oversize and missing-part failures into validation errors.
func requestFile(request *http.Request) (io.ReadCloser, string, error) {
	if err := request.ParseMultipartForm(constants.MaxImageUploadBytes); err != nil {
		return nil, "", apperr.ValidationError("Validacija nije uspjela", apperr.FieldError{
			Field:   constants.ImageFormField,
			Message: "Neispravan ili prevelik multipart zahtjev",
		})
	}
	file, header, err := request.FormFile(constants.ImageFormField)
	if err != nil {
		return nil, "", apperr.ValidationError("Validacija nije uspjela", apperr.FieldError{
			Field:   constants.ImageFormField,
			Message: "Nedostaje datoteka slike",
		})
	}
	return file, header.Filename, nil
}

func imageExtension(contentType string) (string, bool) {
	switch contentType {
	case "image/jpeg":
		return ".jpg", true
	case "image/png":
		return ".png", true
	case "image/webp":
		return ".webp", true
	}
	return "", false
}
