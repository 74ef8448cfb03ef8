package handlers

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ggorockee/nameorigin/internal/config"
	"github.com/ggorockee/nameorigin/internal/database"
	"github.com/ggorockee/nameorigin/internal/services"
	"github.com/ggorockee/nameorigin/pkg/nationalize"
	"github.com/ggorockee/nameorigin/pkg/restcountries"
	"github.com/gofiber/fiber/v2"
)

var countryCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// NamePredictionResponse is the lookup response body
type NamePredictionResponse struct {
	Name      string                    `json:"name"`
	Countries []services.PredictionItem `json:"countries"`
}

// PopularNamesResponse is the aggregation response body
type PopularNamesResponse struct {
	CountryCode  string                 `json:"country_code"`
	PopularNames []services.PopularName `json:"popular_names"`
}

type NameHandler struct {
	nameService *services.NameService
	popularity  *services.PopularityService
}

func NewNameHandler(db *database.DB, cfg *config.Config) *NameHandler {
	return &NameHandler{
		nameService: services.NewNameService(
			db, cfg,
			nationalize.New(cfg.NationalizeBaseURL),
			restcountries.New(cfg.RESTCountriesBaseURL),
		),
		popularity: services.NewPopularityService(db),
	}
}

func SetupNameRoutes(names fiber.Router, popular fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewNameHandler(db, cfg)

	names.Get("/", h.Lookup)
	popular.Get("/", h.PopularNames)
}

// Lookup godoc
// @Summary Predict nationalities for a name
// @Tags names
// @Produce json
// @Security BearerAuth
// @Param name query string true "Name to predict nationality for"
// @Success 200 {object} NamePredictionResponse
// @Router /names/ [get]
func (h *NameHandler) Lookup(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: "Name parameter is missing or empty."})
	}

	countries, err := h.nameService.Lookup(c.UserContext(), name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoData):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Detail: fmt.Sprintf("No country data found for name: %s", name),
			})
		case errors.Is(err, services.ErrNoneResolved):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Detail: fmt.Sprintf("No valid country data could be processed for name: %s after fetching.", name),
			})
		case errors.Is(err, nationalize.ErrRateLimited):
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
				Detail: "Rate limit exceeded with upstream prediction API.",
			})
		case errors.Is(err, nationalize.ErrUnavailable), errors.Is(err, restcountries.ErrUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
				Detail: "Upstream API is currently unavailable.",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Detail: "An internal error occurred while processing the name lookup.",
			})
		}
	}

	return c.JSON(NamePredictionResponse{Name: name, Countries: countries})
}

// PopularNames godoc
// @Summary Most frequently looked up names for a country
// @Tags names
// @Produce json
// @Security BearerAuth
// @Param country query string true "ISO 3166-1 alpha-2 country code (e.g. US, UA)"
// @Success 200 {object} PopularNamesResponse
// @Router /popular-names/ [get]
func (h *NameHandler) PopularNames(c *fiber.Ctx) error {
	country := c.Query("country")
	if country == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: "Country parameter is missing or empty."})
	}
	if !countryCodePattern.MatchString(country) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Detail: "Country must be a 2-letter uppercase ISO 3166-1 alpha-2 code.",
		})
	}

	popularNames, err := h.popularity.PopularNames(c.UserContext(), country, services.DefaultPopularNamesLimit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Detail: "An internal error occurred while aggregating popular names.",
		})
	}
	if len(popularNames) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Detail: fmt.Sprintf("No data available for country code: %s", country),
		})
	}

	return c.JSON(PopularNamesResponse{CountryCode: country, PopularNames: popularNames})
}
