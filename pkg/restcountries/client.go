package restcountries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ggorockee/nameorigin/internal/logger"
	"github.com/ggorockee/nameorigin/internal/models"
)

var (
	// ErrNotFound means the code resolves to no country. A normal outcome,
	// not a transport failure.
	ErrNotFound = errors.New("restcountries: country not found")
	// ErrUnavailable indicates a transport failure or an unexpected response
	ErrUnavailable = errors.New("restcountries: service unavailable")
)

var schemeRegex = regexp.MustCompile(`(?i)^https?://`)

// countryPayload mirrors the REST Countries v3.1 response entry
type countryPayload struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	CCA2        string   `json:"cca2"`
	Region      string   `json:"region"`
	Subregion   string   `json:"subregion"`
	Independent *bool    `json:"independent"`
	Capital     []string `json:"capital"`
	CapitalInfo struct {
		LatLng []float64 `json:"latlng"`
	} `json:"capitalInfo"`
	Maps struct {
		GoogleMaps     string `json:"googleMaps"`
		OpenStreetMaps string `json:"openStreetMaps"`
	} `json:"maps"`
	Flags struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
		Alt string `json:"alt"`
	} `json:"flags"`
	CoatOfArms struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
	} `json:"coatOfArms"`
	Borders []string `json:"borders"`
}

// Client calls the REST Countries reference API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Lookup fetches metadata for an ISO 3166-1 alpha-2 code
func (c *Client) Lookup(ctx context.Context, countryCode string) (*models.Country, error) {
	log := logger.GetLogger("restcountries")

	reqURL := fmt.Sprintf("%salpha/%s", c.baseURL, countryCode)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warnf("request failed for code %q: %v", countryCode, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		log.Warnf("unexpected status %d for code %q", resp.StatusCode, countryCode)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload []countryPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Warnf("failed to decode response for code %q: %v", countryCode, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(payload) == 0 {
		return nil, ErrNotFound
	}

	entry := payload[0]
	if entry.Name.Common == "" || entry.CCA2 == "" {
		log.Warnf("missing common name or cca2 for code %q", countryCode)
		return nil, ErrNotFound
	}

	country := &models.Country{
		CountryCode:      entry.CCA2,
		CommonName:       entry.Name.Common,
		OfficialName:     optional(entry.Name.Official),
		Region:           optional(entry.Region),
		Subregion:        optional(entry.Subregion),
		IsIndependent:    entry.Independent,
		GoogleMapsURL:    EnsureHTTPSURL(optional(entry.Maps.GoogleMaps)),
		OpenStreetMapURL: EnsureHTTPSURL(optional(entry.Maps.OpenStreetMaps)),
		FlagPngURL:       EnsureHTTPSURL(optional(entry.Flags.PNG)),
		FlagSvgURL:       EnsureHTTPSURL(optional(entry.Flags.SVG)),
		FlagAltText:      optional(entry.Flags.Alt),
		CoatOfArmsPngURL: EnsureHTTPSURL(optional(entry.CoatOfArms.PNG)),
		CoatOfArmsSvgURL: EnsureHTTPSURL(optional(entry.CoatOfArms.SVG)),
		Borders:          entry.Borders,
	}

	if len(entry.Capital) > 0 {
		country.CapitalName = optional(entry.Capital[0])
	}
	if len(entry.CapitalInfo.LatLng) == 2 {
		country.CapitalLatitude = &entry.CapitalInfo.LatLng[0]
		country.CapitalLongitude = &entry.CapitalInfo.LatLng[1]
	}

	return country, nil
}

// EnsureHTTPSURL prepends https:// to scheme-less URL values. Values that
// already carry http(s) pass through unchanged.
func EnsureHTTPSURL(urlString *string) *string {
	if urlString == nil {
		return nil
	}
	if schemeRegex.MatchString(*urlString) {
		return urlString
	}
	fixed := "https://" + strings.TrimLeft(*urlString, "/")
	return &fixed
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
