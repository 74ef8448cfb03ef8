package services

import (
	"context"

	"github.com/ggorockee/nameorigin/internal/database"
	"github.com/ggorockee/nameorigin/internal/models"
)

// DefaultPopularNamesLimit caps the aggregation when no limit is given
const DefaultPopularNamesLimit = 5

// PopularName is one aggregated entry: a name and the summed access count
// of its probability rows for the requested country.
type PopularName struct {
	NameText  string `json:"name_text"`
	Frequency int64  `json:"frequency"`
}

// PopularityService computes the most frequently served names per country
type PopularityService struct {
	db *database.DB
}

func NewPopularityService(db *database.DB) *PopularityService {
	return &PopularityService{db: db}
}

// PopularNames returns the top names for countryCode ordered by summed
// access count descending, ties broken by name ascending. An empty slice
// means no probability rows reference the country.
func (s *PopularityService) PopularNames(ctx context.Context, countryCode string, limit int) ([]PopularName, error) {
	if limit <= 0 {
		limit = DefaultPopularNamesLimit
	}

	var results []PopularName
	err := s.db.WithContext(ctx).
		Model(&models.NameCountryProbability{}).
		Select("queried_names.name_text AS name_text, SUM(name_country_probabilities.access_count) AS frequency").
		Joins("JOIN queried_names ON queried_names.id = name_country_probabilities.queried_name_id").
		Where("name_country_probabilities.country_code = ?", countryCode).
		Group("queried_names.name_text").
		Order("frequency DESC, queried_names.name_text ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
