package services

import (
	"context"
	"errors"
	"time"

	"github.com/ggorockee/nameorigin/internal/config"
	"github.com/ggorockee/nameorigin/internal/database"
	"github.com/ggorockee/nameorigin/internal/logger"
	"github.com/ggorockee/nameorigin/internal/models"
	"github.com/ggorockee/nameorigin/pkg/nationalize"
	"github.com/ggorockee/nameorigin/pkg/restcountries"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNoData means the predictor has no countries for the name
	ErrNoData = errors.New("no country data found for name")
	// ErrNoneResolved means every prediction was dropped as malformed or
	// unresolvable
	ErrNoneResolved = errors.New("no valid country data could be processed for name")
)

// Predictor maps a name to ranked country guesses
type Predictor interface {
	Predict(ctx context.Context, name string) ([]nationalize.CountryPrediction, error)
}

// CountryDirectory resolves a 2-letter code to country metadata
type CountryDirectory interface {
	Lookup(ctx context.Context, countryCode string) (*models.Country, error)
}

// PredictionItem is one entry of a lookup response
type PredictionItem struct {
	CountryCode string  `json:"country_code"`
	CommonName  string  `json:"common_name"`
	Probability float64 `json:"probability"`
}

// NameService orchestrates name lookups: serves cached predictions while
// they are fresh, refreshes from the predictor when they are not, and
// keeps the persisted probability rows and access counters consistent.
type NameService struct {
	db        *database.DB
	cfg       *config.Config
	predictor Predictor
	directory CountryDirectory
}

func NewNameService(db *database.DB, cfg *config.Config, predictor Predictor, directory CountryDirectory) *NameService {
	return &NameService{db: db, cfg: cfg, predictor: predictor, directory: directory}
}

// Lookup returns the predicted countries for name, ordered by probability
// descending on the cache path and in upstream order on the refresh path.
func (s *NameService) Lookup(ctx context.Context, name string) ([]PredictionItem, error) {
	log := logger.GetLogger("name-service")
	now := time.Now().UTC()

	var queried models.QueriedName
	known := true
	if err := s.db.WithContext(ctx).Where("name_text = ?", name).First(&queried).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		known = false
	}

	if known && queried.LastNationalizeFetchAt != nil &&
		now.Sub(*queried.LastNationalizeFetchAt) <= s.cfg.FreshnessWindow {
		items, err := s.serveCached(ctx, queried.ID, now)
		if err != nil {
			return nil, err
		}
		if items != nil {
			return items, nil
		}
		// An empty cached set is not a cacheable "no data" outcome:
		// fall through and ask the predictor again.
	}

	predictions, err := s.predictor.Predict(ctx, name)
	if err != nil {
		return nil, err
	}

	// The fetch attempt itself is recorded either way, so a "no data"
	// answer is cached for the freshness window too.
	record, err := s.ensureQueriedName(ctx, name, now)
	if err != nil {
		return nil, err
	}
	if len(predictions) == 0 {
		return nil, ErrNoData
	}

	items := make([]PredictionItem, 0, len(predictions))
	for _, pred := range predictions {
		if pred.CountryID == "" || pred.Probability == nil {
			log.Warnf("skipping malformed prediction for name %q: country_id=%q", name, pred.CountryID)
			continue
		}

		country, err := s.resolveCountry(ctx, pred.CountryID)
		if err != nil {
			if errors.Is(err, restcountries.ErrNotFound) {
				log.Warnf("no directory data for country %q (name %q), dropping prediction", pred.CountryID, name)
				continue
			}
			return nil, err
		}

		if err := s.reconcileProbability(ctx, record.ID, country.CountryCode, *pred.Probability, now); err != nil {
			return nil, err
		}

		items = append(items, PredictionItem{
			CountryCode: country.CountryCode,
			CommonName:  country.CommonName,
			Probability: *pred.Probability,
		})
	}

	if len(items) == 0 {
		return nil, ErrNoneResolved
	}
	return items, nil
}

// serveCached loads the stored probability set joined with country
// metadata. A non-nil result is the full cache-hit response; nil with no
// error means the set was empty and the caller should refresh.
func (s *NameService) serveCached(ctx context.Context, queriedNameID uint, now time.Time) ([]PredictionItem, error) {
	var probs []models.NameCountryProbability
	err := s.db.WithContext(ctx).
		Preload("Country").
		Where("queried_name_id = ?", queriedNameID).
		Order("probability DESC").
		Find(&probs).Error
	if err != nil {
		return nil, err
	}
	if len(probs) == 0 {
		return nil, nil
	}

	items := make([]PredictionItem, 0, len(probs))
	for _, prob := range probs {
		if err := s.incrementAccess(ctx, prob.ID, now); err != nil {
			return nil, err
		}
		items = append(items, PredictionItem{
			CountryCode: prob.Country.CountryCode,
			CommonName:  prob.Country.CommonName,
			Probability: prob.Probability,
		})
	}
	return items, nil
}

// ensureQueriedName upserts the name row and stamps the fetch time. The
// conflict clause keeps concurrent first lookups from failing on the
// unique name_text index.
func (s *NameService) ensureQueriedName(ctx context.Context, name string, now time.Time) (*models.QueriedName, error) {
	record := models.QueriedName{NameText: name, LastNationalizeFetchAt: &now}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name_text"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_nationalize_fetch_at": now,
			"updated_at":                now,
		}),
	}).Create(&record).Error
	if err != nil {
		return nil, err
	}

	// Re-read: the conflict-update arm does not backfill the ID on every
	// driver.
	var out models.QueriedName
	if err := s.db.WithContext(ctx).Where("name_text = ?", name).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// resolveCountry returns the stored country row, fetching and persisting
// it from the directory on first sight. Stored rows are never refreshed.
func (s *NameService) resolveCountry(ctx context.Context, countryCode string) (*models.Country, error) {
	var country models.Country
	err := s.db.WithContext(ctx).Where("country_code = ?", countryCode).First(&country).Error
	if err == nil {
		return &country, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fetched, err := s.directory.Lookup(ctx, countryCode)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "country_code"}},
		DoNothing: true,
	}).Create(fetched).Error
	if err != nil {
		return nil, err
	}
	return fetched, nil
}

// reconcileProbability overwrites the stored probability with the fresh
// predictor value and bumps the access counter. A concurrent insert of the
// same pair degrades to the update arm via the unique-index conflict
// clause.
func (s *NameService) reconcileProbability(ctx context.Context, queriedNameID uint, countryCode string, probability float64, now time.Time) error {
	var existing models.NameCountryProbability
	err := s.db.WithContext(ctx).
		Where("queried_name_id = ? AND country_code = ?", queriedNameID, countryCode).
		First(&existing).Error
	if err == nil {
		newCount := existing.AccessCount + 1
		patch := models.NameCountryProbabilityUpdate{
			Probability:           &probability,
			AccessCount:           &newCount,
			LastAccessedDetailsAt: &now,
		}
		return s.applyProbabilityPatch(ctx, existing.ID, &patch)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row := models.NameCountryProbability{
		QueriedNameID:         queriedNameID,
		CountryCode:           countryCode,
		Probability:           probability,
		AccessCount:           1,
		LastAccessedDetailsAt: &now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "queried_name_id"}, {Name: "country_code"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"probability":              probability,
			"access_count":             gorm.Expr("access_count + 1"),
			"last_accessed_details_at": now,
			"updated_at":               now,
		}),
	}).Create(&row).Error
}

// applyProbabilityPatch merges a sparse update onto the stored row: only
// fields present in the patch overwrite.
func (s *NameService) applyProbabilityPatch(ctx context.Context, id uint, patch *models.NameCountryProbabilityUpdate) error {
	updates := map[string]interface{}{}
	if patch.Probability != nil {
		updates["probability"] = *patch.Probability
	}
	if patch.AccessCount != nil {
		updates["access_count"] = *patch.AccessCount
	}
	if patch.LastAccessedDetailsAt != nil {
		updates["last_accessed_details_at"] = *patch.LastAccessedDetailsAt
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.NameCountryProbability{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// incrementAccess records a cache-hit serve without touching the stored
// probability.
func (s *NameService) incrementAccess(ctx context.Context, id uint, now time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.NameCountryProbability{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_count":             gorm.Expr("access_count + 1"),
			"last_accessed_details_at": now,
		}).Error
}
