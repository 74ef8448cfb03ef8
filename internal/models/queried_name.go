package models

import (
	"time"
)

// QueriedName records every name ever looked up, whether or not the
// predictor returned anything for it. LastNationalizeFetchAt is nil until
// the first predictor call; it is stamped on every call attempt, including
// "no data" outcomes, and never on cache-hit serves.
// DB: queried_names
type QueriedName struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	NameText               string     `gorm:"column:name_text;type:text;not null;uniqueIndex:queried_names_name_text_key" json:"name_text"`
	LastNationalizeFetchAt *time.Time `gorm:"column:last_nationalize_fetch_at" json:"last_nationalize_fetch_at,omitempty"`
	CreatedAt              time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	CountryProbabilities []NameCountryProbability `gorm:"foreignKey:QueriedNameID" json:"country_probabilities,omitempty"`
}

func (QueriedName) TableName() string {
	return "queried_names"
}
