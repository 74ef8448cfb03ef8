package models

import (
	"time"
)

// NameCountryProbability is the predicted association between one queried
// name and one country, plus the access counter backing the popular-names
// aggregation. At most one row per (queried_name_id, country_code).
// DB: name_country_probabilities
type NameCountryProbability struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	QueriedNameID         uint       `gorm:"column:queried_name_id;not null;uniqueIndex:name_country_uc,priority:1" json:"queried_name_id"`
	CountryCode           string     `gorm:"column:country_code;size:2;not null;uniqueIndex:name_country_uc,priority:2" json:"country_code"`
	Probability           float64    `gorm:"column:probability;not null" json:"probability"`
	AccessCount           int        `gorm:"column:access_count;not null;default:1" json:"access_count"`
	LastAccessedDetailsAt *time.Time `gorm:"column:last_accessed_details_at" json:"last_accessed_details_at,omitempty"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	QueriedName QueriedName `gorm:"foreignKey:QueriedNameID;constraint:OnDelete:CASCADE" json:"queried_name,omitempty"`
	Country     Country     `gorm:"foreignKey:CountryCode;references:CountryCode;constraint:OnDelete:RESTRICT" json:"country,omitempty"`
}

func (NameCountryProbability) TableName() string {
	return "name_country_probabilities"
}

// NameCountryProbabilityUpdate is a sparse patch: only non-nil fields
// overwrite the stored row.
type NameCountryProbabilityUpdate struct {
	Probability           *float64   `json:"probability,omitempty"`
	AccessCount           *int       `json:"access_count,omitempty"`
	LastAccessedDetailsAt *time.Time `json:"last_accessed_details_at,omitempty"`
}
