package models

import (
	"time"
)

// Country holds reference metadata for an ISO 3166-1 alpha-2 code.
// Rows are created lazily the first time a predicted code is seen and are
// never updated or deleted afterwards.
// DB: countries
type Country struct {
	CountryCode       string   `gorm:"column:country_code;primaryKey;size:2" json:"country_code"`
	CommonName        string   `gorm:"column:common_name;type:text;not null" json:"common_name"`
	OfficialName      *string  `gorm:"column:official_name;type:text" json:"official_name,omitempty"`
	Region            *string  `gorm:"column:region;type:text" json:"region,omitempty"`
	Subregion         *string  `gorm:"column:subregion;type:text" json:"subregion,omitempty"`
	IsIndependent     *bool    `gorm:"column:is_independent" json:"is_independent,omitempty"`
	GoogleMapsURL     *string  `gorm:"column:google_maps_url;type:text" json:"google_maps_url,omitempty"`
	OpenStreetMapURL  *string  `gorm:"column:open_street_map_url;type:text" json:"open_street_map_url,omitempty"`
	CapitalName       *string  `gorm:"column:capital_name;type:text" json:"capital_name,omitempty"`
	CapitalLatitude   *float64 `gorm:"column:capital_latitude" json:"capital_latitude,omitempty"`
	CapitalLongitude  *float64 `gorm:"column:capital_longitude" json:"capital_longitude,omitempty"`
	FlagPngURL        *string  `gorm:"column:flag_png_url;type:text" json:"flag_png_url,omitempty"`
	FlagSvgURL        *string  `gorm:"column:flag_svg_url;type:text" json:"flag_svg_url,omitempty"`
	FlagAltText       *string  `gorm:"column:flag_alt_text;type:text" json:"flag_alt_text,omitempty"`
	CoatOfArmsPngURL  *string  `gorm:"column:coat_of_arms_png_url;type:text" json:"coat_of_arms_png_url,omitempty"`
	CoatOfArmsSvgURL  *string  `gorm:"column:coat_of_arms_svg_url;type:text" json:"coat_of_arms_svg_url,omitempty"`
	Borders           []string `gorm:"column:borders;serializer:json" json:"borders,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relations
	NameProbabilities []NameCountryProbability `gorm:"foreignKey:CountryCode;references:CountryCode" json:"name_probabilities,omitempty"`
}

func (Country) TableName() string {
	return "countries"
}
