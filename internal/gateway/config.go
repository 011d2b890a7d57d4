package gateway

import "time"

// DatasetConfig holds configuration for the remote dataset service.
// Defaults point at the FMCSA company census on data.transportation.gov.
type DatasetConfig struct {
	// BaseURL is the SODA host, without the /resource path.
	BaseURL string `mapstructure:"base_url" default:"https://data.transportation.gov"`
	// ID is the dataset identifier (the four-by-four code).
	ID string `mapstructure:"id" default:"az4n-8mr2"`
	// IdentifierField is the column matched against user identifiers.
	IdentifierField string `mapstructure:"identifier_field" default:"dot_number"`
	// RegionField is the column reported alongside each record.
	RegionField string `mapstructure:"region_field" default:"phy_state"`
	// CountField is the column holding the authoritative count.
	CountField string `mapstructure:"count_field" default:"power_units"`
	// AppToken is an optional SODA application token that raises rate limits.
	AppToken string `mapstructure:"app_token" default:""`
}

// FetchConfig bounds how records are fetched.
type FetchConfig struct {
	// Timeout bounds a whole fetch (all identifiers of one run).
	Timeout time.Duration `mapstructure:"timeout" default:"20s"`
	// RateLimit is the number of requests per second; 0 disables pacing.
	RateLimit float64 `mapstructure:"rate_limit" default:"5"`
	// Burst is the limiter bucket size.
	Burst int `mapstructure:"burst" default:"1"`
}

// CacheConfig controls memoization of fetch results.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" default:"true"`
	TTL     time.Duration `mapstructure:"ttl" default:"0s"` // 0 keeps entries for the whole session
}
