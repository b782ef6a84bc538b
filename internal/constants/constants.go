// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort               = "8080"
	DefaultDBPath             = "tajikquran.db"
	DefaultMaxOpenConns       = 4
	DefaultAlQuranURL         = "https://api.alquran.cloud/v1"
	DefaultAudioEdition       = "ar.alafasy"
	DefaultTajweedEdition     = "quran-tajweed"
	DefaultHTTPTimeout        = 10 * time.Second
	DefaultMinRequestInterval = 100 * time.Millisecond
	DefaultRetryCount         = 3
	DefaultRetryBase          = 500 * time.Millisecond
	DefaultCacheTTL           = 12 * time.Hour
	DefaultCachePurgeInterval = 1 * time.Hour
	DefaultShutdownTimeout    = 5 * time.Second
	DefaultCORSOrigin         = "http://localhost:5173"
)

// Search modes
const (
	SearchModeBasic  = "basic"
	SearchModeRanked = "ranked"
)

// Search limits
const (
	DefaultSearchLimit = 100
	MaxSearchLimit     = 500
	MaxHistoryItems    = 20
	MaxQueryLength     = 200
)

// Quran structure
const (
	MinSurahNumber = 1
	MaxSurahNumber = 114
	MaxAyahNumber  = 6236
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Cache key prefixes
const (
	CacheKeyTajweedAyah  = "tajweed:ayah"
	CacheKeyTajweedSurah = "tajweed:surah"
	CacheKeyAudioAyah    = "audio:ayah"
)

// MIME Types
const (
	MimeTypeJSON = "application/json"
)
