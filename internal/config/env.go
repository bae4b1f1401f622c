package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type AppConfig struct {
	Port                  string
	DBURL                 string
	StoreDriver           string
	SnapThreshold         float64
	GCSBucket             string
	GCPServiceCredentials string
	RunMigrations         bool
}

// Load reads the application settings from the environment. Call it after
// godotenv.Load so that .env values are visible.
func Load() AppConfig {
	cfg := AppConfig{
		Port:                  os.Getenv("PORT"),
		DBURL:                 os.Getenv("DB_URL"),
		StoreDriver:           strings.ToLower(os.Getenv("STORE_DRIVER")),
		SnapThreshold:         20,
		GCSBucket:             os.Getenv("GCS_BUCKET"),
		GCPServiceCredentials: os.Getenv("GCP_SERVICE_ACCOUNT_CREDENTIALS"),
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	case "":
		cfg.StoreDriver = StoreDriverMemory
		if cfg.DBURL != "" {
			cfg.StoreDriver = StoreDriverPostgres
		}
	default:
		log.Printf("Warning: unknown STORE_DRIVER %q, using memory", cfg.StoreDriver)
		cfg.StoreDriver = StoreDriverMemory
	}

	if v := os.Getenv("SNAP_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.SnapThreshold = f
		} else {
			log.Printf("Warning: invalid SNAP_THRESHOLD %q, using %v", v, cfg.SnapThreshold)
		}
	}

	if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
		run, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("Warning: invalid RUN_MIGRATIONS %q", v)
		}
		cfg.RunMigrations = run
	}

	return cfg
}

// SnapshotsEnabled reports whether GCS export is configured.
func (c AppConfig) SnapshotsEnabled() bool {
	return c.GCSBucket != "" && c.GCPServiceCredentials != ""
}
