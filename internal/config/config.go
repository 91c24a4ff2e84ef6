package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// BaseURL is the site origin. Relative hrefs are resolved against it.
	BaseURL string `envconfig:"BASE_URL" default:"https://www.gadgetcraze.ug"`

	// CatalogPath is the page listing every category.
	CatalogPath string `envconfig:"CATALOG_PATH" default:"/shop"`

	CategoryMarker string `envconfig:"CATEGORY_MARKER" default:"/shop/category/"`
	ProductPrefix  string `envconfig:"PRODUCT_PREFIX" default:"/shop/"`
	PriceClass     string `envconfig:"PRICE_CLASS" default:"oe_currency_value"`

	UserAgent string `envconfig:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64)"`

	// HTTPTimeout of zero leaves the transport defaults in place.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`

	OutputFile string `envconfig:"OUTPUT_FILE" default:"gadgetcraze_all_products.xlsx"`

	ScheduleDay Weekday   `envconfig:"SCHEDULE_DAY" default:"monday"`
	ScheduleAt  TimeOfDay `envconfig:"SCHEDULE_AT" default:"09:00"`

	// DatabaseURL is optional. When set, every pass is also stored in Postgres.
	DatabaseURL string `envconfig:"DB_URL"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// CatalogURL is the absolute URL of the catalog root page.
func (c *Config) CatalogURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.CatalogPath
}

// Weekday decodes names like "monday" or "Mon".
type Weekday time.Weekday

func (w *Weekday) Decode(value string) error {
	v := strings.ToLower(strings.TrimSpace(value))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if v == name || v == name[:3] {
			*w = Weekday(d)
			return nil
		}
	}
	return fmt.Errorf("unknown weekday %q", value)
}

func (w Weekday) Weekday() time.Weekday {
	return time.Weekday(w)
}

// TimeOfDay is an "HH:MM" wall-clock time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t *TimeOfDay) Decode(value string) error {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid time of day %q: %w", value, err)
	}
	t.Hour, t.Minute = parsed.Hour(), parsed.Minute()
	return nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Load processes environment variables and populates the Config struct.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
