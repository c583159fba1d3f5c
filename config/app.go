package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"court-booking/models"
)

type App struct {
	Port        string   `envconfig:"PORT" default:"8080"`
	CorsOrigins []string `envconfig:"CORS_ORIGINS"`
	JWTSecret   string   `envconfig:"JWT_SECRET"`

	// memory | mysql
	StoreDriver string `envconfig:"STORE_DRIVER" default:"memory"`
	// memory | redis
	SettingsDriver string `envconfig:"SETTINGS_DRIVER" default:"memory"`
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`

	// RabbitMQ for publishing booking.* events; empty disables publishing
	RabbitURL       string `envconfig:"RABBIT_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.exchange"`

	SeedDemo              bool          `envconfig:"SEED_DEMO" default:"true"`
	PlaceholderEmails     bool          `envconfig:"PLACEHOLDER_EMAILS" default:"false"`
	DefaultRecurringWeeks int           `envconfig:"DEFAULT_RECURRING_WEEKS" default:"4"`
	SubmitDelay           time.Duration `envconfig:"SUBMIT_DELAY" default:"0s"`
	SessionTTL            time.Duration `envconfig:"FLOW_SESSION_TTL" default:"30m"`

	OpeningTime  string  `envconfig:"FACILITY_OPENING_TIME" default:"09:00"`
	ClosingTime  string  `envconfig:"FACILITY_CLOSING_TIME" default:"23:00"`
	PricePerHour float64 `envconfig:"FACILITY_PRICE_PER_HOUR" default:"15"`
	TotalCourts  int     `envconfig:"FACILITY_TOTAL_COURTS" default:"12"`
}

// Load reads .env (optional) and then the process environment.
func Load() (App, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] .env not found or couldn't load it; continuing with environment variables")
	}
	var c App
	err := envconfig.Process("", &c)
	return c, err
}

// Facility returns the facility defaults configured through the environment.
func (a App) Facility() models.FacilityConfig {
	return models.FacilityConfig{
		OpeningTime:  a.OpeningTime,
		ClosingTime:  a.ClosingTime,
		PricePerHour: a.PricePerHour,
		TotalCourts:  a.TotalCourts,
	}
}
