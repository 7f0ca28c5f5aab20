package config

import (
	"errors"
	"fmt"
	ratelimiter "medremind/internal/core/domain/rate_limiter"
	"medremind/internal/core/domain/reminder"
	"medremind/internal/core/domain/schedule"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE" envDefault:"false"`
	Port       uint16 `env:"PORT" envDefault:"9090"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDsn  string `env:"SENTRY_DSN"`

	PostgresqlURL  string `env:"POSTGRESQL_URL,required,notEmpty"`
	MigrationsPath string `env:"MIGRATIONS_PATH"`
	RedisURL       string `env:"REDIS_URL,required,notEmpty"`

	RabbitmqURL               string `env:"RABBITMQ_URL,required,notEmpty"`
	RabbitmqConfirmationQueue string `env:"RABBITMQ_CONFIRMATION_QUEUE" envDefault:"reminder-confirmations"`
	RabbitmqEventsExchange    string `env:"RABBITMQ_EVENTS_EXCHANGE" envDefault:"reminder-events"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	Timezone                   string        `env:"TIMEZONE" envDefault:"America/New_York"`
	MaxReminderAttempts        uint32        `env:"MAX_REMINDER_ATTEMPTS" envDefault:"3"`
	CaregiverNotificationDelay time.Duration `env:"CAREGIVER_NOTIFICATION_DELAY" envDefault:"15m"`
	EmptyWeekdaysMeansEveryDay bool          `env:"EMPTY_WEEKDAYS_MEANS_EVERY_DAY" envDefault:"true"`
	CatalogRefreshSchedule     string        `env:"CATALOG_REFRESH_SCHEDULE" envDefault:"@every 5m"`
	ConfirmationRateLimit      uint16        `env:"CONFIRMATION_RATE_LIMIT" envDefault:"10"`

	SchedulerWorkers     int           `env:"SCHEDULER_WORKERS" envDefault:"8"`
	SchedulerQueueSize   int           `env:"SCHEDULER_QUEUE_SIZE" envDefault:"256"`
	SchedulerMaxLateness time.Duration `env:"SCHEDULER_MAX_LATENESS" envDefault:"10m"`

	VoiceGatewayURL           url.URL       `env:"VOICE_GATEWAY_URL,required,notEmpty"`
	VoiceGatewayToken         string        `env:"VOICE_GATEWAY_TOKEN"`
	VoiceGatewayTimeout       time.Duration `env:"VOICE_GATEWAY_TIMEOUT" envDefault:"10s"`
	VoiceGatewayRatePerSecond int           `env:"VOICE_GATEWAY_RATE_PER_SECOND" envDefault:"5"`

	AwsRegion                 string `env:"AWS_REGION" envDefault:"us-east-1"`
	AwsAccessKey              string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey              string `env:"AWS_SECRET_KEY"`
	AwsEmailSender            string `env:"AWS_EMAIL_SENDER"`
	AwsEmailCaregiverTemplate string `env:"AWS_EMAIL_CAREGIVER_TEMPLATE" envDefault:"caregiver-missed-dose"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not read .env file: %w", err)
	}
	return Parse()
}

func Parse() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if err := c.ReminderPolicy().Validate(); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE value %q: %w", c.Timezone, err)
	}
	if c.SchedulerWorkers <= 0 {
		return fmt.Errorf("SCHEDULER_WORKERS must be positive")
	}
	if c.SchedulerQueueSize <= 0 {
		return fmt.Errorf("SCHEDULER_QUEUE_SIZE must be positive")
	}
	if c.SchedulerMaxLateness < 0 {
		return fmt.Errorf("SCHEDULER_MAX_LATENESS must not be negative")
	}
	if c.VoiceGatewayRatePerSecond <= 0 {
		return fmt.Errorf("VOICE_GATEWAY_RATE_PER_SECOND must be positive")
	}
	if c.ConfirmationRateLimit == 0 {
		return fmt.Errorf("CONFIRMATION_RATE_LIMIT must be positive")
	}
	if c.VoiceGatewayURL.Scheme == "" || c.VoiceGatewayURL.Host == "" {
		return fmt.Errorf("VOICE_GATEWAY_URL must be an absolute URL")
	}
	return nil
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) ReminderPolicy() reminder.Policy {
	return reminder.Policy{
		MaxAttempts:   c.MaxReminderAttempts,
		FollowUpDelay: c.CaregiverNotificationDelay,
	}
}

func (c *Config) EmptyWeekdays() schedule.EmptyWeekdays {
	if c.EmptyWeekdaysMeansEveryDay {
		return schedule.EmptyWeekdaysEveryDay
	}
	return schedule.EmptyWeekdaysNever
}

func (c *Config) ConfirmationLimit() ratelimiter.Limit {
	return ratelimiter.Limit{Value: c.ConfirmationRateLimit, Interval: ratelimiter.Minute}
}

// IsEmailEnabled reports whether caregivers with an address also get e-mails.
func (c *Config) IsEmailEnabled() bool {
	return c.AwsEmailSender != ""
}
