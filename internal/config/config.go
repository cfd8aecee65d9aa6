package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

// envPrefix префикс переменных окружения: BOOKING_DATABASE_HOST и т.д.
const envPrefix = "BOOKING"

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrEnvOverride   = errors.New("config: failed to apply environment overrides")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

type Config struct {
	Server         ServerConfig          `toml:"server"`
	Database       DatabaseConfig        `toml:"database"`
	Logs           LogsConfig            `toml:"logs"`
	Metrics        MetricsConfig         `toml:"metrics"`
	Booking        BookingConfig         `toml:"booking"`
	Events         EventsConfig          `toml:"events"`
	UserService    UserServiceConfig     `toml:"user_service" split_words:"true"`
	PaymentMethods []PaymentMethodConfig `toml:"payment_methods" ignored:"true"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig driver: postgres | memory
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"`
	SeedDemoData    bool   `toml:"seed_demo_data" split_words:"true"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func (d DatabaseConfig) IsMemory() bool {
	return d.Driver == "memory"
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// BookingConfig политика бронирования
type BookingConfig struct {
	Timezone                   string `toml:"timezone"`
	SlotStepMinutes            int    `toml:"slot_step_minutes" split_words:"true"`
	MaxAdvanceDays             int    `toml:"max_advance_days" split_words:"true"`
	CustomerCanCancelConfirmed bool   `toml:"customer_can_cancel_confirmed" split_words:"true"`
	TransitionRetries          int    `toml:"transition_retries" split_words:"true"`
}

// Location часовой пояс салона
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(b.Timezone)
}

type EventsConfig struct {
	Enabled        bool   `toml:"enabled"`
	RabbitURL      string `toml:"rabbit_url" split_words:"true"`
	Exchange       string `toml:"exchange"`
	PublishTimeout int    `toml:"publish_timeout" split_words:"true"`
}

type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type PaymentMethodConfig struct {
	ID            string `toml:"id"`
	Name          string `toml:"name"`
	Type          string `toml:"type"`
	AccountNumber string `toml:"account_number"`
	AccountName   string `toml:"account_name"`
	RequiresProof bool   `toml:"requires_proof"`
}

// Load читает TOML, затем .env (если есть), затем переопределения из окружения BOOKING_*
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrEnvOverride, err)
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvOverride, err)
	}

	if len(cfg.PaymentMethods) == 0 {
		cfg.PaymentMethods = defaultPaymentMethods()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "outtthelook-booking",
		},
		Booking: BookingConfig{
			SlotStepMinutes:            domain.DefaultSlotStepMinutes,
			MaxAdvanceDays:             domain.DefaultAdvanceDays,
			CustomerCanCancelConfirmed: true,
			TransitionRetries:          3,
		},
		Events: EventsConfig{
			Exchange:       "booking.events",
			PublishTimeout: 5,
		},
		UserService: UserServiceConfig{Timeout: 3},
	}
}

func defaultPaymentMethods() []PaymentMethodConfig {
	return []PaymentMethodConfig{
		{ID: "qris", Name: "QRIS", Type: string(domain.PaymentTypeQRIS), RequiresProof: true},
		{ID: "bca", Name: "Bank BCA", Type: string(domain.PaymentTypeBank), RequiresProof: true},
		{ID: "bni", Name: "Bank BNI", Type: string(domain.PaymentTypeBank), RequiresProof: true},
		{ID: "mandiri", Name: "Bank Mandiri", Type: string(domain.PaymentTypeBank), RequiresProof: true},
		{ID: "cash", Name: "Bayar di Tempat", Type: string(domain.PaymentTypeCash), RequiresProof: false},
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "memory" {
		return fmt.Errorf("%w: database.driver must be postgres or memory, got %q", ErrInvalidConfig, c.Database.Driver)
	}
	step := c.Booking.SlotStepMinutes
	if step < domain.MinSlotStepMinutes || step > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: booking.slot_step_minutes must be between %d and %d",
			ErrInvalidConfig, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}
	if c.Booking.MaxAdvanceDays < 0 || c.Booking.MaxAdvanceDays > domain.MaxAdvanceDays {
		return fmt.Errorf("%w: booking.max_advance_days must be between 0 and %d", ErrInvalidConfig, domain.MaxAdvanceDays)
	}
	if c.Booking.TransitionRetries < 1 {
		return fmt.Errorf("%w: booking.transition_retries must be positive", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Events.Enabled && c.Events.RabbitURL == "" {
		return fmt.Errorf("%w: events.rabbit_url is required when events are enabled", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.PaymentMethods))
	for _, m := range c.PaymentMethods {
		if m.ID == "" {
			return fmt.Errorf("%w: payment method without id", ErrInvalidConfig)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate payment method %q", ErrInvalidConfig, m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

// DomainPaymentMethods переводит конфигурацию способов оплаты в доменные сущности
func (c *Config) DomainPaymentMethods() []domain.PaymentMethod {
	methods := make([]domain.PaymentMethod, 0, len(c.PaymentMethods))
	for _, m := range c.PaymentMethods {
		methods = append(methods, domain.PaymentMethod{
			ID:            m.ID,
			Name:          m.Name,
			Type:          domain.PaymentMethodType(m.Type),
			AccountNumber: m.AccountNumber,
			AccountName:   m.AccountName,
			RequiresProof: m.RequiresProof,
		})
	}
	return methods
}
