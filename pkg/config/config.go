package config

import (
	"time"
)

type DB struct {
	Url            string `envconfig:"URL"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"file://migrations"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"natepay:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Stripe struct {
	ApiKey               string `envconfig:"API_KEY"`
	SigningSecret        string `envconfig:"SIGNING_SECRET"`
	SuccessPath          string `envconfig:"SUCCESS_PATH" default:"http://localhost:3000/checkout/return?success=true"`
	CancelPath           string `envconfig:"CANCEL_PATH" default:"http://localhost:3000/checkout/return?canceled=true"`
	OnboardingReturnURL  string `envconfig:"ONBOARDING_RETURN_URL" default:"http://localhost:3000/onboarding/return"`
	OnboardingRefreshURL string `envconfig:"ONBOARDING_REFRESH_URL" default:"http://localhost:3000/onboarding/refresh"`
}

type Paystack struct {
	SecretKey   string        `envconfig:"SECRET_KEY"`
	BaseURL     string        `envconfig:"BASE_URL" default:"https://api.paystack.co"`
	CallbackURL string        `envconfig:"CALLBACK_URL" default:"http://localhost:3000/checkout/return"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

type PaymentProviders struct {
	Stripe   *Stripe   `envconfig:"STRIPE"`
	Paystack *Paystack `envconfig:"PAYSTACK"`
}

type EventBus struct {
	// Driver selects the bus implementation: "memory" or "kafka".
	Driver       string   `envconfig:"DRIVER" default:"memory"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"natepay.events"`
}

type Drafts struct {
	TTL time.Duration `envconfig:"TTL" default:"72h"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[natepay]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env              string            `envconfig:"APP_ENV" default:"development"`
	Server           *Server           `envconfig:"SERVER"`
	Log              *Log              `envconfig:"LOG"`
	DB               *DB               `envconfig:"DATABASE"`
	Auth             *Auth             `envconfig:"AUTH"`
	Redis            *Redis            `envconfig:"REDIS"`
	RateLimit        *RateLimit        `envconfig:"RATE_LIMIT"`
	PaymentProviders *PaymentProviders `envconfig:"PAYMENT_PROVIDER"`
	EventBus         *EventBus         `envconfig:"EVENT_BUS"`
	Drafts           *Drafts           `envconfig:"DRAFTS"`
}
