package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	appenv "github.com/garrettladley/ham/internal/env"
)

// Mock configures the development backend served by `ham mock`.
type Mock struct {
	Env         appenv.Environment `env:"ENV" envDefault:"development"`
	Port        string             `env:"PORT" envDefault:"8080"`
	RedisURL    string             `env:"REDIS_URL"`
	Tick        time.Duration      `env:"TICK" envDefault:"1s"`
	Capacity    int                `env:"CAPACITY" envDefault:"10"`
	Width       float64            `env:"WIDTH" envDefault:"640"`
	Height      float64            `env:"HEIGHT" envDefault:"480"`
	FailureRate float64            `env:"FAILURE_RATE" envDefault:"0"`
	Seed        uint64             `env:"SEED" envDefault:"0"`
	Video       bool               `env:"VIDEO" envDefault:"true"`
	FPS         int                `env:"FPS" envDefault:"30"`
	RateLimit   RateLimit          `envPrefix:"RATE_"`
}

type RateLimit struct {
	Limit float64 `env:"LIMIT" envDefault:"20"`
	Burst int     `env:"BURST" envDefault:"40"`
}

// ReadMock loads MOCK_* variables from the environment.
func ReadMock() (Mock, error) {
	return readMock(env.Options{Prefix: "MOCK_"})
}

func readMock(opts env.Options) (Mock, error) {
	cfg, err := env.ParseAsWithOptions[Mock](opts)
	if err != nil {
		return Mock{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Mock{}, err
	}
	return cfg, nil
}

func (m Mock) Validate() error {
	var errs []error
	if m.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if m.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick must be positive, got %s", m.Tick))
	}
	if m.Capacity < 1 {
		errs = append(errs, fmt.Errorf("capacity must be at least 1, got %d", m.Capacity))
	}
	if m.Width <= 0 || m.Height <= 0 {
		errs = append(errs, fmt.Errorf("arena must be positive, got %vx%v", m.Width, m.Height))
	}
	if m.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", m.FPS))
	}
	if m.FailureRate < 0 || m.FailureRate > 1 {
		errs = append(errs, fmt.Errorf("failure rate must be within [0,1], got %v", m.FailureRate))
	}
	return errors.Join(errs...)
}
