package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	appenv "github.com/garrettladley/ham/internal/env"
)

const DefaultBackendURL = "https://macro-coil-459205-d6.du.r.appspot.com"

// MinPollInterval is the fastest cadence the backend is polled at.
const MinPollInterval = 4 * time.Second

type MovementMode string

const (
	// MovementModeFull replaces the buffer with every response.
	MovementModeFull MovementMode = "full"
	// MovementModeIncremental fetches the full list once, then one point
	// per poll, pushed onto a bounded ring.
	MovementModeIncremental MovementMode = "incremental"
)

type TrailMode string

const (
	TrailModeRank TrailMode = "rank"
	TrailModeAge  TrailMode = "age"
)

type TrailOrder string

const (
	TrailOrderOldestFirst TrailOrder = "oldest_first"
	TrailOrderNewestFirst TrailOrder = "newest_first"
)

type Config struct {
	Env            appenv.Environment `env:"ENV" envDefault:"development"`
	BackendURL     string             `env:"BACKEND_URL" envDefault:"https://macro-coil-459205-d6.du.r.appspot.com"`
	PollInterval   time.Duration      `env:"POLL_INTERVAL" envDefault:"10s"`
	AdviceInterval time.Duration      `env:"ADVICE_INTERVAL" envDefault:"0s"`
	RequestTimeout time.Duration      `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	Movement       Movement           `envPrefix:"MOVEMENT_"`
	Trail          Trail              `envPrefix:"TRAIL_"`
	Feed           Feed               `envPrefix:"FEED_"`
}

type Movement struct {
	Mode     MovementMode `env:"MODE" envDefault:"full"`
	Capacity int          `env:"CAPACITY" envDefault:"10"`
}

type Trail struct {
	Mode         TrailMode     `env:"MODE" envDefault:"rank"`
	Order        TrailOrder    `env:"ORDER" envDefault:"oldest_first"`
	Base         float64       `env:"BASE" envDefault:"20"`
	Growth       float64       `env:"GROWTH" envDefault:"40"`
	OpacityFloor float64       `env:"OPACITY_FLOOR" envDefault:"0.5"`
	Scale        float64       `env:"SCALE" envDefault:"1"`
	AgeWindow    time.Duration `env:"AGE_WINDOW" envDefault:"10s"`
	Delay        time.Duration `env:"DELAY" envDefault:"0s"`
	Width        int           `env:"WIDTH" envDefault:"640"`
	Height       int           `env:"HEIGHT" envDefault:"480"`
}

type Feed struct {
	StreamURL string        `env:"STREAM_URL"`
	Synthetic bool          `env:"SYNTHETIC" envDefault:"false"`
	Delay     time.Duration `env:"DELAY" envDefault:"3s"`
	FPS       int           `env:"FPS" envDefault:"30"`
}

// Enabled reports whether a video source is configured.
func (f Feed) Enabled() bool {
	return f.StreamURL != "" || f.Synthetic
}

// Read loads HAM_* variables from the environment.
func Read() (Config, error) {
	return read(env.Options{Prefix: "HAM_"})
}

func read(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.BackendURL == "" {
		errs = append(errs, errors.New("backend url is required"))
	}
	if c.PollInterval < MinPollInterval {
		errs = append(errs, fmt.Errorf("poll interval must be at least %s, got %s", MinPollInterval, c.PollInterval))
	}
	if c.AdviceInterval < 0 {
		errs = append(errs, fmt.Errorf("advice interval must not be negative, got %s", c.AdviceInterval))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}

	switch c.Movement.Mode {
	case MovementModeFull, MovementModeIncremental:
	default:
		errs = append(errs, fmt.Errorf("invalid movement mode %q (valid: full, incremental)", c.Movement.Mode))
	}
	if c.Movement.Capacity < 1 {
		errs = append(errs, fmt.Errorf("movement capacity must be at least 1, got %d", c.Movement.Capacity))
	}

	switch c.Trail.Mode {
	case TrailModeRank, TrailModeAge:
	default:
		errs = append(errs, fmt.Errorf("invalid trail mode %q (valid: rank, age)", c.Trail.Mode))
	}
	switch c.Trail.Order {
	case TrailOrderOldestFirst, TrailOrderNewestFirst:
	default:
		errs = append(errs, fmt.Errorf("invalid trail order %q (valid: oldest_first, newest_first)", c.Trail.Order))
	}
	if c.Trail.OpacityFloor < 0 || c.Trail.OpacityFloor > 1 {
		errs = append(errs, fmt.Errorf("trail opacity floor must be within [0,1], got %v", c.Trail.OpacityFloor))
	}
	if c.Trail.Scale <= 0 {
		errs = append(errs, fmt.Errorf("trail scale must be positive, got %v", c.Trail.Scale))
	}
	if c.Trail.AgeWindow <= 0 {
		errs = append(errs, fmt.Errorf("trail age window must be positive, got %s", c.Trail.AgeWindow))
	}
	if c.Trail.Delay < 0 {
		errs = append(errs, fmt.Errorf("trail delay must not be negative, got %s", c.Trail.Delay))
	}
	if c.Trail.Width <= 0 || c.Trail.Height <= 0 {
		errs = append(errs, fmt.Errorf("trail canvas must be positive, got %dx%d", c.Trail.Width, c.Trail.Height))
	}

	if c.Feed.FPS <= 0 {
		errs = append(errs, fmt.Errorf("feed fps must be positive, got %d", c.Feed.FPS))
	}
	if c.Feed.Delay < 0 {
		errs = append(errs, fmt.Errorf("feed delay must not be negative, got %s", c.Feed.Delay))
	}

	return errors.Join(errs...)
}
