package config

import (
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/go-cmp/cmp"

	appenv "github.com/garrettladley/ham/internal/env"
)

func TestReadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := read(env.Options{Prefix: "HAM_", Environment: map[string]string{}})
	if err != nil {
		t.Fatalf("read() error = %v", err)
	}

	want := Config{
		Env:            appenv.Development,
		BackendURL:     DefaultBackendURL,
		PollInterval:   10 * time.Second,
		AdviceInterval: 0,
		RequestTimeout: 5 * time.Second,
		Movement:       Movement{Mode: MovementModeFull, Capacity: 10},
		Trail: Trail{
			Mode:         TrailModeRank,
			Order:        TrailOrderOldestFirst,
			Base:         20,
			Growth:       40,
			OpacityFloor: 0.5,
			Scale:        1,
			AgeWindow:    10 * time.Second,
			Width:        640,
			Height:       480,
		},
		Feed: Feed{Delay: 3 * time.Second, FPS: 30},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Feed.Enabled() {
		t.Error("feed should be disabled without a stream url or synthetic source")
	}
}

func TestReadOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := read(env.Options{Prefix: "HAM_", Environment: map[string]string{
		"HAM_BACKEND_URL":         "http://localhost:8080",
		"HAM_POLL_INTERVAL":       "4s",
		"HAM_MOVEMENT_MODE":       "incremental",
		"HAM_TRAIL_GROWTH":        "60",
		"HAM_TRAIL_OPACITY_FLOOR": "0.2",
		"HAM_TRAIL_SCALE":         "4",
		"HAM_TRAIL_DELAY":         "10s",
		"HAM_FEED_SYNTHETIC":      "true",
	}})
	if err != nil {
		t.Fatalf("read() error = %v", err)
	}

	if cfg.BackendURL != "http://localhost:8080" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.PollInterval != 4*time.Second {
		t.Errorf("PollInterval = %s, want 4s", cfg.PollInterval)
	}
	if cfg.Movement.Mode != MovementModeIncremental {
		t.Errorf("Movement.Mode = %q, want incremental", cfg.Movement.Mode)
	}
	if cfg.Trail.Growth != 60 || cfg.Trail.OpacityFloor != 0.2 || cfg.Trail.Scale != 4 {
		t.Errorf("Trail = %+v", cfg.Trail)
	}
	if cfg.Trail.Delay != 10*time.Second {
		t.Errorf("Trail.Delay = %s, want 10s", cfg.Trail.Delay)
	}
	if !cfg.Feed.Enabled() {
		t.Error("synthetic feed should be enabled")
	}
}

func TestReadInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		environ map[string]string
		wantErr string
	}{
		{
			name:    "unknown movement mode",
			environ: map[string]string{"HAM_MOVEMENT_MODE": "stream"},
			wantErr: "invalid movement mode",
		},
		{
			name:    "zero capacity",
			environ: map[string]string{"HAM_MOVEMENT_CAPACITY": "0"},
			wantErr: "movement capacity",
		},
		{
			name:    "opacity floor above one",
			environ: map[string]string{"HAM_TRAIL_OPACITY_FLOOR": "1.5"},
			wantErr: "opacity floor",
		},
		{
			name:    "unknown environment",
			environ: map[string]string{"HAM_ENV": "staging"},
			wantErr: "invalid environment",
		},
		{
			name:    "poll interval below minimum",
			environ: map[string]string{"HAM_POLL_INTERVAL": "1s"},
			wantErr: "poll interval must be at least 4s",
		},
		{
			name:    "malformed duration",
			environ: map[string]string{"HAM_POLL_INTERVAL": "soon"},
			wantErr: "PollInterval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := read(env.Options{Prefix: "HAM_", Environment: tt.environ})
			if err == nil {
				t.Fatal("read() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("read() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadMock(t *testing.T) {
	t.Parallel()

	cfg, err := readMock(env.Options{Prefix: "MOCK_", Environment: map[string]string{
		"MOCK_PORT":         "9090",
		"MOCK_FAILURE_RATE": "0.25",
	}})
	if err != nil {
		t.Fatalf("readMock() error = %v", err)
	}
	if cfg.Port != "9090" || cfg.FailureRate != 0.25 || cfg.Tick != time.Second || !cfg.Video || cfg.FPS != 30 {
		t.Errorf("Mock = %+v", cfg)
	}

	if _, err := readMock(env.Options{Prefix: "MOCK_", Environment: map[string]string{
		"MOCK_FAILURE_RATE": "2",
	}}); err == nil {
		t.Error("readMock() with failure rate 2 should fail")
	}
}
