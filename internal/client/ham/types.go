package ham

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"
)

type TrackingInfo struct {
	TotalMovementToday   Number `json:"total_movement_today"`
	AvgMovementPast7Days Number `json:"avg_movement_past_7days"`
}

type DailyMovement struct {
	TotalMovement Number `json:"total_movement"`
}

type DietInfo struct {
	TotalDiet   Number `json:"total_diet"`
	PrevAvgDiet Number `json:"prev_avg_diet"`
}

type WaterInfo struct {
	TotalWater   Number `json:"total_water"`
	PrevAvgWater Number `json:"prev_avg_water"`
}

// SleepInfo durations are in seconds.
type SleepInfo struct {
	TotalSleep   Number `json:"total_sleep"`
	PrevAvgSleep Number `json:"prev_avg_sleep"`
}

type Advice struct {
	Advice string `json:"advice"`
}

type RecentMovements struct {
	RecentMovements []Movement `json:"recent_movements"`
}

type Movement struct {
	X                Number    `json:"x"`
	Y                Number    `json:"y"`
	Timestamp        Timestamp `json:"timestamp"`
	EatingDuration   *Number   `json:"eating_duration,omitempty"`
	DrinkingDuration *Number   `json:"drinking_duration,omitempty"`
}

// Number decodes a JSON number or a string holding one. Devices upstream of
// the backend report coordinates both ways.
type Number float64

func (n Number) Float64() float64 { return float64(n) }

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := go_json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding number string: %w", err)
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*n = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", raw, err)
	}
	*n = Number(v)
	return nil
}

// Timestamp accepts RFC 3339 and zone-less ISO-8601 times. Zone-less values
// are UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := go_json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return go_json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
