package main

import (
	"time"

	"github.com/garrettladley/ham/internal/poller"
	"github.com/garrettladley/ham/internal/telemetry"
)

// pollRecord is one line of `ham poll` output.
type pollRecord struct {
	PollID         string        `json:"poll_id"`
	At             time.Time     `json:"at"`
	Loaded         bool          `json:"loaded"`
	Stale          bool          `json:"stale"`
	Error          string        `json:"error,omitempty"`
	Cards          []cardRecord  `json:"cards,omitempty"`
	Recommendation string        `json:"recommendation,omitempty"`
	Movements      []pointRecord `json:"movements"`
}

type cardRecord struct {
	Label      string  `json:"label"`
	Current    string  `json:"current"`
	Standard   string  `json:"standard"`
	Percentage float64 `json:"percentage"`
	Band       string  `json:"band"`
}

type pointRecord struct {
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Timestamp time.Time `json:"timestamp"`
}

func toRecord(u poller.Update, order telemetry.Order) pollRecord {
	rec := pollRecord{
		PollID:    u.PollID,
		At:        u.At,
		Loaded:    u.Loaded(),
		Stale:     u.Stale(),
		Movements: []pointRecord{},
	}
	if u.Err != nil {
		rec.Error = u.Err.Error()
	}
	if u.Snapshot != nil {
		for _, c := range u.Snapshot.Cards() {
			rec.Cards = append(rec.Cards, cardRecord{
				Label:      c.Label,
				Current:    c.Current,
				Standard:   c.Standard,
				Percentage: c.Percentage(),
				Band:       c.Band().String(),
			})
		}
		rec.Recommendation = u.Snapshot.Recommendation()
	}
	for _, p := range u.Movements.Points(order) {
		rec.Movements = append(rec.Movements, pointRecord{X: p.X, Y: p.Y, Timestamp: p.Timestamp})
	}
	return rec
}
