package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/garrettladley/ham/internal/feed"
	"github.com/garrettladley/ham/internal/poller"
	"github.com/garrettladley/ham/internal/telemetry"
)

const (
	streamUpdates = "updates"
	streamAdvice  = "advice"
	streamTrail   = "trail"
	streamFrames  = "frames"
)

// listenCmd waits for the next value on ch and wraps it as a message. It
// must be re-issued after every message to keep listening.
func listenCmd[T any](ctx context.Context, name string, ch <-chan T, wrap func(T) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case v, ok := <-ch:
			if !ok {
				return StreamClosedMsg{Stream: name}
			}
			return wrap(v)
		case <-ctx.Done():
			return StreamClosedMsg{Stream: name}
		}
	}
}

func (m *Model) listenUpdatesCmd() tea.Cmd {
	return listenCmd(m.deps.Ctx, streamUpdates, m.deps.Updates, func(u poller.Update) tea.Msg {
		return PollMsg{Update: u}
	})
}

func (m *Model) listenAdviceCmd() tea.Cmd {
	return listenCmd(m.deps.Ctx, streamAdvice, m.deps.Advice, func(u poller.AdviceUpdate) tea.Msg {
		return AdviceMsg{AdviceUpdate: u}
	})
}

func (m *Model) listenTrailCmd() tea.Cmd {
	return listenCmd(m.deps.Ctx, streamTrail, m.deps.Trail, func(mv telemetry.Movements) tea.Msg {
		return TrailMsg{Movements: mv}
	})
}

func (m *Model) listenFramesCmd() tea.Cmd {
	return listenCmd(m.deps.Ctx, streamFrames, m.deps.Frames, func(fr feed.Frame) tea.Msg {
		return FrameMsg{Frame: fr}
	})
}

func clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return ClockTickMsg(t)
	})
}
