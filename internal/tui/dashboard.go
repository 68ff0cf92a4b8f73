package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/ham/internal/feed"
	"github.com/garrettladley/ham/internal/poller"
	"github.com/garrettladley/ham/internal/telemetry"
	"github.com/garrettladley/ham/internal/tui/components/braille"
	"github.com/garrettladley/ham/internal/tui/components/card"
	"github.com/garrettladley/ham/internal/tui/components/footer"
	"github.com/garrettladley/ham/internal/tui/components/halfblock"
	"github.com/garrettladley/ham/internal/tui/components/status"
	"github.com/garrettladley/ham/internal/tui/theme"
)

const (
	placeholderLoading = "loading..."
	placeholderFailed  = "load failed"

	sideWidth    = 40
	minPanelCols = 20
	minPanelRows = 4
)

type DashboardState struct {
	Status   status.Indicator
	Snapshot *telemetry.Snapshot
	// Trail is what the delay gate has released, not the latest poll.
	Trail  telemetry.Movements
	Advice string
	Frame  *feed.Frame
	Order  telemetry.Order
	Now    time.Time
}

func (d *DashboardState) apply(u poller.Update) {
	d.Status = status.Indicator{
		Polled: true,
		Loaded: u.Loaded(),
		Failed: u.Err != nil,
		At:     u.At,
	}
	if u.Snapshot != nil {
		d.Snapshot = u.Snapshot
	}
}

// placeholder is the card text shown while no snapshot exists.
func (d DashboardState) placeholder() string {
	if d.Status.Polled {
		return placeholderFailed
	}
	return placeholderLoading
}

func (m *Model) DashboardView() string {
	dash := m.state.dashboard

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		m.theme.TextAccent().Render(Banner),
		"   ",
		dash.Status.Render(),
	)

	cards := m.cardsView()
	foot := footer.New(m.footerStatus(), m.viewportWidth).Render()

	used := lipgloss.Height(header) + lipgloss.Height(cards) + lipgloss.Height(foot)
	rows := max(m.viewportHeight-used-3, minPanelRows) // panel title and border
	cols := max(m.viewportWidth-sideWidth-4, minPanelCols)

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.panelView(cols, rows),
		" ",
		m.sideView(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, cards, main, foot)
}

func (m *Model) cardsView() string {
	dash := m.state.dashboard

	var rendered []string
	if dash.Snapshot == nil {
		text := dash.placeholder()
		for _, c := range (telemetry.Snapshot{}).Cards() {
			rendered = append(rendered, card.Pending(c.Emoji, c.Label, text).Render())
		}
	} else {
		for _, c := range dash.Snapshot.Cards() {
			rendered = append(rendered, card.New(c).Render())
		}
	}

	// two rows of two when four do not fit side by side
	if m.viewportWidth < len(rendered)*(card.Width+2) && len(rendered) == 4 {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], rendered[1]),
			lipgloss.JoinHorizontal(lipgloss.Top, rendered[2], rendered[3]),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// panelView draws the trail over the delayed video frame when a feed is
// running, otherwise as a braille overlay on an empty arena.
func (m *Model) panelView(cols, rows int) string {
	dash := m.state.dashboard
	points := dash.Trail.Points(dash.Order)
	bounds := m.raster.Bounds()

	var body string
	if m.deps.Feed != nil && dash.Frame != nil {
		body = halfblock.Render(m.raster.Composite(dash.Frame.Image, points, dash.Now), cols, rows)
	} else {
		params := m.raster.Params()
		grid := braille.Trail(params.Layout(points, dash.Now), params.AnchorRadius, bounds.Dx(), bounds.Dy(), cols, rows)
		body = grid.Render()
	}

	title := fmt.Sprintf(" Movements (%d) · %s · %s ", dash.Trail.Len(), m.raster.Params().Mode, dash.Order)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.TextDim().Render(title),
		lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBgLight).
			Render(body),
	)
}

func (m *Model) sideView() string {
	dash := m.state.dashboard

	advice := dash.Advice
	if advice == "" {
		advice = poller.AdviceLoading
	}

	recommendation := dash.placeholder()
	if dash.Snapshot != nil {
		recommendation = dash.Snapshot.Recommendation()
	}

	box := m.theme.Box(sideWidth - 2)
	return lipgloss.JoinVertical(lipgloss.Left,
		box.Render(m.theme.TextAccent().Render("💡 Advice")+"\n"+advice),
		box.Render(m.theme.TextAccent().Render("🏃 Recommendation")+"\n"+recommendation),
		m.theme.TextDim().Render(keyHelp),
	)
}

const keyHelp = "o order · m mode · q quit"

func (m *Model) footerStatus() string {
	if f := m.deps.Feed; f != nil {
		return fmt.Sprintf("Video delay: %s | Buffered frames: %d", formatSeconds(f.Delay()), f.Buffered())
	}
	return fmt.Sprintf("Trail points: %d/%d", m.state.dashboard.Trail.Len(), m.state.dashboard.Trail.Cap())
}

func formatSeconds(d time.Duration) string {
	s := fmt.Sprintf("%.1f", d.Seconds())
	return strings.TrimSuffix(s, ".0") + "s"
}
