package tui

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/ham/internal/poller"
	"github.com/garrettladley/ham/internal/telemetry"
	"github.com/garrettladley/ham/internal/trail"
	"github.com/garrettladley/ham/internal/tui/theme"
	"github.com/garrettladley/ham/internal/xslog"
)

var _ tea.Model = (*Model)(nil)

type page uint

const (
	splashPage page = iota
	dashboardPage
)

type state struct {
	dashboard DashboardState
}

type Model struct {
	ready          bool
	page           page
	viewportWidth  int
	viewportHeight int
	theme          theme.Theme
	state          state
	deps           Deps
	raster         *trail.Raster
	logger         *slog.Logger
}

func New(deps Deps) Model {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Params == (trail.Params{}) {
		deps.Params = trail.DefaultParams()
	}
	if deps.Order == "" {
		deps.Order = telemetry.OldestFirst
	}
	logger := deps.Logger
	if logger == nil {
		logger = xslog.Discard()
	}

	return Model{
		page:   splashPage,
		theme:  theme.New(),
		deps:   deps,
		raster: trail.NewRaster(deps.Params, deps.Width, deps.Height),
		logger: logger,
		state: state{
			dashboard: DashboardState{
				Advice: poller.AdviceLoading,
				Order:  deps.Order,
				Now:    deps.Now(),
			},
		},
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(splashDuration, func(time.Time) tea.Msg {
			return SplashTickMsg{}
		}),
		clockCmd(),
		m.listenUpdatesCmd(),
		m.listenAdviceCmd(),
		m.listenTrailCmd(),
		m.listenFramesCmd(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	dash := &m.state.dashboard

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewportWidth = msg.Width
		m.viewportHeight = msg.Height
		m.ready = true

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter", "space":
			m.page = dashboardPage
		case "o":
			dash.Order = toggleOrder(dash.Order)
		case "m":
			params := m.raster.Params()
			params.Mode = toggleMode(params.Mode)
			m.raster = trail.NewRaster(params, m.raster.Bounds().Dx(), m.raster.Bounds().Dy())
		}

	case SplashTickMsg:
		m.page = dashboardPage

	case ClockTickMsg:
		dash.Now = time.Time(msg)
		return m, clockCmd()

	case PollMsg:
		dash.apply(msg.Update)
		if msg.Err != nil {
			m.logger.Debug("poll failed", xslog.PollID(msg.PollID), xslog.Error(msg.Err))
		}
		return m, m.listenUpdatesCmd()

	case AdviceMsg:
		dash.Advice = msg.Text
		return m, m.listenAdviceCmd()

	case TrailMsg:
		dash.Trail = msg.Movements
		return m, m.listenTrailCmd()

	case FrameMsg:
		fr := msg.Frame
		dash.Frame = &fr
		return m, m.listenFramesCmd()

	case StreamClosedMsg:
		m.logger.Debug("dashboard stream closed", "stream", msg.Stream)
	}

	return m, nil
}

func (m *Model) View() tea.View {
	view := tea.NewView("")
	view.AltScreen = true

	// splash uses pure black BG, everything else uses default dark
	if m.page == splashPage {
		view.BackgroundColor = theme.ColorBlack
	} else {
		view.BackgroundColor = m.theme.Background()
	}

	if !m.ready {
		return view
	}

	var content string
	switch m.page {
	case splashPage:
		content = lipgloss.Place(
			m.viewportWidth,
			m.viewportHeight,
			lipgloss.Center,
			lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center, m.LogoView(), "", m.theme.TextDim().Render(Banner)),
		)
	case dashboardPage:
		content = m.DashboardView()
	}

	view.SetContent(content)
	return view
}

func toggleOrder(o telemetry.Order) telemetry.Order {
	if o == telemetry.NewestFirst {
		return telemetry.OldestFirst
	}
	return telemetry.NewestFirst
}

func toggleMode(mode trail.Mode) trail.Mode {
	if mode == trail.ModeAge {
		return trail.ModeRank
	}
	return trail.ModeAge
}
