package mock

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/garrettladley/ham/internal/client/ham"
	"github.com/garrettladley/ham/internal/env"
	"github.com/garrettladley/ham/internal/xerrors"
	"github.com/garrettladley/ham/internal/xhttp"
	"github.com/garrettladley/ham/internal/xhttp/middleware"
	"github.com/garrettladley/ham/internal/xslog"
)

const RouteVideo = "/video_feed"

// Server serves the backend API over a simulated hamster.
type Server struct {
	store     Store
	sim       *Simulator
	standards Standards
	capacity  int
	tick      time.Duration
	fps       int
	frames    FrameSource
	env       env.Environment
	logger    *slog.Logger
	shutdown  *ShutdownCoordinator
	now       func() time.Time

	failureRate float64
	rngMu       sync.Mutex
	rng         *rand.Rand

	rateLimit float64
	rateBurst int
}

type Option func(*Server)

func WithStore(store Store) Option {
	return func(s *Server) { s.store = store }
}

func WithSimulator(sim *Simulator) Option {
	return func(s *Server) { s.sim = sim }
}

func WithStandards(std Standards) Option {
	return func(s *Server) { s.standards = std }
}

func WithCapacity(n int) Option {
	return func(s *Server) { s.capacity = n }
}

func WithTick(d time.Duration) Option {
	return func(s *Server) { s.tick = d }
}

// WithFrames enables the video route, streaming frames from src at fps.
func WithFrames(src FrameSource, fps int) Option {
	return func(s *Server) {
		s.frames = src
		s.fps = fps
	}
}

// WithFailureRate makes that share of API requests fail with 503.
func WithFailureRate(rate float64, seed uint64) Option {
	return func(s *Server) {
		s.failureRate = rate
		s.rng = rand.New(rand.NewPCG(seed, seed+1))
	}
}

func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		s.rateLimit = perSecond
		s.rateBurst = burst
	}
}

func WithEnv(e env.Environment) Option {
	return func(s *Server) { s.env = e }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func WithShutdown(sc *ShutdownCoordinator) Option {
	return func(s *Server) { s.shutdown = sc }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		standards: DefaultStandards(),
		capacity:  10,
		tick:      time.Second,
		env:       env.Development,
		logger:    slog.Default(),
		now:       time.Now,
		rng:       rand.New(rand.NewPCG(1, 2)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = NewMemoryStore()
	}
	if s.sim == nil {
		s.sim = NewSimulator(640, 480, 1)
	}
	if s.shutdown == nil {
		s.shutdown = NewShutdownCoordinator(0)
	}
	return s
}

// Handler returns the routed API wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET "+ham.RouteTracking, s.handleTracking)
	api.HandleFunc("GET "+ham.RouteDailyMovement, s.handleDaily)
	api.HandleFunc("GET "+ham.RouteRecentMovements, s.handleRecent)
	api.HandleFunc("GET "+ham.RouteDiet, s.handleDiet)
	api.HandleFunc("GET "+ham.RouteWater, s.handleWater)
	api.HandleFunc("GET "+ham.RouteSleep, s.handleSleep)
	api.HandleFunc("GET "+ham.RouteAdvice, s.handleAdvice)

	mux := http.NewServeMux()
	mux.Handle("/", middleware.Chain(api,
		s.injectFailures,
		middleware.RateLimit(s.rateLimit, s.rateBurst),
	))
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.frames != nil {
		mux.HandleFunc("GET "+RouteVideo, s.handleVideo)
	}
	if s.env == env.Development {
		mux.HandleFunc("POST /debug/reset", s.handleReset)
	}

	return middleware.Chain(mux,
		middleware.RequestID(),
		middleware.ClientSessionID,
		middleware.Logger(s.logger),
		middleware.Recovery,
		middleware.Logging,
	)
}

// Run advances the simulation every tick until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "simulation starting", xslog.Interval(s.tick))
	s.Step(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Step(ctx)
		}
	}
}

// Step advances the simulation once and records the result.
func (s *Server) Step(ctx context.Context) {
	sample, delta := s.sim.Step(s.now())
	if err := s.store.AddSample(ctx, sample, s.capacity); err != nil {
		s.logger.ErrorContext(ctx, "failed to record sample", xslog.Error(err))
		return
	}
	if err := s.store.AddTotals(ctx, delta); err != nil {
		s.logger.ErrorContext(ctx, "failed to record totals", xslog.Error(err))
	}
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.failureRate > 0 && s.roll() < s.failureRate {
			xerrors.WriteError(r.Context(), w, xerrors.ServiceUnavailable(
				xerrors.WithMessage("simulated backend failure"),
			))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) roll() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}

func (s *Server) totals(w http.ResponseWriter, r *http.Request) (Totals, bool) {
	t, err := s.store.Totals(r.Context())
	if err != nil {
		xerrors.WriteError(r.Context(), w, xerrors.Internal(xerrors.WithCause(err)))
		return Totals{}, false
	}
	return t, true
}

func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	t, ok := s.totals(w, r)
	if !ok {
		return
	}
	xhttp.WriteOK(w, ham.TrackingInfo{
		TotalMovementToday:   ham.Number(t.DistanceMeters),
		AvgMovementPast7Days: ham.Number(s.standards.DistanceMeters),
	})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	t, ok := s.totals(w, r)
	if !ok {
		return
	}
	xhttp.WriteOK(w, ham.DailyMovement{TotalMovement: ham.Number(t.DistanceMeters)})
}

func (s *Server) handleDiet(w http.ResponseWriter, r *http.Request) {
	t, ok := s.totals(w, r)
	if !ok {
		return
	}
	xhttp.WriteOK(w, ham.DietInfo{
		TotalDiet:   ham.Number(t.DietMinutes),
		PrevAvgDiet: ham.Number(s.standards.DietMinutes),
	})
}

func (s *Server) handleWater(w http.ResponseWriter, r *http.Request) {
	t, ok := s.totals(w, r)
	if !ok {
		return
	}
	xhttp.WriteOK(w, ham.WaterInfo{
		TotalWater:   ham.Number(t.WaterMinutes),
		PrevAvgWater: ham.Number(s.standards.WaterMinutes),
	})
}

func (s *Server) handleSleep(w http.ResponseWriter, r *http.Request) {
	t, ok := s.totals(w, r)
	if !ok {
		return
	}
	xhttp.WriteOK(w, ham.SleepInfo{
		TotalSleep:   ham.Number(t.SleepSeconds),
		PrevAvgSleep: ham.Number(s.standards.SleepSeconds),
	})
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	t, ok := s.totals(w, r)
	if !ok {
		return
	}
	xhttp.WriteOK(w, ham.Advice{Advice: Advise(t, s.standards)})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	n := s.capacity
	if raw := r.URL.Query().Get(ham.QueryIsFirst); raw != "" {
		first, err := strconv.ParseBool(raw)
		if err != nil {
			xerrors.WriteError(r.Context(), w, xerrors.BadRequest(
				xerrors.WithMessage("isfirst must be 0 or 1"),
				xerrors.WithCause(err),
			))
			return
		}
		if !first {
			n = 1
		}
	}

	samples, err := s.store.Recent(r.Context(), n)
	if err != nil {
		xerrors.WriteError(r.Context(), w, xerrors.Internal(xerrors.WithCause(err)))
		return
	}

	movements := make([]ham.Movement, 0, len(samples))
	for _, sample := range samples {
		movements = append(movements, toMovement(sample))
	}
	xhttp.WriteOK(w, ham.RecentMovements{RecentMovements: movements})
}

func toMovement(s Sample) ham.Movement {
	m := ham.Movement{
		X:         ham.Number(s.X),
		Y:         ham.Number(s.Y),
		Timestamp: ham.Timestamp{Time: s.At},
	}
	if s.EatingMinutes > 0 {
		v := ham.Number(s.EatingMinutes)
		m.EatingDuration = &v
	}
	if s.DrinkingMinutes > 0 {
		v := ham.Number(s.DrinkingMinutes)
		m.DrinkingDuration = &v
	}
	return m
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		xerrors.WriteError(r.Context(), w, xerrors.ServiceUnavailable(
			xerrors.WithMessage("store unavailable"),
			xerrors.WithCause(err),
		))
		return
	}
	xhttp.WriteOK(w, map[string]string{"status": "ok"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reset(r.Context()); err != nil {
		xerrors.WriteError(r.Context(), w, xerrors.Internal(xerrors.WithCause(err)))
		return
	}
	xslog.FromContext(r.Context()).InfoContext(r.Context(), "store reset")
	w.WriteHeader(http.StatusNoContent)
}
