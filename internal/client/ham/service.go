package ham

import "context"

type TrackingService interface {
	Get(ctx context.Context) (*TrackingInfo, error)
	Daily(ctx context.Context) (*DailyMovement, error)
}

type MovementService interface {
	// Recent lists recent movements. first asks for the full window;
	// otherwise the backend returns only the newest point.
	Recent(ctx context.Context, first bool) (*RecentMovements, error)
}

type DietService interface {
	Get(ctx context.Context) (*DietInfo, error)
}

type WaterService interface {
	Get(ctx context.Context) (*WaterInfo, error)
}

type SleepService interface {
	Get(ctx context.Context) (*SleepInfo, error)
}

type AdviceService interface {
	Get(ctx context.Context) (*Advice, error)
}
