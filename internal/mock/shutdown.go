package mock

import (
	"context"
	"time"
)

// ShutdownCoordinator gives long-lived responses, such as the video
// stream, a base context that is cancelled ahead of server.Shutdown.
type ShutdownCoordinator struct {
	baseCtx     context.Context
	cancel      context.CancelFunc
	gracePeriod time.Duration
}

func NewShutdownCoordinator(gracePeriod time.Duration) *ShutdownCoordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &ShutdownCoordinator{
		baseCtx:     ctx,
		cancel:      cancel,
		gracePeriod: gracePeriod,
	}
}

func (sc *ShutdownCoordinator) BaseContext() context.Context {
	return sc.baseCtx
}

// InitiateShutdown cancels the base context and blocks for the grace
// period so open streams can end their final part.
func (sc *ShutdownCoordinator) InitiateShutdown() {
	sc.cancel()
	time.Sleep(sc.gracePeriod)
}
