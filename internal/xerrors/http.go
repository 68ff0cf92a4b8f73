package xerrors

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/garrettladley/ham/internal/xhttp"
	"github.com/garrettladley/ham/internal/xslog"
)

type errorResponse struct {
	Message string `json:"message"`
}

// WriteError logs err and writes the JSON error envelope. Errors that are
// not *Error become 500s.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := As(err)
	if appErr == nil {
		appErr = Internal(WithCause(err))
	}

	logError(ctx, appErr)

	if appErr.RetryAfter > 0 {
		xhttp.SetHeaderRetryAfter(w, appErr.RetryAfter)
	}
	xhttp.WriteJSON(w, appErr.StatusCode, errorResponse{Message: appErr.Message})
}

func logError(ctx context.Context, err *Error) {
	logger := xslog.FromContext(ctx)
	attrs := []any{
		xslog.HTTPStatus(err.StatusCode),
		slog.String("message", err.Message),
	}
	if err.Cause != nil {
		attrs = append(attrs, xslog.Error(err.Cause))
	}

	switch err.StatusCode / 100 {
	case 5:
		logger.ErrorContext(ctx, "server error", attrs...)
	case 4:
		logger.WarnContext(ctx, "client error", attrs...)
	default:
		logger.InfoContext(ctx, "error response", attrs...)
	}
}
