package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"connectrpc.com/connect"
)

// NewLoggingInterceptor bounds every call by timeout, when it is positive,
// and logs the procedure, its duration and the error code.
func NewLoggingInterceptor(logger *slog.Logger, timeout time.Duration) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			start := time.Now()
			res, err := next(ctx, req)
			attrs := []any{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("peer", req.Peer().Addr),
				slog.Duration("duration", time.Since(start)),
			}
			if err != nil {
				var connectErr *connect.Error
				code := connect.CodeUnknown
				if errors.As(err, &connectErr) {
					code = connectErr.Code()
				}
				logger.WarnContext(ctx, "request failed", append(attrs,
					slog.String("code", code.String()),
					slog.Any("error", err),
				)...)
				return res, err
			}
			logger.InfoContext(ctx, "request", attrs...)
			return res, nil
		}
	}
}

// CORSMiddleware allows browsers on allowedOrigins to call the service.
// A "*" entry allows any origin.
func CORSMiddleware(allowedOrigins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
			w.Header().Set("Access-Control-Max-Age", "3600")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
