package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/bizdesk-backend/pkg/ctxutil"
)

// Logger writes one "http.request" record per request. Server errors log at
// error level, client errors at warn, everything else at info.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newResponseRecorder(w)

			next.ServeHTTP(rec, r)

			ctx := r.Context()
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int("bytes", rec.bytes),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
				slog.String("remote_ip", clientIP(r)),
			}
			if userID := ctxutil.OptionalUserID(ctx); userID != nil {
				attrs = append(attrs, slog.String("user_id", userID.String()))
			}

			logger.LogAttrs(ctx, levelFor(rec.status), "http.request", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
