// Package logging builds zap loggers and the request-logging hook used by the
// API client.
package logging

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lgc202/coingecko-kit/httpx"
)

// New returns a production (JSON) or development (console) logger at level.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// RequestLogger logs one line per round trip. Only method, URL, status and
// timing are recorded; headers are not, so the API key never reaches the log.
func RequestLogger(l *zap.Logger) httpx.AfterHook {
	if l == nil {
		l = zap.NewNop()
	}
	return func(req *http.Request, resp *http.Response, err error, dur time.Duration) {
		fields := []zap.Field{
			zap.String("method", req.Method),
			zap.String("url", req.URL.Redacted()),
			zap.Duration("duration", dur),
		}
		if err != nil {
			l.Warn("request failed", append(fields, zap.Error(err))...)
			return
		}
		fields = append(fields, zap.Int("status", resp.StatusCode))
		if resp.StatusCode >= 400 {
			l.Warn("request returned error status", fields...)
			return
		}
		l.Debug("request completed", fields...)
	}
}
