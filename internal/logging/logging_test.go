package logging

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("debug", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = New("loud", false)
	assert.Error(t, err)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	hook := RequestLogger(zap.New(core))

	u, _ := url.Parse("https://api.coingecko.com/api/v3/ping")
	req := &http.Request{Method: http.MethodGet, URL: u, Header: http.Header{"X-Cg-Demo-Api-Key": {"secret"}}}

	hook(req, &http.Response{StatusCode: http.StatusOK}, nil, 10*time.Millisecond)
	hook(req, &http.Response{StatusCode: http.StatusTooManyRequests}, nil, time.Millisecond)
	hook(req, nil, errors.New("dial tcp: refused"), time.Millisecond)

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, "https://api.coingecko.com/api/v3/ping", entries[0].ContextMap()["url"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "request failed", entries[2].Message)

	for _, e := range entries {
		for _, v := range e.ContextMap() {
			assert.NotContains(t, fmt.Sprint(v), "secret")
		}
	}
}

func TestRequestLogger_NilLogger(t *testing.T) {
	u, _ := url.Parse("https://api.coingecko.com/api/v3/ping")
	assert.NotPanics(t, func() {
		RequestLogger(nil)(&http.Request{Method: http.MethodGet, URL: u}, &http.Response{StatusCode: 200}, nil, 0)
	})
}
