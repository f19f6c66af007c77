package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Error represents an HTTP or transport error with observability-friendly fields.
type Error struct {
	Method string
	URL    string

	// StatusCode is the HTTP status code. It is 0 when the request failed before receiving a response.
	StatusCode int

	// APIMessage and APICode are read from a JSON error body when the API sends one.
	APIMessage string
	APICode    int64

	// RetryAfter is parsed from Retry-After when present.
	RetryAfter time.Duration

	// RawBody is a truncated copy of the response body (only for non-2xx responses).
	RawBody []byte

	// Cause is the underlying error (transport error, context cancellation, JSON decode error, etc).
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if m := strings.TrimSpace(e.Method); m != "" {
		b.WriteString(strings.ToUpper(m))
		b.WriteString(" ")
	}
	if u := strings.TrimSpace(e.URL); u != "" {
		b.WriteString(u)
		b.WriteString(": ")
	}
	if e.StatusCode != 0 {
		b.WriteString(fmt.Sprintf("http %d", e.StatusCode))
		if t := strings.TrimSpace(http.StatusText(e.StatusCode)); t != "" {
			b.WriteString(" ")
			b.WriteString(t)
		}
	} else {
		b.WriteString("request failed")
	}
	if e.APIMessage != "" {
		b.WriteString(": ")
		b.WriteString(e.APIMessage)
	} else if e.Cause != nil && e.StatusCode == 0 {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts *Error.
func AsError(err error) (*Error, bool) {
	var he *Error
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

func IsHTTPStatus(err error, code int) bool {
	he, ok := AsError(err)
	return ok && he.StatusCode == code
}

// apiErrorDetails understands the shapes CoinGecko uses for failures:
// {"status":{"error_code":10002,"error_message":"..."}}, {"error":"..."}
// and {"error":{"status":{...}}}.
func apiErrorDetails(raw []byte) (string, int64) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return "", 0
	}
	res := gjson.GetManyBytes(raw,
		"status.error_message",
		"error.status.error_message",
		"error",
		"message",
		"status.error_code",
		"error.status.error_code",
	)
	var msg string
	for _, r := range res[:4] {
		if r.Type == gjson.String && r.String() != "" {
			msg = r.String()
			break
		}
	}
	var code int64
	for _, r := range res[4:] {
		if r.Type == gjson.Number {
			code = r.Int()
			break
		}
	}
	return msg, code
}

func parseRetryAfter(resp *http.Response, now time.Time) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		d := t.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
