package httpx

import (
	"net/http"
	"time"
)

// BeforeHook may adjust the outgoing request. A non-nil error aborts it.
type BeforeHook func(req *http.Request) error

type AfterHook func(req *http.Request, resp *http.Response, err error, dur time.Duration)

type Middleware func(next http.RoundTripper) http.RoundTripper

func chain(rt http.RoundTripper, mws []Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		rt = mws[i](rt)
	}
	return rt
}
