package testutil

import (
	"net/http"
	"time"

	"visadesk/pkg/requestcontext"
)

// AsAgent attributes req to agent, as the auth middleware would.
func AsAgent(req *http.Request, agent string) *http.Request {
	return req.WithContext(requestcontext.WithAgent(req.Context(), agent))
}

// At pins the request clock.
func At(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
