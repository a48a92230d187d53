package middleware

import (
	"net/http"
)

// CORS allows the browser client to call the API from another origin. "*"
// in origins allows any origin.
type CORS struct {
	origins  map[string]struct{}
	allowAll bool
}

func NewCORS(origins []string) *CORS {
	c := &CORS{origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		if o == "*" {
			c.allowAll = true
		}
		c.origins[o] = struct{}{}
	}
	return c
}

func (c *CORS) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && c.allowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+TraceHeader)
			w.Header().Set("Access-Control-Expose-Headers", TraceHeader)
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c *CORS) allowed(origin string) bool {
	if c.allowAll {
		return true
	}
	_, ok := c.origins[origin]
	return ok
}

// Allows reports whether r may open a websocket. Requests without an Origin
// header come from non-browser clients and are accepted.
func (c *CORS) Allows(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || c.allowed(origin)
}
