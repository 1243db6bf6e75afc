package middleware

import (
	"net/http"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"leadtracker/internal/util"
	"leadtracker/pkg/response"
)

// RateLimit allows each client rps requests per second with the given burst.
// Limiters live in store and expire once a client goes idle.
func RateLimit(store *gocache.Cache, rps float64, burst int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := limiterFor(store, util.RemoteHost(r), rps, burst)

			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func limiterFor(store *gocache.Cache, key string, rps float64, burst int) *rate.Limiter {
	if v, found := store.Get(key); found {
		l := v.(*rate.Limiter)
		// refresh the idle expiry
		store.SetDefault(key, l)
		return l
	}

	l := rate.NewLimiter(rate.Limit(rps), burst)
	if err := store.Add(key, l, gocache.DefaultExpiration); err != nil {
		// another request created it first
		if v, found := store.Get(key); found {
			return v.(*rate.Limiter)
		}
	}
	return l
}
