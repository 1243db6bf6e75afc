package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// ClientTTL is how long an idle client's entry survives.
	ClientTTL       = 5 * time.Minute
	cleanupInterval = time.Minute
)

// Store holds per-client rate limiters keyed by client address.
var Store *gocache.Cache

func Init() {
	Store = New()
}

func New() *gocache.Cache {
	return gocache.New(ClientTTL, cleanupInterval)
}
