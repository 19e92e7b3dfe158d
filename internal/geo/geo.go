// Package geo resolves device coordinates with a hard upper bound on how
// long a submission may wait for them.
package geo

import (
	"context"
	"log"

	"civicpulse/backend/internal/config"
)

// Locator obtains fresh coordinates for the current request, typically
// by asking the client over a side channel. It should honor ctx.
type Locator func(ctx context.Context) (lat, lng float64, err error)

// Resolver wraps a Locator with the intake timeout and the (0,0)
// fallback. A nil Locator means location is never available.
type Resolver struct {
	Locate Locator
}

func NewResolver(locate Locator) *Resolver {
	return &Resolver{Locate: locate}
}

// Resolve returns coordinates within config.GeolocationTimeout. Denial,
// timeout or absence of a locator all yield the (0,0) sentinel; the
// submission itself always proceeds.
func (r *Resolver) Resolve(ctx context.Context) (float64, float64) {
	if r == nil || r.Locate == nil {
		return 0, 0
	}

	ctx, cancel := context.WithTimeout(ctx, config.GeolocationTimeout)
	defer cancel()

	type result struct {
		lat, lng float64
		err      error
	}
	ch := make(chan result, 1)
	go func() {
		lat, lng, err := r.Locate(ctx)
		ch <- result{lat, lng, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			log.Printf("INFO: Geolocation unavailable, using sentinel: %v", res.err)
			return 0, 0
		}
		return res.lat, res.lng
	case <-ctx.Done():
		log.Printf("INFO: Geolocation timed out, using sentinel")
		return 0, 0
	}
}
