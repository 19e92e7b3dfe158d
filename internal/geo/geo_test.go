package geo_test

import (
	"context"
	"errors"
	"testing"

	"civicpulse/backend/internal/geo"

	"github.com/stretchr/testify/assert"
)

func TestResolve_PassesThroughCoordinates(t *testing.T) {
	resolver := geo.NewResolver(func(ctx context.Context) (float64, float64, error) {
		return 12.9716, 77.5946, nil
	})

	lat, lng := resolver.Resolve(context.Background())

	assert.Equal(t, 12.9716, lat)
	assert.Equal(t, 77.5946, lng)
}

func TestResolve_DenialYieldsSentinel(t *testing.T) {
	resolver := geo.NewResolver(func(ctx context.Context) (float64, float64, error) {
		return 0, 0, errors.New("permission denied")
	})

	lat, lng := resolver.Resolve(context.Background())

	assert.Zero(t, lat)
	assert.Zero(t, lng)
}

func TestResolve_NilLocatorYieldsSentinel(t *testing.T) {
	resolver := geo.NewResolver(nil)

	lat, lng := resolver.Resolve(context.Background())

	assert.Zero(t, lat)
	assert.Zero(t, lng)

	var nilResolver *geo.Resolver
	lat, lng = nilResolver.Resolve(context.Background())
	assert.Zero(t, lat)
	assert.Zero(t, lng)
}

func TestResolve_StalledLocatorTimesOut(t *testing.T) {
	resolver := geo.NewResolver(func(ctx context.Context) (float64, float64, error) {
		<-ctx.Done()
		return 55.0, 37.0, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lat, lng := resolver.Resolve(ctx)

	assert.Zero(t, lat)
	assert.Zero(t, lng)
}
