package secrets

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider records how many underlying resolves happen.
type countingProvider struct {
	next  Provider
	calls atomic.Int64
}

func (p *countingProvider) Resolve(ctx context.Context, names []string) (map[string]Credential, error) {
	p.calls.Add(1)
	return p.next.Resolve(ctx, names)
}

func TestCachedServesFromCache(t *testing.T) {
	counting := &countingProvider{next: Static{"CAMINO_API_KEY": "v1"}}
	cached := NewCached(counting, time.Minute)

	for range 3 {
		resolved, err := cached.Resolve(context.Background(), []string{"CAMINO_API_KEY"})
		require.NoError(t, err)
		assert.Equal(t, "v1", resolved["CAMINO_API_KEY"].Reveal())
	}
	assert.Equal(t, int64(1), counting.calls.Load())
}

func TestCachedExpiry(t *testing.T) {
	counting := &countingProvider{next: Static{"CAMINO_API_KEY": "v1"}}
	cached := NewCached(counting, time.Minute)

	now := time.Now()
	cached.now = func() time.Time { return now }

	_, err := cached.Resolve(context.Background(), []string{"CAMINO_API_KEY"})
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = cached.Resolve(context.Background(), []string{"CAMINO_API_KEY"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counting.calls.Load())
}

func TestCachedInvalidate(t *testing.T) {
	store := Static{"CAMINO_API_KEY": "old"}
	counting := &countingProvider{next: store}
	cached := NewCached(counting, time.Hour)

	_, err := cached.Resolve(context.Background(), []string{"CAMINO_API_KEY"})
	require.NoError(t, err)

	store["CAMINO_API_KEY"] = "rotated"
	cached.Invalidate("CAMINO_API_KEY")

	resolved, err := cached.Resolve(context.Background(), []string{"CAMINO_API_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "rotated", resolved["CAMINO_API_KEY"].Reveal())
	assert.Equal(t, int64(2), counting.calls.Load())
}

func TestCachedFailureCachesNothing(t *testing.T) {
	store := Static{}
	cached := NewCached(store, time.Hour)

	_, err := cached.Resolve(context.Background(), []string{"CAMINO_API_KEY"})
	require.Error(t, err)

	store["CAMINO_API_KEY"] = "now-present"
	resolved, err := cached.Resolve(context.Background(), []string{"CAMINO_API_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "now-present", resolved["CAMINO_API_KEY"].Reveal())
}

func TestCachedConcurrentAccess(t *testing.T) {
	cached := NewCached(Static{"CAMINO_API_KEY": "v1"}, time.Hour)

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%8 == 0 {
				cached.Invalidate("CAMINO_API_KEY")
				return
			}
			resolved, err := cached.Resolve(context.Background(), []string{"CAMINO_API_KEY"})
			assert.NoError(t, err)
			assert.Equal(t, "v1", resolved["CAMINO_API_KEY"].Reveal())
		}(i)
	}
	wg.Wait()
}
