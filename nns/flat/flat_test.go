package flat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/icpgo/nns"
)

func TestHybridSearchBasics(t *testing.T) {
	target := [][3]float32{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
	}
	idx := New(target)
	require.NoError(t, idx.Build(0.5))

	queries := [][3]float32{
		{0.1, 0, 0},  // near target 0
		{0.9, 0, 0},  // near target 1
		{5, 5, 5},    // no match
		{0, 1.05, 0}, // near target 2
	}
	res, err := idx.HybridSearch(context.Background(), queries, 0.5)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 3}, res.QueryIndices)
	assert.Equal(t, []int{0, 1, 2}, res.TargetIndices)
	require.Equal(t, 3, res.Len())
	assert.InDelta(t, 0.01, res.Distances[0], 1e-5)
	assert.InDelta(t, 0.01, res.Distances[1], 1e-5)
	assert.InDelta(t, 0.0025, res.Distances[2], 1e-4)
}

func TestHybridSearchNotBuilt(t *testing.T) {
	idx := New([][3]float32{{0, 0, 0}})
	_, err := idx.HybridSearch(context.Background(), [][3]float32{{0, 0, 0}}, 1)
	require.ErrorIs(t, err, nns.ErrIndexNotBuilt)
}

func TestBuildInvalidRadius(t *testing.T) {
	idx := New([][3]float32{{0, 0, 0}})
	err := idx.Build(0)
	var ir *nns.ErrInvalidRadius
	require.ErrorAs(t, err, &ir)
	assert.Equal(t, 0.0, ir.Radius)
}

func TestHybridSearchRadiusMismatch(t *testing.T) {
	idx := New([][3]float32{{0, 0, 0}})
	require.NoError(t, idx.Build(1))

	_, err := idx.HybridSearch(context.Background(), [][3]float32{{0, 0, 0}}, 2)
	var rm *nns.ErrRadiusMismatch
	require.ErrorAs(t, err, &rm)
	assert.Equal(t, 1.0, rm.Built)
	assert.Equal(t, 2.0, rm.Requested)
}

func TestHybridSearchEmpty(t *testing.T) {
	t.Run("EmptyTarget", func(t *testing.T) {
		idx := New(nil)
		require.NoError(t, idx.Build(1))
		res, err := idx.HybridSearch(context.Background(), [][3]float32{{0, 0, 0}}, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Len())
	})

	t.Run("EmptyQueries", func(t *testing.T) {
		idx := New([][3]float32{{0, 0, 0}})
		require.NoError(t, idx.Build(1))
		res, err := idx.HybridSearch(context.Background(), nil, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Len())
	})
}

func TestHybridSearchCancelled(t *testing.T) {
	idx := New([][3]float32{{0, 0, 0}})
	require.NoError(t, idx.Build(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := idx.HybridSearch(ctx, [][3]float32{{0, 0, 0}}, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHybridSearchWorkerCountInvariance(t *testing.T) {
	target := make([][3]float32, 0, 100)
	queries := make([][3]float32, 0, 100)
	for i := 0; i < 100; i++ {
		f := float32(i) * 0.1
		target = append(target, [3]float32{f, -f, f * 0.5})
		queries = append(queries, [3]float32{f + 0.01, -f, f * 0.5})
	}

	var results []*nns.Result
	for _, workers := range []int{1, 2, 7} {
		idx := New(target, func(o *Options) { o.NumWorkers = workers })
		require.NoError(t, idx.Build(0.3))
		res, err := idx.HybridSearch(context.Background(), queries, 0.3)
		require.NoError(t, err)
		results = append(results, res)
	}

	for _, res := range results[1:] {
		assert.Equal(t, results[0].QueryIndices, res.QueryIndices)
		assert.Equal(t, results[0].TargetIndices, res.TargetIndices)
		assert.Equal(t, results[0].Distances, res.Distances)
	}
}
