package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/randseq/internal/random"
	"github.com/roach88/randseq/internal/rule"
)

func TestGenerateBatch_AllSucceed(t *testing.T) {
	settings := mustSettings(t, []rule.Rule{rule.NumberRangeAll(1, 50), rule.NoDuplicate()}, 5)
	e := New(WithSource(random.NewSeeded(21)))

	results, err := e.GenerateBatch(context.Background(), settings, 8, 3)
	require.NoError(t, err)
	require.Len(t, results, 8)

	ids := map[string]bool{}
	for i, res := range results {
		require.NotNil(t, res, "result %d", i)
		assert.Equal(t, StatusSuccess, res.Status())
		assert.False(t, ids[res.RunID()], "run id reused")
		ids[res.RunID()] = true
	}
}

func TestGenerateBatch_Sequential(t *testing.T) {
	settings := mustSettings(t, []rule.Rule{rule.NumberRangeAll(3, 3)}, 2)
	e := New(WithSource(random.NewSeeded(22)), WithRunIDGenerator(fixedIDs(2)))

	results, err := e.GenerateBatch(context.Background(), settings, 2, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "run-a", results[0].RunID())
	assert.Equal(t, "run-b", results[1].RunID())
}

func TestGenerateBatch_Cancelled(t *testing.T) {
	settings := mustSettings(t, nil, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().GenerateBatch(ctx, settings, 4, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateBatch_Empty(t *testing.T) {
	results, err := New().GenerateBatch(context.Background(), mustSettings(t, nil, 1), 0, 4)
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = New().GenerateBatch(context.Background(), mustSettings(t, nil, 1), -1, 4)
	assert.Error(t, err)
}
