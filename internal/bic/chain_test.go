package bic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticResolver(bic string, err error, calls *int) Resolver {
	return ResolverFunc(func(context.Context, string) (string, error) {
		if calls != nil {
			*calls++
		}
		return bic, err
	})
}

func TestChain(t *testing.T) {
	ctx := context.Background()

	bic, err := Chain{
		staticResolver("", ErrBICNotFound, nil),
		staticResolver("CRESCHZZ80A", nil, nil),
	}.ResolveBIC(ctx, "CH0204835000626882001")
	require.NoError(t, err)
	assert.Equal(t, "CRESCHZZ80A", bic)

	_, err = Chain{
		staticResolver("", ErrBICNotFound, nil),
		staticResolver("", ErrResolutionUnavailable, nil),
	}.ResolveBIC(ctx, "CH0204835000626882001")
	assert.True(t, errors.Is(err, ErrBICNotFound))
	assert.True(t, errors.Is(err, ErrResolutionUnavailable))

	_, err = Chain{}.ResolveBIC(ctx, "CH0204835000626882001")
	assert.ErrorIs(t, err, ErrResolutionUnavailable)
}

func TestCache(t *testing.T) {
	calls := 0
	cache := NewCache(staticResolver("POFICHBE", nil, &calls))

	for i := 0; i < 3; i++ {
		bic, err := cache.ResolveBIC(context.Background(), "CH02 0900 0000 1000 1399 7")
		require.NoError(t, err)
		assert.Equal(t, "POFICHBE", bic)
	}
	_, err := cache.ResolveBIC(context.Background(), "CH0209000000100013997")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_DoesNotCacheFailures(t *testing.T) {
	calls := 0
	cache := NewCache(staticResolver("", ErrBICNotFound, &calls))

	_, err := cache.ResolveBIC(context.Background(), "CH0209000000100013997")
	assert.ErrorIs(t, err, ErrBICNotFound)
	_, err = cache.ResolveBIC(context.Background(), "CH0209000000100013997")
	assert.ErrorIs(t, err, ErrBICNotFound)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, cache.Len())
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable.ResolveBIC(context.Background(), "CH0209000000100013997")
	assert.ErrorIs(t, err, ErrResolutionUnavailable)
}
