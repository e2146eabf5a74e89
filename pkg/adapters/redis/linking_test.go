package redis_test

import (
	"context"
	"testing"

	"github.com/aretw0/navstack/pkg/adapters/redis"
	"github.com/aretw0/navstack/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkSource_Contract(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	source := redis.NewLinkSource(client, "test:")
	require.NoError(t, source.SetLaunchURL(ctx, "https://example.com/launch"))

	tests.LinkSourceContractTest(t, source, "https://example.com/launch", func(url string) {
		require.NoError(t, source.Open(ctx, url))
	})
}

func TestLinkSource_LaunchURLConsumedOnce(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	source := redis.NewLinkSource(client, "test:")
	url, err := source.InitialURL(ctx)
	require.NoError(t, err)
	assert.Empty(t, url)

	require.NoError(t, source.SetLaunchURL(ctx, "berty://x"))
	url, err = source.InitialURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "berty://x", url)

	url, err = source.InitialURL(ctx)
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestLinkSource_HoldsUnheardURLs(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()
	source := redis.NewLinkSource(client, "test:")

	require.NoError(t, source.Open(ctx, "https://example.com/a"))
	require.NoError(t, source.Open(ctx, "https://example.com/b"))

	held, err := mr.List("test:held_urls")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, held)

	var seen []string
	unsubscribe := source.Subscribe(func(url string) { seen = append(seen, url) })
	defer unsubscribe()

	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, seen)
	assert.False(t, mr.Exists("test:held_urls"))
}
