package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/newsvox/internal/config"
)

type flakySource struct {
	err   error
	calls int
}

func (f *flakySource) Fetch(ctx context.Context, category, country string) ([]Article, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []Article{{Title: category + "/" + country}}, nil
}

func (f *flakySource) Search(ctx context.Context, query, lang string) ([]Article, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []Article{{Title: query + "/" + lang}}, nil
}

func TestBreakerPassesThrough(t *testing.T) {
	src := &flakySource{}
	b := NewBreaker("test", src, config.BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute})

	articles, err := b.Fetch(context.Background(), "sports", "us")
	require.NoError(t, err)
	assert.Equal(t, "sports/us", articles[0].Title)

	articles, err = b.Search(context.Background(), "ai", "en")
	require.NoError(t, err)
	assert.Equal(t, "ai/en", articles[0].Title)
	assert.Equal(t, "closed", b.State())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	boom := errors.New("upstream down")
	src := &flakySource{err: boom}
	b := NewBreaker("test", src, config.BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := b.Fetch(context.Background(), "general", "us")
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, "open", b.State())

	_, err := b.Search(context.Background(), "ai", "en")
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, src.calls, "open circuit must not reach the source")
}
