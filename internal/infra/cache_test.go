package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSemRedisEhNoop(t *testing.T) {
	ctx := context.Background()

	for _, c := range []*Cache{nil, NewCache(nil, time.Minute)} {
		c.SetJSON(ctx, "k", map[string]int{"a": 1})
		var out map[string]int
		assert.False(t, c.GetJSON(ctx, "k", &out))
		assert.Nil(t, out)
		c.DeletePrefix(ctx, "k")
	}
}
