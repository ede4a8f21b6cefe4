package migrate

import (
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache()

	t.Run("set and get", func(t *testing.T) {
		cache.Set("key", "value", 0)
		got, ok := cache.Get("key")
		if !ok || got != "value" {
			t.Errorf("Get() = %v, %v; want value, true", got, ok)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		if _, ok := cache.Get("absent"); ok {
			t.Error("Get() reported a hit for an absent key")
		}
	})

	t.Run("expiry", func(t *testing.T) {
		cache.Set("ephemeral", 1, time.Nanosecond)
		time.Sleep(time.Millisecond)
		if _, ok := cache.Get("ephemeral"); ok {
			t.Error("Get() returned an expired entry")
		}
	})

	t.Run("clear", func(t *testing.T) {
		cache.Set("doomed", 1, 0)
		cache.Clear("doomed")
		if _, ok := cache.Get("doomed"); ok {
			t.Error("Get() returned a cleared entry")
		}
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		cache.Set("durable", 1, 0)
		time.Sleep(time.Millisecond)
		if _, ok := cache.Get("durable"); !ok {
			t.Error("zero-ttl entry expired")
		}
	})
}
