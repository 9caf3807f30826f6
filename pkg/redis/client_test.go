package redis

import (
	"testing"
	"time"

	"github.com/harborlabs/medcatalog-backend/pkg/config"
)

func TestOptionsFromConfig_URLWins(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:     "redis://:pw@redis.internal:6380/2",
		Address: "ignored:6379",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "redis.internal:6380" {
		t.Fatalf("expected addr from URL, got %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db 2 from URL, got %d", opts.DB)
	}
	if opts.Password != "pw" {
		t.Fatalf("expected password from URL")
	}
}

func TestOptionsFromConfig_AddressFallback(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:     "localhost:6379",
		DB:          1,
		PoolSize:    5,
		DialTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 1 {
		t.Fatalf("unexpected opts %+v", opts)
	}
	if opts.PoolSize != 5 {
		t.Fatalf("expected pool size 5, got %d", opts.PoolSize)
	}
}

func TestOptionsFromConfig_RequiresEndpoint(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither URL nor address is set")
	}
}
