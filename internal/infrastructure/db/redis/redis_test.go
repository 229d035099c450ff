package redis

import (
	"context"
	"testing"
	"time"
)

func TestConfig_OptionsDefaults(t *testing.T) {
	opts := Config{Addr: "localhost:6379", ClientName: "auth-service"}.options()

	if opts.DialTimeout != defaultTimeout || opts.ReadTimeout != defaultTimeout || opts.WriteTimeout != defaultTimeout {
		t.Fatalf("expected default timeouts, got %+v", opts)
	}
	if opts.ClientName != "auth-service" || opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected options: %+v", opts)
	}

	opts = Config{Timeout: time.Second}.options()
	if opts.DialTimeout != time.Second {
		t.Fatalf("explicit timeout ignored: %s", opts.DialTimeout)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	if _, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond}); err == nil {
		t.Fatalf("expected ping failure")
	}
}
