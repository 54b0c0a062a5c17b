package mongo

import (
	"context"
	"testing"
	"time"
)

func TestClientOptions(t *testing.T) {
	opts, timeout := clientOptions(Config{URI: "mongodb://db.internal:27017", Database: "finance"})

	if timeout != defaultTimeout {
		t.Fatalf("expected default timeout %v, got %v", defaultTimeout, timeout)
	}
	if opts.AppName == nil || *opts.AppName != appName {
		t.Fatalf("expected app name %q, got %v", appName, opts.AppName)
	}
	if opts.ServerSelectionTimeout == nil || *opts.ServerSelectionTimeout != defaultTimeout {
		t.Fatalf("expected server selection timeout %v, got %v", defaultTimeout, opts.ServerSelectionTimeout)
	}
	if len(opts.Hosts) != 1 || opts.Hosts[0] != "db.internal:27017" {
		t.Fatalf("expected host from URI, got %v", opts.Hosts)
	}
}

func TestClientOptions_CustomTimeout(t *testing.T) {
	_, timeout := clientOptions(Config{URI: "mongodb://localhost:27017", Timeout: 2 * time.Second})
	if timeout != 2*time.Second {
		t.Fatalf("expected 2s, got %v", timeout)
	}
}

func TestOpen_RequiresDatabase(t *testing.T) {
	if _, err := Open(context.Background(), Config{URI: "mongodb://localhost:27017"}); err == nil {
		t.Fatal("expected an error without a database name")
	}
}
