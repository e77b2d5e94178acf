package web

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_SESSION_SECRET", "test-secret")

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.HTTPAddr != "localhost:8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.DBPath != "storefront.db" {
		t.Fatalf("DBPath = %q", cfg.DBPath)
	}
	if cfg.AMQPQueue != "order.placed" {
		t.Fatalf("AMQPQueue = %q", cfg.AMQPQueue)
	}
}

func TestParseConfigRequiresSecret(t *testing.T) {
	t.Setenv("STOREFRONT_SESSION_SECRET", "")

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected error without session secret")
	}
}

func TestParseConfigFlagOverridesEnv(t *testing.T) {
	t.Setenv("STOREFRONT_SESSION_SECRET", "test-secret")
	t.Setenv("STOREFRONT_HTTP_ADDR", "localhost:9000")

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "localhost:9001"})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if cfg.HTTPAddr != "localhost:9001" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
}
