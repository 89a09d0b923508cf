package config

import (
	"testing"

	"github.com/kroeg/tap/internal/tap"
)

func TestNewContextWiresInstanceAndAlgorithm(t *testing.T) {
	cfg := &Config{
		Instance: Instance{
			ServerBase:  "https://example.com",
			Name:        "example",
			Description: "an example instance",
		},
		Algorithm: Algorithm{
			IDAssignRetries:  5,
			MaxAssembleDepth: 10,
		},
	}

	tctx := cfg.NewContext(tap.User{Subject: "https://example.com/alice"}, nil, nil)

	if tctx.ServerBase != cfg.Instance.ServerBase {
		t.Fatalf("ServerBase = %q, want %q", tctx.ServerBase, cfg.Instance.ServerBase)
	}
	if tctx.Name != cfg.Instance.Name || tctx.Description != cfg.Instance.Description {
		t.Fatal("expected instance name/description to carry through")
	}
	if tctx.IDAssignRetries != cfg.Algorithm.IDAssignRetries {
		t.Fatalf("IDAssignRetries = %d, want %d", tctx.IDAssignRetries, cfg.Algorithm.IDAssignRetries)
	}
	if tctx.MaxAssembleDepth != cfg.Algorithm.MaxAssembleDepth {
		t.Fatalf("MaxAssembleDepth = %d, want %d", tctx.MaxAssembleDepth, cfg.Algorithm.MaxAssembleDepth)
	}
	if tctx.User.Subject != "https://example.com/alice" {
		t.Fatal("expected user to carry through")
	}
}

func TestNewContextDefaultsAreZeroWhenUnset(t *testing.T) {
	cfg := &Config{}
	tctx := cfg.NewContext(tap.User{}, nil, nil)

	if tctx.IDAssignRetries != 0 || tctx.MaxAssembleDepth != 0 {
		t.Fatal("expected zero-value tunables to pass through as zero, letting the algorithms fall back to their own defaults")
	}
}
