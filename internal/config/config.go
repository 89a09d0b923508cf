// Package config loads the ambient configuration for a tap instance:
// logging level and the instance identity an embedder seeds a Context
// with.
package config

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/rakunlabs/chu/loader/external/loaderconsul"
	_ "github.com/rakunlabs/chu/loader/external/loadervault"
	"github.com/rakunlabs/chu/loader/loaderenv"
	"github.com/rakunlabs/logi"

	"github.com/rakunlabs/chu"

	"github.com/kroeg/tap/internal/tap"
)

var Service = "tap"

type Config struct {
	LogLevel string `cfg:"log_level,no_prefix" default:"info"`

	// Instance describes the local server this tap core is embedded in.
	// An embedder uses these values to seed the per-request Context
	// (server base IRI, display name) and the create_actor handler.
	Instance Instance `cfg:"instance"`

	// Algorithm tunes the untangle/id-assignment and assembler algorithms.
	Algorithm Algorithm `cfg:"algorithm"`
}

type Instance struct {
	// ServerBase is the scheme+host this instance is reachable at,
	// e.g. "https://example.com". IDs assigned for local entities are
	// rooted under this IRI.
	ServerBase string `cfg:"server_base"`

	Name        string `cfg:"name" default:"tap"`
	Description string `cfg:"description"`
}

type Algorithm struct {
	// IDAssignRetries bounds how many times assign_id retries a
	// colliding suggestion before giving up with ErrIDAssignmentExhausted.
	IDAssignRetries int `cfg:"id_assign_retries" default:"3"`

	// MaxAssembleDepth bounds how deep Assemble will recurse before
	// truncating to a bare reference, per the resource-bound invariant.
	MaxAssembleDepth int `cfg:"max_assemble_depth" default:"8"`
}

func Load(ctx context.Context, path string) (*Config, error) {
	var cfg Config
	if err := chu.Load(ctx, path, &cfg, chu.WithLoaderOption(loaderenv.New(loaderenv.WithPrefix("TAP_")))); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if err := logi.SetLogLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("set log level %s: %w", cfg.LogLevel, err)
	}

	slog.Info("loaded configuration", "config", chu.MarshalMap(cfg))

	return &cfg, nil
}

// NewContext seeds a per-request Context from the loaded instance
// identity and algorithm tunables, for an embedder to fill in with a
// request's user and store collaborators before use.
func (c *Config) NewContext(user tap.User, entities tap.EntityStore, queue tap.QueueStore) *tap.Context {
	return &tap.Context{
		User:             user,
		ServerBase:       c.Instance.ServerBase,
		Name:             c.Instance.Name,
		Description:      c.Instance.Description,
		IDAssignRetries:  c.Algorithm.IDAssignRetries,
		MaxAssembleDepth: c.Algorithm.MaxAssembleDepth,
		Entities:         entities,
		Queue:            queue,
	}
}
