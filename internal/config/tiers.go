// Where: internal/config/tiers.go
// What: Collect and resolve the defaults / unique / overrides tiers.
// Why: Plugins contribute settings; the host merges them with the user's config.yml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/poruru-code/legacyfrontends/internal/hooks"
)

// ErrKeyCollision is returned when two registrations set the same key in
// one tier and the policy is CollisionFail.
var ErrKeyCollision = errors.New("config key collision")

// Tier names a configuration precedence level.
type Tier string

const (
	TierDefaults  Tier = "defaults"
	TierUnique    Tier = "unique"
	TierOverrides Tier = "overrides"
)

// CollisionPolicy decides what happens when a key is registered twice in a tier.
type CollisionPolicy int

const (
	// CollisionWarn logs a warning; the later registration wins.
	CollisionWarn CollisionPolicy = iota
	// CollisionFail aborts collection.
	CollisionFail
)

// ParseCollisionPolicy maps "warn" and "fail" to a policy.
func ParseCollisionPolicy(value string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "warn":
		return CollisionWarn, nil
	case "fail":
		return CollisionFail, nil
	default:
		return CollisionWarn, fmt.Errorf("unknown collision policy %q", value)
	}
}

// Layers holds the flattened tiers contributed through the registry.
type Layers struct {
	Defaults  map[string]any
	Unique    map[string]any
	Overrides map[string]any
	// Env holds per-invocation values taken from the environment. They sit
	// above the user configuration and below plugin overrides, and are never
	// persisted.
	Env map[string]any
}

// Keys returns every key known to the layers or to user, sorted.
func (l Layers) Keys(user map[string]any) []string {
	seen := map[string]struct{}{}
	for _, m := range []map[string]any{l.Defaults, l.Unique, l.Overrides, user} {
		for key := range m {
			seen[key] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Collect flattens the three configuration filters of r.
func Collect(r *hooks.Registry, policy CollisionPolicy, logger *slog.Logger) (Layers, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	defaults, err := collectTier(TierDefaults, r.ConfigDefaults.Items(), policy, logger)
	if err != nil {
		return Layers{}, err
	}
	unique, err := collectTier(TierUnique, r.ConfigUnique.Items(), policy, logger)
	if err != nil {
		return Layers{}, err
	}
	overrides, err := collectTier(TierOverrides, r.ConfigOverrides.Items(), policy, logger)
	if err != nil {
		return Layers{}, err
	}
	return Layers{Defaults: defaults, Unique: unique, Overrides: overrides}, nil
}

func collectTier(tier Tier, entries []hooks.ConfigEntry, policy CollisionPolicy, logger *slog.Logger) (map[string]any, error) {
	values := make(map[string]any, len(entries))
	for _, e := range entries {
		if _, dup := values[e.Key]; dup {
			if policy == CollisionFail {
				return nil, fmt.Errorf("%w: %s registered twice in %s", ErrKeyCollision, e.Key, tier)
			}
			logger.Warn("config key registered twice", "key", e.Key, "tier", string(tier))
		}
		values[e.Key] = e.Value
	}
	return values, nil
}

// Result is the outcome of Resolve.
type Result struct {
	// Values is the effective configuration.
	Values map[string]any
	// Generated holds unique values created during this resolution; callers
	// persist them into config.yml so they stay stable.
	Generated map[string]any
}

// Resolve merges the tiers with the user configuration. Precedence, lowest
// first: defaults, user values, environment values, overrides. Unique
// values missing from both user and the environment are generated once.
// String values containing template actions are rendered against the
// merged configuration.
func Resolve(user map[string]any, layers Layers) (Result, error) {
	merged := maps.Clone(layers.Defaults)
	if merged == nil {
		merged = map[string]any{}
	}
	maps.Copy(merged, user)
	maps.Copy(merged, layers.Env)

	generated := map[string]any{}
	for _, key := range slices.Sorted(maps.Keys(layers.Unique)) {
		if _, ok := user[key]; ok {
			continue
		}
		if _, ok := layers.Env[key]; ok {
			continue
		}
		value, err := renderValue(key, layers.Unique[key], merged)
		if err != nil {
			return Result{}, err
		}
		generated[key] = value
		merged[key] = value
	}

	maps.Copy(merged, layers.Overrides)

	if err := renderAll(merged); err != nil {
		return Result{}, err
	}
	return Result{Values: merged, Generated: generated}, nil
}

// CheckNamespace returns the keys that do not start with prefix.
func CheckNamespace(keys []string, prefix string) []string {
	var offending []string
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			offending = append(offending, key)
		}
	}
	return offending
}
