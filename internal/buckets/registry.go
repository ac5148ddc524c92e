// File: internal/buckets/registry.go
package buckets

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync"

	"s3sh/internal/persist"
)

// Registry holds bucket profiles in registration order and persists the whole
// collection through a Store after every mutation.
type Registry struct {
	mu       sync.RWMutex
	profiles []Profile
	store    persist.Store[Profile]
	logger   *slog.Logger
}

// Loads the persisted collection. Duplicate aliases in the stored data keep the first entry
func NewRegistry(ctx context.Context, store persist.Store[Profile], logger *slog.Logger) (*Registry, error) {
	r := &Registry{
		store:  store,
		logger: logger.With("component", "BucketRegistry"),
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bucket profiles: %w", err)
	}
	for _, p := range loaded {
		if r.indexOf(p.Alias) >= 0 {
			r.logger.Warn("Skipping duplicate alias in stored profiles", "alias", p.Alias)
			continue
		}
		r.profiles = append(r.profiles, p)
	}

	r.logger.Debug("Loaded bucket profiles", "count", len(r.profiles))
	return r, nil
}

func (r *Registry) indexOf(alias string) int {
	return slices.IndexFunc(r.profiles, func(p Profile) bool { return p.Alias == alias })
}

// Add inserts the profile unless its alias is taken, in which case the existing entry wins
func (r *Registry) Add(ctx context.Context, p Profile) (AddOutcome, error) {
	if err := p.Validate(); err != nil {
		return Rejected, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(p.Alias) >= 0 {
		r.logger.Debug("Alias already registered, add skipped", "alias", p.Alias)
		return AlreadyExists, nil
	}

	next := append(slices.Clone(r.profiles), p)
	if err := r.store.Save(ctx, next); err != nil {
		r.logger.Error("Failed to persist bucket profiles", "error", err)
		return Rejected, fmt.Errorf("failed to save bucket profiles: %w", err)
	}
	r.profiles = next
	return Added, nil
}

func (r *Registry) Remove(ctx context.Context, alias string) (RemoveOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(alias)
	if i < 0 {
		return NotFound, nil
	}

	next := slices.Delete(slices.Clone(r.profiles), i, i+1)
	if err := r.store.Save(ctx, next); err != nil {
		r.logger.Error("Failed to persist bucket profiles", "error", err)
		return Removed, fmt.Errorf("failed to save bucket profiles: %w", err)
	}
	r.profiles = next
	return Removed, nil
}

func (r *Registry) Get(alias string) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(alias); i >= 0 {
		return r.profiles[i], true
	}
	return Profile{}, false
}

// List yields the profiles as of the call, in registration order. The sequence can be ranged over repeatedly.
func (r *Registry) List() iter.Seq[Profile] {
	r.mu.RLock()
	snapshot := slices.Clone(r.profiles)
	r.mu.RUnlock()

	return slices.Values(snapshot)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}

// Merges profiles into the registry. Unlike Add, an existing alias is overwritten in place.
func (r *Registry) merge(ctx context.Context, incoming []Profile) (int, error) {
	for _, p := range incoming {
		if err := p.Validate(); err != nil {
			return 0, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := slices.Clone(r.profiles)
	for _, p := range incoming {
		if i := slices.IndexFunc(next, func(e Profile) bool { return e.Alias == p.Alias }); i >= 0 {
			next[i] = p
			continue
		}
		next = append(next, p)
	}

	if err := r.store.Save(ctx, next); err != nil {
		r.logger.Error("Failed to persist bucket profiles", "error", err)
		return 0, fmt.Errorf("failed to save bucket profiles: %w", err)
	}
	r.profiles = next
	return len(incoming), nil
}

// Returns the profiles named in aliases, or all profiles when aliases is empty.
// Unknown aliases are skipped.
func (r *Registry) selection(aliases []string) []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(aliases) == 0 {
		return slices.Clone(r.profiles)
	}

	var out []Profile
	for _, p := range r.profiles {
		if slices.Contains(aliases, p.Alias) {
			out = append(out, p)
		}
	}
	return out
}
