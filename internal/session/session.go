// File: internal/session/session.go

// Package session holds the active bucket connection and the navigation cursor within it.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"s3sh/internal/buckets"
	"s3sh/internal/errs"
	"s3sh/pkg/storage"
)

// ClientFactory materializes a profile's credentials into a live storage client
type ClientFactory interface {
	NewClient(ctx context.Context, profile buckets.Profile) (storage.Client, error)
}

// ProfileLookup is the read side of the bucket registry
type ProfileLookup interface {
	Get(alias string) (buckets.Profile, bool)
}

type SelectOutcome int

const (
	Selected SelectOutcome = iota
	NotFound
)

// Session owns the client of the active bucket. Profile and client are always
// both set or both unset.
type Session struct {
	mu        sync.Mutex
	profiles  ProfileLookup
	factory   ClientFactory
	logger    *slog.Logger
	navigator *Navigator

	active *buckets.Profile
	client storage.Client
}

func New(profiles ProfileLookup, factory ClientFactory, logger *slog.Logger) *Session {
	return &Session{
		profiles:  profiles,
		factory:   factory,
		logger:    logger.With("component", "Session"),
		navigator: NewNavigator(),
	}
}

// SelectBucket makes alias the active bucket. The new client is created before the
// old one is released, so a failed connection leaves the session untouched.
func (s *Session) SelectBucket(ctx context.Context, alias string) (SelectOutcome, error) {
	profile, ok := s.profiles.Get(alias)
	if !ok {
		return NotFound, nil
	}

	s.logger.Debug("Connecting to bucket", "alias", alias, "bucket", profile.BucketName)
	client, err := s.factory.NewClient(ctx, profile)
	if err != nil {
		s.logger.Error("Failed to create storage client", "alias", alias, "error", err)
		return Selected, fmt.Errorf("failed to connect to bucket %s: %w", alias, err)
	}

	s.mu.Lock()
	old := s.client
	s.active = &profile
	s.client = client
	s.navigator.Reset()
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			s.logger.Warn("Failed to close previous storage client", "error", err)
		}
	}
	return Selected, nil
}

func (s *Session) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client != nil
}

// Active returns the live client and the remote bucket name
func (s *Session) Active() (storage.Client, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, "", errs.ErrNoActiveBucket
	}
	return s.client, s.active.BucketName, nil
}

func (s *Session) ActiveProfile() (buckets.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return buckets.Profile{}, false
	}
	return *s.active, true
}

func (s *Session) ChangeDirectory(path string) (strippedLeadingSlash bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigator.ChangeDirectory(path)
}

func (s *Session) ResolveEffectivePath(explicit string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigator.ResolveEffectivePath(explicit)
}

func (s *Session) PresentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigator.PresentPath()
}

// PresentWorkingDirectoryDisplay returns "<bucket>/<path>", or the no-bucket message
func (s *Session) PresentWorkingDirectoryDisplay() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return errs.ErrNoActiveBucket.Error()
	}
	return s.navigator.Display(s.active.BucketName)
}

// Close releases the active client, if any
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	s.active = nil
	s.navigator.Reset()
	return err
}
