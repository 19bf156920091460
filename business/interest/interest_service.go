package interest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"marketSense/domain"
	"marketSense/pkg/logger"
)

// ---- Repository interfaces ----

type ActivityRepository interface {
	FindByIdentity(ctx context.Context, identityKey string) ([]domain.ActivityRecord, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, identityKey string) (*domain.InterestProfile, error)
	SaveProfile(ctx context.Context, identityKey string, profile *domain.InterestProfile) error
	DeleteProfile(ctx context.Context, identityKey string) error
}

// ProfileCache is an optional read-through cache in front of the store.
type ProfileCache interface {
	Get(ctx context.Context, identityKey string) (*domain.InterestProfile, error)
	Set(ctx context.Context, identityKey string, profile *domain.InterestProfile) error
	Invalidate(ctx context.Context, identityKey string) error
}

// ---- Usecase / Service ----

type Service struct {
	activityRepo ActivityRepository
	store        ProfileStore
	cache        ProfileCache
	cfg          Config

	// serializes profile writes per identity so concurrent updates for the
	// same identity cannot lose increments; cross-identity calls stay
	// fully parallel
	locks sync.Map // identityKey -> *sync.Mutex
}

func NewService(activityRepo ActivityRepository, store ProfileStore, cache ProfileCache, cfg Config) *Service {
	return &Service{
		activityRepo: activityRepo,
		store:        store,
		cache:        cache,
		cfg:          cfg,
	}
}

func (s *Service) lockFor(identityKey string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(identityKey, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Get returns the identity's interest profile: cache, then store, then a
// fresh rebuild from history. An identity with no activity gets an empty
// profile, not an error.
func (s *Service) Get(ctx context.Context, identity domain.Identity) (domain.InterestProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.InterestProfile{}, fmt.Errorf("context error: %w", err)
	}

	key := identity.Key()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("profile cache read failed", "identity", key, "error", err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	stored, err := s.store.GetProfile(ctx, key)
	if err != nil {
		return domain.InterestProfile{}, fmt.Errorf("load profile: %w", err)
	}
	if stored != nil {
		s.fillCache(ctx, key, stored)
		return *stored, nil
	}

	return s.Refresh(ctx, identity)
}

// Refresh recomputes the profile from the full activity history and
// persists the result.
func (s *Service) Refresh(ctx context.Context, identity domain.Identity) (domain.InterestProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.InterestProfile{}, fmt.Errorf("context error: %w", err)
	}

	key := identity.Key()
	mu := s.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	history, err := s.activityRepo.FindByIdentity(ctx, key)
	if err != nil {
		return domain.InterestProfile{}, fmt.Errorf("load activity history: %w", err)
	}

	profile := s.cfg.Rebuild(history, time.Now())

	if err := s.store.SaveProfile(ctx, key, &profile); err != nil {
		return domain.InterestProfile{}, fmt.Errorf("save profile: %w", err)
	}
	s.fillCache(ctx, key, &profile)

	logger.Debug("interest profile rebuilt",
		"identity", key,
		"activities", len(history),
		"categories", len(profile.Categories),
		"keywords", len(profile.Keywords),
	)

	return profile, nil
}

// Update folds one new activity into the stored profile without rescanning
// history: existing counters are first decayed up to now, then the new
// contribution is added, keeping the materialization equal to a rebuild at
// now. When no materialized profile exists yet, the full history is rebuilt
// instead; the activity is expected to be persisted already, so it must not
// be folded twice.
func (s *Service) Update(ctx context.Context, identity domain.Identity, act domain.ActivityRecord) (domain.InterestProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.InterestProfile{}, fmt.Errorf("context error: %w", err)
	}

	key := identity.Key()
	mu := s.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	stored, err := s.store.GetProfile(ctx, key)
	if err != nil {
		return domain.InterestProfile{}, fmt.Errorf("load profile: %w", err)
	}

	var profile domain.InterestProfile
	if stored != nil {
		profile = *stored
		s.cfg.Apply(&profile, act, time.Now())
	} else {
		history, err := s.activityRepo.FindByIdentity(ctx, key)
		if err != nil {
			return domain.InterestProfile{}, fmt.Errorf("load activity history: %w", err)
		}
		profile = s.cfg.Rebuild(history, time.Now())
	}

	if err := s.store.SaveProfile(ctx, key, &profile); err != nil {
		return domain.InterestProfile{}, fmt.Errorf("save profile: %w", err)
	}
	s.fillCache(ctx, key, &profile)

	return profile, nil
}

// Purge removes all profile state for the identity (store and cache).
func (s *Service) Purge(ctx context.Context, identity domain.Identity) error {
	key := identity.Key()
	mu := s.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	if err := s.store.DeleteProfile(ctx, key); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, key); err != nil {
			logger.Warn("profile cache invalidate failed", "identity", key, "error", err)
		}
	}
	return nil
}

// PriceTolerance exposes the configured band width for callers that derive
// the preferred range from a profile.
func (s *Service) PriceTolerance() float64 {
	return s.cfg.PriceTolerance
}

func (s *Service) fillCache(ctx context.Context, key string, profile *domain.InterestProfile) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, profile); err != nil {
		logger.Warn("profile cache write failed", "identity", key, "error", err)
	}
}
