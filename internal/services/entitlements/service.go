package entitlements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

// Store is the slice of the profile store premium state lives on.
type Store interface {
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	UpsertProfile(ctx context.Context, p model.Profile) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// IsPremium reports the profile's premium flag. Users without a profile are
// treated as free.
func (s *Service) IsPremium(ctx context.Context, userID string) (bool, error) {
	ent, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return ent.IsPremium, nil
}

func (s *Service) Get(ctx context.Context, userID string) (model.Entitlement, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.Entitlement{}, errs.Invalid("user id is required")
	}
	if s.store == nil {
		return model.Entitlement{}, errs.Transient("get entitlement", fmt.Errorf("entitlement store is nil"))
	}

	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return model.Entitlement{UserID: userID}, nil
	}
	if err != nil {
		return model.Entitlement{}, errs.Transient("get entitlement", err)
	}
	return model.Entitlement{
		UserID:       userID,
		IsPremium:    p.IsPremium,
		PremiumSince: p.PremiumSince,
	}, nil
}

// SetPremium syncs the purchase state reported by the store SDK. Upgrading
// keeps an existing PremiumSince; cancelling clears it.
func (s *Service) SetPremium(ctx context.Context, userID string, premium bool) (model.Entitlement, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.Entitlement{}, errs.Invalid("user id is required")
	}
	if s.store == nil {
		return model.Entitlement{}, errs.Transient("set premium", fmt.Errorf("entitlement store is nil"))
	}

	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return model.Entitlement{}, errs.ErrPreconditionNotMet
	}
	if err != nil {
		return model.Entitlement{}, errs.Transient("set premium", err)
	}

	now := s.now().UTC()
	switch {
	case premium && !p.IsPremium:
		p.IsPremium = true
		p.PremiumSince = &now
	case premium:
		if p.PremiumSince == nil {
			p.PremiumSince = &now
		}
	default:
		p.IsPremium = false
		p.PremiumSince = nil
	}
	p.UpdatedAt = now

	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return model.Entitlement{}, errs.Transient("set premium", err)
	}
	return model.Entitlement{
		UserID:       userID,
		IsPremium:    p.IsPremium,
		PremiumSince: p.PremiumSince,
	}, nil
}
