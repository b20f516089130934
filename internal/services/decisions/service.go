package decisions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/slayerintech/Lovify/internal/domain/enums"
	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

type Store interface {
	GetDecision(ctx context.Context, deciderID, candidateID string) (model.Decision, error)
	PutDecision(ctx context.Context, d model.Decision) error
}

type Config struct {
	StoreTimeout time.Duration
}

type Service struct {
	store Store
	cfg   Config
	now   func() time.Time
}

func NewService(store Store, cfg Config) *Service {
	return &Service{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// RecordDecision upserts the decision for the ordered pair. Repeating the call
// leaves one stored decision carrying the latest timestamp.
func (s *Service) RecordDecision(ctx context.Context, deciderID, candidateID string, typ enums.DecisionType) (model.Decision, error) {
	deciderID = strings.TrimSpace(deciderID)
	candidateID = strings.TrimSpace(candidateID)
	switch {
	case deciderID == "" || candidateID == "":
		return model.Decision{}, errs.Invalid("decider and candidate ids are required")
	case deciderID == candidateID:
		return model.Decision{}, errs.Invalid("cannot decide on yourself")
	case !typ.Valid():
		return model.Decision{}, errs.Invalid(fmt.Sprintf("unknown decision type %q", typ))
	}
	if s.store == nil {
		return model.Decision{}, errs.Transient("record decision", fmt.Errorf("decision store is nil"))
	}

	d := model.Decision{
		DeciderID:   deciderID,
		CandidateID: candidateID,
		Type:        typ,
		CreatedAt:   s.now().UTC(),
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.store.PutDecision(ctx, d); err != nil {
		if errs.IsTransient(err) {
			return model.Decision{}, fmt.Errorf("record decision: %w", err)
		}
		return model.Decision{}, errs.Transient("record decision", err)
	}
	return d, nil
}

func (s *Service) GetDecision(ctx context.Context, deciderID, candidateID string) (model.Decision, error) {
	if strings.TrimSpace(deciderID) == "" || strings.TrimSpace(candidateID) == "" {
		return model.Decision{}, errs.Invalid("decider and candidate ids are required")
	}
	if s.store == nil {
		return model.Decision{}, errs.Transient("get decision", fmt.Errorf("decision store is nil"))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.store.GetDecision(ctx, deciderID, candidateID)
	switch {
	case err == nil:
		return d, nil
	case errors.Is(err, errs.ErrNotFound):
		return model.Decision{}, err
	case errs.IsTransient(err):
		return model.Decision{}, fmt.Errorf("get decision: %w", err)
	default:
		return model.Decision{}, errs.Transient("get decision", err)
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.StoreTimeout)
}
