package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/slayerintech/Lovify/internal/domain/errs"
	"github.com/slayerintech/Lovify/internal/domain/model"
)

const (
	defaultBatchSize = 100
	defaultInterval  = 30 * time.Second
)

type Queue interface {
	Pop(ctx context.Context, n int) ([][2]string, error)
	Add(ctx context.Context, likerID, likedID string) error
	Len(ctx context.Context) (int64, error)
}

type Rechecker interface {
	Recheck(ctx context.Context, likerID, likedID string) (model.Match, bool, error)
}

type Stats struct {
	Processed int
	Matched   int
	Requeued  int
	Dropped   int
}

// Job replays match detection for likes whose outcome was left unknown.
type Job struct {
	queue     Queue
	rechecker Rechecker
	batchSize int
	logger    *zap.Logger
}

func New(queue Queue, rechecker Rechecker, batchSize int, logger *zap.Logger) *Job {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{
		queue:     queue,
		rechecker: rechecker,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (j *Job) RunOnce(ctx context.Context) (Stats, error) {
	var stats Stats
	if j.queue == nil || j.rechecker == nil {
		return stats, fmt.Errorf("reconcile dependencies are not configured")
	}

	pairs, err := j.queue.Pop(ctx, j.batchSize)
	if err != nil {
		return stats, fmt.Errorf("pop pending match checks: %w", err)
	}

	var requeue [][2]string
	for _, pair := range pairs {
		stats.Processed++
		likerID, likedID := pair[0], pair[1]

		_, matched, err := j.rechecker.Recheck(ctx, likerID, likedID)
		switch {
		case err == nil:
			if matched {
				stats.Matched++
			}
		case errs.IsTransient(err):
			requeue = append(requeue, pair)
			j.logger.Debug("pending match check still failing",
				zap.String("liker_id", likerID),
				zap.String("liked_id", likedID),
				zap.Error(err),
			)
		default:
			// invalid pairs and missing profiles never resolve on replay
			stats.Dropped++
			j.logger.Warn("drop pending match check",
				zap.String("liker_id", likerID),
				zap.String("liked_id", likedID),
				zap.Error(err),
			)
		}
	}

	for _, pair := range requeue {
		// Detached so a cancelled run still puts popped pairs back.
		addCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		err := j.queue.Add(addCtx, pair[0], pair[1])
		cancel()
		if err != nil {
			j.logger.Error("requeue pending match check",
				zap.String("liker_id", pair[0]),
				zap.String("liked_id", pair[1]),
				zap.Error(err),
			)
			continue
		}
		stats.Requeued++
	}

	if stats.Processed > 0 {
		fields := []zap.Field{
			zap.Int("processed", stats.Processed),
			zap.Int("matched", stats.Matched),
			zap.Int("requeued", stats.Requeued),
			zap.Int("dropped", stats.Dropped),
		}
		if depth, err := j.queue.Len(ctx); err == nil {
			fields = append(fields, zap.Int64("pending", depth))
		}
		j.logger.Info("reconcile pass completed", fields...)
	}
	return stats, nil
}

// Run calls RunOnce every interval until ctx is done. Failed passes are
// logged and retried on the next tick.
func (j *Job) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultInterval
	}

	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Warn("reconcile pass failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := j.RunOnce(ctx); err != nil {
				j.logger.Warn("reconcile pass failed", zap.Error(err))
			}
		}
	}
}
