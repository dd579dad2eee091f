package job

import (
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/pkg/logger"
	"Dreamscape/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	reconcileBatchSize = 200
	reconcileLockTTL   = 30 * time.Minute
)

// Locker 多个 worker 实例只允许一个执行
type Locker interface {
	TryLock(ctx context.Context, key string, value string, expiration time.Duration, retryTimes int) (bool, error)
	UnLock(ctx context.Context, key string, value string)
}

// CounterReconcileJob 按子表行数重算梦境的冗余计数与评分统计
type CounterReconcileJob struct {
	dreamRepo repository.DreamRepo
	locker    Locker
}

func NewCounterReconcileJob(dreamRepo repository.DreamRepo, locker Locker) *CounterReconcileJob {
	return &CounterReconcileJob{
		dreamRepo: dreamRepo,
		locker:    locker,
	}
}

func (s *CounterReconcileJob) Run() {
	ctx := logger.NewTraceContext(context.Background(), "job-counter")

	lockValue := uuid.NewString()
	ok, err := s.locker.TryLock(ctx, consts.CounterReconcileJobLock, lockValue, reconcileLockTTL, 0)
	if err != nil || !ok {
		log.InfoContext(ctx, "counter reconcile skipped, another instance is running")
		return
	}
	defer s.locker.UnLock(ctx, consts.CounterReconcileJobLock, lockValue)

	total, failed := s.Reconcile(ctx)
	log.InfoContext(ctx, "counter reconcile finished", "total", total, "failed", failed)
}

// Reconcile 分批遍历全部梦境，单条失败不影响后续
func (s *CounterReconcileJob) Reconcile(ctx context.Context) (int, int) {
	var afterID uint64
	total, failed := 0, 0
	for {
		ids, err := s.dreamRepo.ListDreamIDs(ctx, afterID, reconcileBatchSize)
		if err != nil {
			log.ErrorContext(ctx, "list dream ids error", "afterID", afterID, "err", err)
			return total, failed
		}
		if len(ids) == 0 {
			return total, failed
		}

		for _, id := range ids {
			if ctx.Err() != nil {
				return total, failed
			}
			total++
			if err = s.dreamRepo.ReconcileCounters(ctx, id); err != nil {
				failed++
				log.WarnContext(ctx, "reconcile dream counters error", "dreamID", id, "err", err)
			}
		}
		afterID = ids[len(ids)-1]
	}
}
