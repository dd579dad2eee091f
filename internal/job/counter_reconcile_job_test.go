package job

import (
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fakeDreamRepo 只实现任务用到的两个方法
type fakeDreamRepo struct {
	repository.DreamRepo
	ids        []uint64
	failOn     map[uint64]bool
	reconciled []uint64
}

func (f *fakeDreamRepo) ListDreamIDs(_ context.Context, afterID uint64, limit int) ([]uint64, error) {
	out := make([]uint64, 0, limit)
	for _, id := range f.ids {
		if id > afterID && len(out) < limit {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeDreamRepo) ReconcileCounters(_ context.Context, id uint64) error {
	f.reconciled = append(f.reconciled, id)
	if f.failOn[id] {
		return errors.New("boom")
	}
	return nil
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) TryLock(ctx context.Context, key string, value string, expiration time.Duration, retryTimes int) (bool, error) {
	args := m.Called(ctx, key, value, expiration, retryTimes)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) UnLock(ctx context.Context, key string, value string) {
	m.Called(ctx, key, value)
}

func TestReconcile_WalksAllBatches(t *testing.T) {
	ids := make([]uint64, 0, 450)
	for i := uint64(1); i <= 450; i++ {
		ids = append(ids, i)
	}
	repo := &fakeDreamRepo{ids: ids, failOn: map[uint64]bool{7: true, 300: true}}

	total, failed := NewCounterReconcileJob(repo, new(MockLocker)).Reconcile(context.Background())

	assert.Equal(t, 450, total)
	assert.Equal(t, 2, failed)
	assert.Equal(t, ids, repo.reconciled)
}

func TestRun_SkipsWhenLocked(t *testing.T) {
	repo := &fakeDreamRepo{ids: []uint64{1}}
	locker := new(MockLocker)
	locker.On("TryLock", mock.Anything, consts.CounterReconcileJobLock, mock.Anything, reconcileLockTTL, 0).Return(false, nil)

	NewCounterReconcileJob(repo, locker).Run()

	assert.Empty(t, repo.reconciled)
	locker.AssertNotCalled(t, "UnLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_ReleasesLock(t *testing.T) {
	repo := &fakeDreamRepo{ids: []uint64{1, 2}}
	locker := new(MockLocker)
	locker.On("TryLock", mock.Anything, consts.CounterReconcileJobLock, mock.Anything, reconcileLockTTL, 0).Return(true, nil)
	locker.On("UnLock", mock.Anything, consts.CounterReconcileJobLock, mock.Anything).Return()

	NewCounterReconcileJob(repo, locker).Run()

	assert.Equal(t, []uint64{1, 2}, repo.reconciled)
	locker.AssertExpectations(t)
}
