package kafka

import (
	"Dreamscape/internal/model"
	"Dreamscape/internal/pkg/consts"
	"Dreamscape/internal/repository"
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDreamDB struct {
	repository.DreamRepo
	dreams map[uint64]*model.Dream
}

func (f *fakeDreamDB) GetDream(_ context.Context, id uint64) (*model.Dream, error) {
	return f.dreams[id], nil
}

type fakeDreamIndex struct {
	indexed []uint64
	deleted []uint64
	err     error
}

func (f *fakeDreamIndex) IndexDream(_ context.Context, dream *model.Dream) error {
	f.indexed = append(f.indexed, dream.ID)
	return f.err
}

func (f *fakeDreamIndex) DeleteDream(_ context.Context, id uint64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeDreamIndex) SearchDreamIDs(context.Context, string, int, int) ([]uint64, error) {
	return nil, nil
}

func eventMessage(t *testing.T, event *Event) *sarama.ConsumerMessage {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Value: data}
}

func TestSearchSync_FollowsDatabaseState(t *testing.T) {
	db := &fakeDreamDB{dreams: map[uint64]*model.Dream{1: {ID: 1, Title: "kept"}}}
	index := &fakeDreamIndex{}
	h := NewSearchSyncHandler(db, index)
	ctx := context.Background()

	// 更新事件到达时梦境已被删除，按删除处理
	require.NoError(t, h.logic(ctx, eventMessage(t, NewEvent(consts.EventDreamUpdated, 2, 1, 1, nil))))
	require.NoError(t, h.logic(ctx, eventMessage(t, NewEvent(consts.EventDreamCreated, 1, 1, 1, nil))))
	require.NoError(t, h.logic(ctx, eventMessage(t, NewEvent(consts.EventDreamLiked, 1, 2, 1, nil))))

	assert.Equal(t, []uint64{2}, index.deleted)
	assert.Equal(t, []uint64{1}, index.indexed)
}

func TestSearchSync_IndexErrorIsRetried(t *testing.T) {
	db := &fakeDreamDB{dreams: map[uint64]*model.Dream{1: {ID: 1}}}
	h := NewSearchSyncHandler(db, &fakeDreamIndex{err: errors.New("es down")})

	err := h.logic(context.Background(), eventMessage(t, NewEvent(consts.EventDreamCreated, 1, 1, 1, nil)))

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSkipMessage))
}
