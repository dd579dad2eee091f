package repository

import (
	"Dreamscape/internal/model"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGetDream_Absent(t *testing.T) {
	db := newTestDB(t)

	dream, err := NewDreamRepo(db).GetDream(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, dream)
}

func TestListDreams_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u1 := seedUser(t, db, "u1")
	u2 := seedUser(t, db, "u2")
	d1 := seedDream(t, db, u1.ID, "one")
	d2 := seedDream(t, db, u2.ID, "two")
	d3 := seedDream(t, db, u1.ID, "three")
	repo := NewDreamRepo(db)

	all, err := repo.ListDreams(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint64{d3.ID, d2.ID, d1.ID}, []uint64{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, u1.ID, all[0].User.ID)

	page, err := repo.ListDreams(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, d2.ID, page[0].ID)

	mine, err := repo.ListDreamsByUser(ctx, u1.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, d3.ID, mine[0].ID)
}

func TestUpdateDream_OnlyGivenFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "u1")
	dream := seedDream(t, db, user.ID, "before")
	repo := NewDreamRepo(db)

	require.NoError(t, repo.UpdateDream(ctx, dream.ID, map[string]any{"title": "after"}))
	require.NoError(t, repo.UpdateDream(ctx, dream.ID, nil))

	stored := reloadDream(t, db, dream.ID)
	assert.Equal(t, "after", stored.Title)
	assert.Equal(t, dream.Content, stored.Content)
}

func TestDeleteDream_Cascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")
	dream := seedDream(t, db, author.ID, "gone")
	other := seedDream(t, db, author.ID, "kept")

	actions := NewDreamActionRepo(db)
	ratings := NewRatingRepo(db)
	for _, d := range []*model.Dream{dream, other} {
		_, _, err := actions.ToggleLike(ctx, viewer.ID, d.ID)
		require.NoError(t, err)
		_, _, err = actions.ToggleFavorite(ctx, viewer.ID, d.ID)
		require.NoError(t, err)
		_, err = actions.CreateComment(ctx, &model.Comment{DreamID: d.ID, UserID: viewer.ID, Content: "hi"})
		require.NoError(t, err)
		_, _, err = ratings.UpsertRating(ctx, viewer.ID, d.ID, 4)
		require.NoError(t, err)
	}
	_, _, err := NewAnalysisRepo(db).CreateIfAbsent(ctx, &model.DreamAnalysis{
		DreamID: dream.ID, Symbolism: "s", EmotionalAnalysis: "e", PsychologicalInsight: "p",
	})
	require.NoError(t, err)

	repo := NewDreamRepo(db)
	require.NoError(t, repo.DeleteDream(ctx, dream.ID))

	gone, err := repo.GetDream(ctx, dream.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	for _, table := range []any{&model.Like{}, &model.Favorite{}, &model.Comment{}, &model.Rating{}, &model.DreamAnalysis{}} {
		var rows int64
		require.NoError(t, db.Model(table).Where("dream_id = ?", dream.ID).Count(&rows).Error)
		assert.Zero(t, rows)
	}

	kept := reloadDream(t, db, other.ID)
	assert.Equal(t, 1, kept.LikesCount)
	assert.Equal(t, 1, kept.FavoritesCount)
	assert.Equal(t, 1, kept.CommentsCount)
	assert.Equal(t, 40, kept.AverageRating)
}

func TestGetTopRated_Order(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	repo := NewDreamRepo(db)

	low := seedDream(t, db, author.ID, "low")
	highFew := seedDream(t, db, author.ID, "high-few")
	highMany := seedDream(t, db, author.ID, "high-many")
	unrated := seedDream(t, db, author.ID, "unrated")
	require.NoError(t, repo.UpdateRatingStats(ctx, low.ID, 20, 5))
	require.NoError(t, repo.UpdateRatingStats(ctx, highFew.ID, 45, 2))
	require.NoError(t, repo.UpdateRatingStats(ctx, highMany.ID, 45, 8))

	top, err := repo.GetTopRated(ctx, 10, nil)
	require.NoError(t, err)
	require.Len(t, top, 4)
	got := []uint64{top[0].ID, top[1].ID, top[2].ID, top[3].ID}
	assert.Equal(t, []uint64{highMany.ID, highFew.ID, low.ID, unrated.ID}, got)

	top, err = repo.GetTopRated(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, highMany.ID, top[0].ID)
}

func TestGetTopRated_Since(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	repo := NewDreamRepo(db)

	old := seedDream(t, db, author.ID, "old")
	recent := seedDream(t, db, author.ID, "recent")
	require.NoError(t, repo.UpdateRatingStats(ctx, old.ID, 50, 9))
	require.NoError(t, repo.UpdateRatingStats(ctx, recent.ID, 30, 1))
	now := time.Now()
	require.NoError(t, db.Model(&model.Dream{}).Where("id = ?", old.ID).
		UpdateColumn("created_at", now.Add(-10*24*time.Hour)).Error)

	since := now.Add(-7 * 24 * time.Hour)
	top, err := repo.GetTopRated(ctx, 10, &since)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, recent.ID, top[0].ID)

	since = now.Add(-30 * 24 * time.Hour)
	top, err = repo.GetTopRated(ctx, 10, &since)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, old.ID, top[0].ID)
}

func TestReconcileCounters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")
	dream := seedDream(t, db, author.ID, "drift")

	_, _, err := NewDreamActionRepo(db).ToggleLike(ctx, viewer.ID, dream.ID)
	require.NoError(t, err)
	_, _, err = NewRatingRepo(db).UpsertRating(ctx, viewer.ID, dream.ID, 3)
	require.NoError(t, err)

	// 人为制造计数漂移
	require.NoError(t, db.Model(&model.Dream{}).Where("id = ?", dream.ID).UpdateColumns(map[string]any{
		CounterLikes:     9,
		CounterComments:  4,
		"average_rating": 0,
	}).Error)

	repo := NewDreamRepo(db)
	require.NoError(t, repo.ReconcileCounters(ctx, dream.ID))

	stored := reloadDream(t, db, dream.ID)
	assert.Equal(t, 1, stored.LikesCount)
	assert.Equal(t, 0, stored.CommentsCount)
	assert.Equal(t, 30, stored.AverageRating)
	assert.Equal(t, 1, stored.RatingCount)

	ids, err := repo.ListDreamIDs(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{dream.ID}, ids)
	ids, err = repo.ListDreamIDs(ctx, dream.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDecrCounter_ClampsAtZero(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "u1")
	dream := seedDream(t, db, user.ID, "zero")
	repo := NewDreamRepo(db)

	require.NoError(t, repo.DecrLikes(ctx, dream.ID))
	require.NoError(t, repo.DecrComments(ctx, dream.ID))
	require.NoError(t, repo.IncrFavorites(ctx, dream.ID))
	require.NoError(t, repo.DecrFavorites(ctx, dream.ID))
	require.NoError(t, repo.DecrFavorites(ctx, dream.ID))

	stored := reloadDream(t, db, dream.ID)
	assert.Zero(t, stored.LikesCount)
	assert.Zero(t, stored.CommentsCount)
	assert.Zero(t, stored.FavoritesCount)
}

func TestDecrCounter_MySQLStatement(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `dreams` SET `likes_count`=CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END WHERE id = ?")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewDreamRepo(db).DecrLikes(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
