package repository

import (
	"Dreamscape/internal/model"
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 单连接内存库，每个用例独立
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Dream{},
		&model.Like{},
		&model.Favorite{},
		&model.Comment{},
		&model.DreamAnalysis{},
		&model.Rating{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, openID string) *model.User {
	t.Helper()
	user := &model.User{OpenID: openID, Role: model.RoleUser, LastSignedIn: time.Now()}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedDream(t *testing.T, db *gorm.DB, userID uint64, title string) *model.Dream {
	t.Helper()
	dream := &model.Dream{
		UserID:    userID,
		Title:     title,
		Content:   "flying over a silent city",
		DreamDate: time.Now(),
	}
	require.NoError(t, NewDreamRepo(db).CreateDream(context.Background(), dream))
	return dream
}

func reloadDream(t *testing.T, db *gorm.DB, id uint64) *model.Dream {
	t.Helper()
	dream, err := NewDreamRepo(db).GetDream(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, dream)
	return dream
}
