package repository

import (
	"Dreamscape/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepo(db)

	name := "Alice"
	created, err := repo.UpsertUser(ctx, &model.User{
		OpenID: "open-1", Name: &name, Role: model.RoleUser, LastSignedIn: time.Now(),
	}, []string{"last_signed_in", "updated_at", "name"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	renamed := "Alicia"
	updated, err := repo.UpsertUser(ctx, &model.User{
		OpenID: "open-1", Name: &renamed, Role: model.RoleAdmin, LastSignedIn: time.Now(),
	}, []string{"last_signed_in", "updated_at", "name"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	require.NotNil(t, updated.Name)
	assert.Equal(t, "Alicia", *updated.Name)
	// role 不在更新列中
	assert.Equal(t, model.RoleUser, updated.Role)

	users, err := repo.GetUserByIds(ctx, []uint64{created.ID, 999})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	missing, err := repo.GetUserById(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
