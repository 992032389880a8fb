package service

import (
	"context"
	"testing"

	"anoa.com/neoboard/internal/entity"
	userRepo "anoa.com/neoboard/internal/modules/user/repository"
	"anoa.com/neoboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLeaderboard(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	testutil.CreateUser(t, db, "quiet")
	busy := testutil.CreateUser(t, db, "busy")
	some := testutil.CreateUser(t, db, "some")
	anon := testutil.CreateUser(t, db, "Anonymous_1")

	require.NoError(t, db.Model(&entity.User{}).Where("id = ?", busy.ID).Update("post_count", 9).Error)
	require.NoError(t, db.Model(&entity.User{}).Where("id = ?", some.ID).Update("post_count", 3).Error)
	require.NoError(t, db.Model(&entity.User{}).Where("id = ?", anon.ID).
		Updates(map[string]any{"post_count": 50, "is_anonymous": true}).Error)

	svc := NewLeaderboardService(userRepo.NewUserRepository(db))

	entries, err := svc.GetLeaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Position)
	assert.Equal(t, "busy", entries[0].User.Username)
	assert.Equal(t, 9, entries[0].User.PostCount)
	assert.Equal(t, "some", entries[1].User.Username)
	assert.Empty(t, entries[0].User.Email)

	entries, err = svc.GetLeaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

}
