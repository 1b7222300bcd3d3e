package seed

import (
	"context"
	"testing"

	"github.com/anonto42/yatube/backend/internal/models"
	"github.com/anonto42/yatube/backend/internal/testutil"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	db := testutil.NewDB(t)
	sum, err := New(db, gofakeit.New(42)).Run(context.Background(), Options{
		Users:           4,
		Groups:          2,
		PostsPerUser:    2,
		CommentsPerPost: 1,
		FollowsPerUser:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Users)
	assert.Equal(t, 2, sum.Groups)
	assert.Equal(t, 8, sum.Posts)
	assert.Equal(t, 8, sum.Comments)
	assert.LessOrEqual(t, sum.Follows, 12)

	var follows int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&follows).Error)
	assert.EqualValues(t, sum.Follows, follows)

	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).Where("user_id = following_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme-corp-1", Slugify("Acme, Corp. 1"))
	assert.Equal(t, "cats", Slugify("  Cats!  "))
}
