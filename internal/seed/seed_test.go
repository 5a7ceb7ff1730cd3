package seed

import (
	"testing"

	"yatube/internal/database"
	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	db, err := database.ConnectTest()
	require.NoError(t, err)

	err = Seed(db, Options{
		NumUsers:   3,
		NumGroups:  2,
		NumPosts:   12,
		SkipBcrypt: true,
		MaxDays:    7,
	})
	require.NoError(t, err)

	var userCount, groupCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groupCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)

	assert.Equal(t, int64(3), userCount)
	assert.Equal(t, int64(2), groupCount)
	assert.Equal(t, int64(12), postCount)

	// Every post must reference an existing author.
	var orphan int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("user_id NOT IN (?)", db.Model(&models.User{}).Select("id")).
		Count(&orphan).Error)
	assert.Equal(t, int64(0), orphan)
}

func TestSeed_CleanRemovesOldData(t *testing.T) {
	db, err := database.ConnectTest()
	require.NoError(t, err)

	require.NoError(t, Seed(db, Options{NumUsers: 1, NumPosts: 2, SkipBcrypt: true}))
	require.NoError(t, Seed(db, Options{NumUsers: 2, NumPosts: 3, SkipBcrypt: true, ShouldClean: true}))

	var userCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(2), userCount)
	assert.Equal(t, int64(3), postCount)
}

func TestFactory_BuildPost(t *testing.T) {
	db, err := database.ConnectTest()
	require.NoError(t, err)

	factory := NewFactory(db, Options{SkipBcrypt: true, MaxDays: 30})
	user, err := factory.CreateUser()
	require.NoError(t, err)
	group, err := factory.CreateGroup()
	require.NoError(t, err)

	grouped := factory.BuildPost(user, group)
	assert.Equal(t, user.ID, grouped.UserID)
	require.NotNil(t, grouped.GroupID)
	assert.Equal(t, group.ID, *grouped.GroupID)
	assert.NotEmpty(t, grouped.Text)

	ungrouped := factory.BuildPost(user, nil)
	assert.Nil(t, ungrouped.GroupID)
}
