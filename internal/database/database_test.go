package database

import (
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectTest_AppliesSchema(t *testing.T) {
	db, err := ConnectTest()
	require.NoError(t, err)

	for _, model := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(model), "expected table for %T", model)
	}

	// Posts reference users and optionally groups.
	group := models.Group{Title: "Тестовая группа", Slug: "test-group", Description: "demo"}
	require.NoError(t, db.Create(&group).Error)

	user := models.User{Username: "auth", Email: "auth@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	post := models.Post{Text: "Новый пост", UserID: user.ID, GroupID: &group.ID}
	require.NoError(t, db.Create(&post).Error)

	var loaded models.Post
	require.NoError(t, db.Preload("User").Preload("Group").First(&loaded, post.ID).Error)
	assert.Equal(t, "auth", loaded.User.Username)
	require.NotNil(t, loaded.Group)
	assert.Equal(t, "test-group", loaded.Group.Slug)
}
