package database

import "yatube/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Groups migrate before posts so the foreign key target exists.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Group{},
		&models.Post{},
	}
}
