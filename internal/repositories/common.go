package repositories

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// isDuplicateKeyError recognises unique violations, translated or not
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "23505")
}

// updateRow writes every column of model except created_at and reports
// whether a row with that primary key existed
func updateRow(db *gorm.DB, model interface{}) (bool, error) {
	result := db.Model(model).Select("*").Omit("CreatedAt", clause.Associations).Updates(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// setActive flips the soft-delete flag without running model hooks
func setActive(db *gorm.DB, model interface{}, id uuid.UUID, active bool) (bool, error) {
	result := db.Model(model).Where("id = ?", id).UpdateColumns(map[string]interface{}{
		"active":     active,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func deleteRow(db *gorm.DB, model interface{}, id uuid.UUID) (bool, error) {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func activeScope(includeInactive bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if includeInactive {
			return db
		}
		return db.Where("active = ?", true)
	}
}
