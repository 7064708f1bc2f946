package database

import (
	"go-subscout/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// settingsKey is the single key the form settings are stored under.
const settingsKey = "settings"

// SettingsDB is a flat key/value row holding a JSON encoded settings record.
type SettingsDB struct {
	gorm.Model
	Key   string                              `gorm:"column:key;uniqueIndex;not null"`
	Value datatypes.JSONType[models.Settings] `gorm:"column:value"`
}

// TableName overrides the default table name.
func (SettingsDB) TableName() string {
	return "settings"
}
