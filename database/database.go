package database

import (
	"errors"
	"fmt"

	"go-subscout/models"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB defines the database instance containing the
// connection to the SQLite type database.
type DB struct {
	conn *gorm.DB
}

// New returns a new *DB instance stored at path.
func New(path string) (*DB, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	db := &DB{conn: conn}

	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// Migrate migrates the current database structures.
func (db *DB) Migrate() error {
	return db.conn.AutoMigrate(&SettingsDB{})
}

// SaveSettings stores s as the last used settings.
func (db *DB) SaveSettings(s models.Settings) error {
	var row SettingsDB
	if err := db.conn.FirstOrCreate(&row, SettingsDB{Key: settingsKey}).Error; err != nil {
		return err
	}
	row.Value = datatypes.NewJSONType(s)
	return db.conn.Save(&row).Error
}

// FetchSettings fetches the last used settings. The boolean is false when
// nothing was saved yet, in which case the defaults are returned.
func (db *DB) FetchSettings() (models.Settings, bool, error) {
	var row SettingsDB
	err := db.conn.Where(&SettingsDB{Key: settingsKey}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(), false, nil
	}
	if err != nil {
		return models.DefaultSettings(), false, err
	}
	return row.Value.Data(), true, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	sqlDB, err := db.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
