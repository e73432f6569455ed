package localstore

import (
	"context"
	"errors"
	"time"

	"ai-flashcard-be/pkg/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type localItem struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (localItem) TableName() string {
	return "local_items"
}

// SQLiteStore is a string key to string value store in a local sqlite file.
type SQLiteStore struct {
	db *gorm.DB
}

func Open(path string) (*SQLiteStore, error) {
	db, err := database.NewSQLiteDB(path)
	if err != nil {
		return nil, err
	}
	return New(db)
}

func New(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&localItem{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	var item localItem
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return item.Value, true, nil
}

func (s *SQLiteStore) SetItem(ctx context.Context, key, value string) error {
	item := localItem{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
}

func (s *SQLiteStore) RemoveItem(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&localItem{}).Error
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
