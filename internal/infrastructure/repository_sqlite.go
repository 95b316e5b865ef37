package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/yourusername/x-batch-go/internal/domain"
)

// SQLiteAccountRepository implements domain.AccountRepository using SQLite
type SQLiteAccountRepository struct {
	db *gorm.DB
}

// NewSQLiteAccountRepository creates a new SQLite repository
func NewSQLiteAccountRepository(dbPath string) (*SQLiteAccountRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Account{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteAccountRepository{db: db}, nil
}

// Upsert creates an account or updates the existing row with the same username
func (r *SQLiteAccountRepository) Upsert(account *domain.Account) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "profile_image", "total_media", "last_fetched", "response_json",
		}),
	}).Create(account).Error
}

// FindAll returns all saved accounts ordered by group, then most recently fetched
func (r *SQLiteAccountRepository) FindAll() ([]*domain.Account, error) {
	var accounts []*domain.Account
	err := r.db.Order("group_name ASC, last_fetched DESC").Find(&accounts).Error
	return accounts, err
}

// FindByID finds an account by ID
func (r *SQLiteAccountRepository) FindByID(id int64) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByUsername finds an account by username
func (r *SQLiteAccountRepository) FindByUsername(username string) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.First(&account, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Delete deletes an account by ID
func (r *SQLiteAccountRepository) Delete(id int64) error {
	return r.db.Delete(&domain.Account{}, "id = ?", id).Error
}

// DeleteAll removes every saved account
func (r *SQLiteAccountRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&domain.Account{}).Error
}

// UpdateGroup sets the group name and color for an account
func (r *SQLiteAccountRepository) UpdateGroup(id int64, name, color string) error {
	return r.db.Model(&domain.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"group_name": name, "group_color": color}).Error
}

// Groups returns all distinct non-empty groups
func (r *SQLiteAccountRepository) Groups() ([]domain.AccountGroup, error) {
	var groups []domain.AccountGroup
	err := r.db.Model(&domain.Account{}).
		Select("DISTINCT group_name as name, group_color as color").
		Where("group_name != ''").
		Order("group_name").
		Scan(&groups).Error
	return groups, err
}

// Count returns the total number of saved accounts
func (r *SQLiteAccountRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Account{}).Count(&count).Error
	return count, err
}

// Close closes the database connection
func (r *SQLiteAccountRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
