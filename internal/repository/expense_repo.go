package repository

import (
	"errors"

	"gorm.io/gorm"

	"bustracker/internal/models"
)

type ExpenseRepository interface {
	// ListByUserPage returns one page ordered by date descending plus the
	// total row count for the user.
	ListByUserPage(userID uint, page, perPage int) ([]models.Expense, int64, error)
	ListByUser(userID uint) ([]models.Expense, error)
	ListByUserAndDates(userID uint, dates []string) ([]models.Expense, error)
	FindByID(id uint) (*models.Expense, error)
	Create(expense *models.Expense) error
	Save(expense *models.Expense) error
	Delete(id uint) error
}

type gormExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &gormExpenseRepository{db: db}
}

func (r *gormExpenseRepository) ListByUserPage(userID uint, page, perPage int) ([]models.Expense, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := r.db.Model(&models.Expense{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []models.Expense
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&expenses).Error
	return expenses, total, err
}

func (r *gormExpenseRepository) ListByUser(userID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.Where("user_id = ?", userID).Find(&expenses).Error
	return expenses, err
}

func (r *gormExpenseRepository) ListByUserAndDates(userID uint, dates []string) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.Where("user_id = ? AND date IN ?", userID, dates).Find(&expenses).Error
	return expenses, err
}

func (r *gormExpenseRepository) FindByID(id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (r *gormExpenseRepository) Create(expense *models.Expense) error {
	return r.db.Create(expense).Error
}

func (r *gormExpenseRepository) Save(expense *models.Expense) error {
	return r.db.Save(expense).Error
}

func (r *gormExpenseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Expense{}, id).Error
}
