// internal/models/expense.go
package models

import (
	"gorm.io/gorm"
)

type Expense struct {
	gorm.Model
	UserID   uint    `json:"user_id" gorm:"index"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date" gorm:"type:date"` // YYYY-MM-DD
}
