package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"` // "developer", "admin", "team_lead", "member", "user"
}
