package models

import (
	"time"
)

// User represents the users table
// DB: users
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"column:username;size:255;not null;uniqueIndex:users_username_key" json:"username"`
	Email          *string   `gorm:"column:email;size:255" json:"email,omitempty"`
	FullName       *string   `gorm:"column:full_name;size:255" json:"full_name,omitempty"`
	HashedPassword string    `gorm:"column:hashed_password;size:255;not null" json:"-"`
	Disabled       bool      `gorm:"column:disabled;not null;default:false" json:"disabled"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
