package models

import "time"

// Roles assignable to platform users. Admins manage the back-office;
// everyone else is a regular user.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// UserModel represents a back-office account.
type UserModel struct {
	Base
	Username      string     `json:"username"        gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Password      string     `json:"-"               gorm:"not null"`
	Mail          string     `json:"mail"`
	Role          string     `json:"role"            gorm:"default:USER;index"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// IsAdmin reports whether the user holds the ADMIN role.
func (u UserModel) IsAdmin() bool { return u.Role == RoleAdmin }
