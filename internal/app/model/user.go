package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // loại người dùng

const (
	RoleAdmin    UserRole = "admin"    // quản trị viên (tài khoản cố định)
	RoleEmployee UserRole = "employee" // nhân viên (mật khẩu chung, không có bản ghi riêng)
)

// User tài khoản đăng nhập. Thực tế chỉ có admin được lưu trong bảng;
// nhân viên xác thực bằng mật khẩu chung cấu hình sẵn.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	DisplayName  string         `json:"display_name"`
	Role         UserRole       `gorm:"type:varchar(20);default:'employee'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
