package db

import (
	"errors"

	"github.com/minhvt/hosodoc-backend/config"
	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/pkg/logger"
	"github.com/minhvt/hosodoc-backend/pkg/util"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Business{},
		&model.BusinessAccount{},
		&model.DocumentTransaction{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedAdmin đảm bảo tài khoản admin cố định tồn tại trong bảng users.
// Mật khẩu lấy từ cấu hình, hash bằng bcrypt trước khi lưu.
func SeedAdmin(cfg *config.AuthConfig) error {
	var existing model.User
	err := DB.Where("username = ?", cfg.AdminUsername).First(&existing).Error
	if err == nil {
		logger.Info("Admin account already seeded, skipping...", map[string]interface{}{
			"username": cfg.AdminUsername,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(cfg.AdminPassword)
	if err != nil {
		logger.Error("Failed to hash admin password", err)
		return err
	}

	admin := &model.User{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		DisplayName:  "Quản trị viên",
		Role:         model.RoleAdmin,
	}
	if err := DB.Create(admin).Error; err != nil {
		logger.Error("Failed to seed admin account", err, map[string]interface{}{
			"username": cfg.AdminUsername,
		})
		return err
	}

	logger.Info("Admin account seeded successfully", map[string]interface{}{
		"username": cfg.AdminUsername,
	})
	return nil
}
