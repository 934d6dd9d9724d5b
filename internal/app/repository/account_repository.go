package repository

import (
	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/pkg/logger"
	"gorm.io/gorm"
)

type BusinessAccountRepository interface {
	Upsert(account *model.BusinessAccount) error
	FindByBusinessID(businessID uint) (*model.BusinessAccount, error)
	DeleteByBusinessID(businessID uint) error
}

type businessAccountRepository struct {
	db *gorm.DB
}

func NewBusinessAccountRepository(db *gorm.DB) BusinessAccountRepository {
	return &businessAccountRepository{db: db}
}

// Upsert ghi đè dòng tài khoản mới nhất của doanh nghiệp nếu đã có,
// chưa có thì tạo mới. Quan hệ 1:1 chỉ theo quy ước nên luôn nhắm vào
// dòng được cập nhật gần nhất.
func (r *businessAccountRepository) Upsert(account *model.BusinessAccount) error {
	logger.Debug("Upserting business account", map[string]interface{}{
		"business_id": account.BusinessID,
	})

	var existing model.BusinessAccount
	err := r.db.Where("business_id = ?", account.BusinessID).
		Order("updated_at DESC").
		First(&existing).Error
	if err == nil {
		account.ID = existing.ID
		account.CreatedAt = existing.CreatedAt
		if saveErr := r.db.Save(account).Error; saveErr != nil {
			logger.Error("Failed to update business account", saveErr, map[string]interface{}{
				"business_id": account.BusinessID,
				"account_id":  existing.ID,
			})
			return saveErr
		}
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		logger.Error("Failed to look up business account", err, map[string]interface{}{
			"business_id": account.BusinessID,
		})
		return err
	}

	if createErr := r.db.Create(account).Error; createErr != nil {
		logger.Error("Failed to create business account", createErr, map[string]interface{}{
			"business_id": account.BusinessID,
		})
		return createErr
	}

	logger.Debug("Business account created", map[string]interface{}{
		"business_id": account.BusinessID,
		"account_id":  account.ID,
	})
	return nil
}

// FindByBusinessID trả về dòng mới nhất; không tìm thấy trả về gorm.ErrRecordNotFound
func (r *businessAccountRepository) FindByBusinessID(businessID uint) (*model.BusinessAccount, error) {
	var account model.BusinessAccount
	err := r.db.Where("business_id = ?", businessID).
		Order("updated_at DESC").
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *businessAccountRepository) DeleteByBusinessID(businessID uint) error {
	logger.Debug("Deleting business accounts", map[string]interface{}{
		"business_id": businessID,
	})

	if err := r.db.Where("business_id = ?", businessID).Delete(&model.BusinessAccount{}).Error; err != nil {
		logger.Error("Failed to delete business accounts", err, map[string]interface{}{
			"business_id": businessID,
		})
		return err
	}
	return nil
}
