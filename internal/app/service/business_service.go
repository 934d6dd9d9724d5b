package service

import (
	"errors"

	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/app/repository"
	"github.com/minhvt/hosodoc-backend/internal/events"
	"github.com/minhvt/hosodoc-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBusinessNotFound       = errors.New("không tìm thấy doanh nghiệp")
	ErrTaxIDAlreadyExists     = errors.New("mã số thuế đã tồn tại")
	ErrDeletePasswordMismatch = errors.New("mật khẩu xóa không đúng")
)

type BusinessService interface {
	CreateBusiness(business *model.Business, account *model.BusinessAccount) (*model.Business, error)
	UpdateBusiness(id uint, updated *model.Business) (*model.Business, error)
	DeleteBusiness(id uint, password string) error
	GetBusiness(id uint) (*model.Business, error)
	ListBusinesses(filter repository.BusinessFilter) (*repository.BusinessListResult, error)
	GetBusinessAccount(businessID uint) (*model.BusinessAccount, error)
	UpsertBusinessAccount(businessID uint, account *model.BusinessAccount) error
}

type businessService struct {
	db             *gorm.DB
	businessRepo   repository.BusinessRepository
	accountRepo    repository.BusinessAccountRepository
	txRepo         repository.DocumentTransactionRepository
	hub            *events.Hub
	deletePassword string
}

func NewBusinessService(
	db *gorm.DB,
	businessRepo repository.BusinessRepository,
	accountRepo repository.BusinessAccountRepository,
	txRepo repository.DocumentTransactionRepository,
	hub *events.Hub,
	deletePassword string,
) BusinessService {
	return &businessService{
		db:             db,
		businessRepo:   businessRepo,
		accountRepo:    accountRepo,
		txRepo:         txRepo,
		hub:            hub,
		deletePassword: deletePassword,
	}
}

// CreateBusiness tạo doanh nghiệp rồi ghi tài khoản cổng bằng round trip
// thứ hai. Hai bước cố ý không gói trong một transaction: hồ sơ doanh nghiệp
// phải được giữ lại kể cả khi bước ghi tài khoản thất bại.
func (s *businessService) CreateBusiness(business *model.Business, account *model.BusinessAccount) (*model.Business, error) {
	logger.Info("Creating business", map[string]interface{}{
		"name":   business.Name,
		"tax_id": business.TaxID,
	})

	existing, err := s.businessRepo.FindByTaxID(business.TaxID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing tax ID", err, map[string]interface{}{
			"tax_id": business.TaxID,
		})
		return nil, err
	}
	if existing != nil {
		logger.Warn("Create business failed: tax ID already exists", map[string]interface{}{
			"tax_id":      business.TaxID,
			"business_id": existing.ID,
		})
		return nil, ErrTaxIDAlreadyExists
	}

	if err := s.businessRepo.Create(business); err != nil {
		return nil, err
	}

	if account != nil {
		account.BusinessID = business.ID
		if err := s.accountRepo.Upsert(account); err != nil {
			// doanh nghiệp đã tạo xong, lỗi tài khoản chỉ ghi log
			logger.Error("Business created but account write failed", err, map[string]interface{}{
				"business_id": business.ID,
			})
		}
	}

	s.publish(events.EventBusinessCreated, business.ID)

	logger.Info("Business created successfully", map[string]interface{}{
		"business_id": business.ID,
		"tax_id":      business.TaxID,
	})
	return business, nil
}

// UpdateBusiness gộp thay đổi vào bản ghi hiện có rồi lưu lại nguyên con
func (s *businessService) UpdateBusiness(id uint, updated *model.Business) (*model.Business, error) {
	existing, err := s.businessRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	// đổi mã số thuế phải kiểm tra trùng trước
	if updated.TaxID != "" && updated.TaxID != existing.TaxID {
		other, err := s.businessRepo.FindByTaxID(updated.TaxID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if other != nil {
			return nil, ErrTaxIDAlreadyExists
		}
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if updated.TaxID == "" {
		updated.TaxID = existing.TaxID
	}
	if updated.Name == "" {
		updated.Name = existing.Name
	}

	if err := s.businessRepo.Update(updated); err != nil {
		return nil, err
	}

	s.publish(events.EventBusinessUpdated, id)

	logger.Info("Business updated successfully", map[string]interface{}{
		"business_id": id,
	})
	return updated, nil
}

// DeleteBusiness xóa doanh nghiệp cùng tài khoản và toàn bộ giao dịch hồ sơ
// trong một transaction. Yêu cầu đúng mật khẩu xóa dùng chung.
func (s *businessService) DeleteBusiness(id uint, password string) error {
	if password != s.deletePassword {
		logger.Warn("Delete business denied: wrong password", map[string]interface{}{
			"business_id": id,
		})
		return ErrDeletePasswordMismatch
	}

	if _, err := s.businessRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.txRepo.DeleteByBusinessID(tx, id); err != nil {
			return err
		}
		if err := tx.Where("business_id = ?", id).Delete(&model.BusinessAccount{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Business{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete business", err, map[string]interface{}{
			"business_id": id,
		})
		return err
	}

	s.publish(events.EventBusinessDeleted, id)

	logger.Info("Business deleted successfully", map[string]interface{}{
		"business_id": id,
	})
	return nil
}

func (s *businessService) GetBusiness(id uint) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

func (s *businessService) ListBusinesses(filter repository.BusinessFilter) (*repository.BusinessListResult, error) {
	return s.businessRepo.FindAll(filter)
}

func (s *businessService) GetBusinessAccount(businessID uint) (*model.BusinessAccount, error) {
	account, err := s.accountRepo.FindByBusinessID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *businessService) UpsertBusinessAccount(businessID uint, account *model.BusinessAccount) error {
	if _, err := s.businessRepo.FindByID(businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}

	account.BusinessID = businessID
	if err := s.accountRepo.Upsert(account); err != nil {
		return err
	}

	s.publish(events.EventBusinessUpdated, businessID)
	return nil
}

func (s *businessService) publish(eventType string, businessID uint) {
	if s.hub != nil {
		s.hub.Publish(eventType, businessID, businessID)
	}
}
