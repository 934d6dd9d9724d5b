package repository

import (
	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/pkg/logger"
	"gorm.io/gorm"
)

type TransactionFilter struct {
	BusinessID uint // 0 = tất cả doanh nghiệp
	Status     model.TransactionStatus
	Hidden     *bool // nil = không lọc theo cờ ẩn
}

type DocumentTransactionRepository interface {
	Create(transaction *model.DocumentTransaction) error
	Update(transaction *model.DocumentTransaction) error
	Delete(id uint) error
	FindByID(id uint) (*model.DocumentTransaction, error)
	FindAll(filter TransactionFilter) ([]model.DocumentTransaction, error)
	FindByBusinessID(businessID uint) ([]model.DocumentTransaction, error)
	UpdateNumber(id uint, documentNumber string) error
	UpdatePDF(id uint, filePath, fileName string) error
	UpdateSignedPath(id uint, signedPath string) error
	SetHidden(id uint, hidden bool) error
	DeleteByBusinessID(tx *gorm.DB, businessID uint) error
}

type documentTransactionRepository struct {
	db *gorm.DB
}

func NewDocumentTransactionRepository(db *gorm.DB) DocumentTransactionRepository {
	return &documentTransactionRepository{db: db}
}

func (r *documentTransactionRepository) Create(transaction *model.DocumentTransaction) error {
	logger.Debug("Creating document transaction", map[string]interface{}{
		"business_id":   transaction.BusinessID,
		"document_type": transaction.DocumentType,
	})

	if err := r.db.Create(transaction).Error; err != nil {
		logger.Error("Failed to create document transaction", err, map[string]interface{}{
			"business_id": transaction.BusinessID,
		})
		return err
	}

	logger.Debug("Document transaction created", map[string]interface{}{
		"transaction_id": transaction.ID,
		"business_id":    transaction.BusinessID,
	})
	return nil
}

func (r *documentTransactionRepository) Update(transaction *model.DocumentTransaction) error {
	logger.Debug("Updating document transaction", map[string]interface{}{
		"transaction_id": transaction.ID,
	})

	if err := r.db.Save(transaction).Error; err != nil {
		logger.Error("Failed to update document transaction", err, map[string]interface{}{
			"transaction_id": transaction.ID,
		})
		return err
	}
	return nil
}

func (r *documentTransactionRepository) Delete(id uint) error {
	logger.Debug("Deleting document transaction", map[string]interface{}{
		"transaction_id": id,
	})

	if err := r.db.Delete(&model.DocumentTransaction{}, id).Error; err != nil {
		logger.Error("Failed to delete document transaction", err, map[string]interface{}{
			"transaction_id": id,
		})
		return err
	}
	return nil
}

func (r *documentTransactionRepository) FindByID(id uint) (*model.DocumentTransaction, error) {
	var transaction model.DocumentTransaction
	if err := r.db.First(&transaction, id).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *documentTransactionRepository) FindAll(filter TransactionFilter) ([]model.DocumentTransaction, error) {
	query := r.db.Model(&model.DocumentTransaction{})
	if filter.BusinessID != 0 {
		query = query.Where("business_id = ?", filter.BusinessID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Hidden != nil {
		query = query.Where("is_hidden = ?", *filter.Hidden)
	}

	var transactions []model.DocumentTransaction
	if err := query.Order("delivery_date DESC, id DESC").Find(&transactions).Error; err != nil {
		logger.Error("Failed to find document transactions", err, map[string]interface{}{
			"business_id": filter.BusinessID,
		})
		return nil, err
	}
	return transactions, nil
}

func (r *documentTransactionRepository) FindByBusinessID(businessID uint) ([]model.DocumentTransaction, error) {
	return r.FindAll(TransactionFilter{BusinessID: businessID})
}

func (r *documentTransactionRepository) UpdateNumber(id uint, documentNumber string) error {
	return r.updateColumn(id, "document_number", documentNumber)
}

func (r *documentTransactionRepository) UpdatePDF(id uint, filePath, fileName string) error {
	logger.Debug("Updating transaction PDF", map[string]interface{}{
		"transaction_id": id,
		"file_name":      fileName,
	})

	result := r.db.Model(&model.DocumentTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"pdf_file_path": filePath,
			"pdf_file_name": fileName,
		})
	if result.Error != nil {
		logger.Error("Failed to update transaction PDF", result.Error, map[string]interface{}{
			"transaction_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *documentTransactionRepository) UpdateSignedPath(id uint, signedPath string) error {
	return r.updateColumn(id, "signed_file_path", signedPath)
}

func (r *documentTransactionRepository) SetHidden(id uint, hidden bool) error {
	return r.updateColumn(id, "is_hidden", hidden)
}

func (r *documentTransactionRepository) updateColumn(id uint, column string, value interface{}) error {
	result := r.db.Model(&model.DocumentTransaction{}).
		Where("id = ?", id).
		Update(column, value)
	if result.Error != nil {
		logger.Error("Failed to update transaction column", result.Error, map[string]interface{}{
			"transaction_id": id,
			"column":         column,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByBusinessID xóa toàn bộ giao dịch của doanh nghiệp trong transaction
// tx để cascade đi cùng việc xóa doanh nghiệp (không để sót dòng mồ côi).
func (r *documentTransactionRepository) DeleteByBusinessID(tx *gorm.DB, businessID uint) error {
	db := tx
	if db == nil {
		db = r.db
	}

	if err := db.Where("business_id = ?", businessID).Delete(&model.DocumentTransaction{}).Error; err != nil {
		logger.Error("Failed to delete transactions by business", err, map[string]interface{}{
			"business_id": businessID,
		})
		return err
	}
	return nil
}
