package service

import (
	"errors"
	"strings"
	"time"

	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/app/repository"
	"github.com/minhvt/hosodoc-backend/internal/events"
	"github.com/minhvt/hosodoc-backend/pkg/logger"
	"github.com/minhvt/hosodoc-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("không tìm thấy giao dịch hồ sơ")
	ErrInvalidTransaction  = errors.New("dữ liệu giao dịch hồ sơ không hợp lệ")
)

// TransactionInput dữ liệu tạo/cập nhật giao dịch bàn giao hồ sơ.
// Details là danh sách dòng nhập thô từ client; documentType chỉ dùng khi
// không có dòng chi tiết nào (dữ liệu kiểu cũ, nhập tự do).
type TransactionInput struct {
	BusinessID       uint
	DocumentNumber   string
	DocumentType     string
	Details          []model.DetailLine
	DeliveryCompany  string
	DeliveryPerson   string
	ReceivingCompany string
	ReceivingPerson  string
	DeliveryDate     time.Time
	ReceivingDate    *time.Time
	HandledBy        string
	Notes            string
	Status           model.TransactionStatus
	ExtraFiles       []string
}

type TransactionService interface {
	CreateTransaction(input TransactionInput) (*model.DocumentTransaction, error)
	UpdateTransaction(id uint, input TransactionInput) (*model.DocumentTransaction, error)
	UpdateDocumentNumber(id uint, documentNumber string) error
	AttachPDF(id uint, filePath, fileName string) error
	AttachSignedFile(id uint, signedPath string) error
	HideTransaction(id uint, hidden bool) error
	DeleteTransaction(id uint, password string) error
	GetTransaction(id uint) (*model.DocumentTransaction, error)
	ListTransactions(filter repository.TransactionFilter) ([]model.DocumentTransaction, error)
	ListByBusiness(businessID uint) ([]model.DocumentTransaction, error)
}

type transactionService struct {
	txRepo         repository.DocumentTransactionRepository
	businessRepo   repository.BusinessRepository
	hub            *events.Hub
	deletePassword string
}

func NewTransactionService(
	txRepo repository.DocumentTransactionRepository,
	businessRepo repository.BusinessRepository,
	hub *events.Hub,
	deletePassword string,
) TransactionService {
	return &transactionService{
		txRepo:         txRepo,
		businessRepo:   businessRepo,
		hub:            hub,
		deletePassword: deletePassword,
	}
}

// CreateTransaction là ranh giới validate duy nhất của chi tiết hồ sơ:
// số lượng được ép về >=1 và mô tả tổng hợp luôn sinh phía server.
func (s *transactionService) CreateTransaction(input TransactionInput) (*model.DocumentTransaction, error) {
	logger.Info("Creating document transaction", map[string]interface{}{
		"business_id": input.BusinessID,
		"detail_rows": len(input.Details),
	})

	transaction, err := s.buildTransaction(input)
	if err != nil {
		return nil, err
	}

	if transaction.DocumentNumber == "" {
		transaction.DocumentNumber = util.GenerateDocumentNumber(time.Now())
	}
	if transaction.Status == "" {
		transaction.Status = model.TransactionPending
	}

	if err := s.txRepo.Create(transaction); err != nil {
		return nil, err
	}

	s.publish(events.EventTransactionCreated, transaction)

	logger.Info("Document transaction created successfully", map[string]interface{}{
		"transaction_id": transaction.ID,
		"business_id":    transaction.BusinessID,
	})
	return transaction, nil
}

func (s *transactionService) UpdateTransaction(id uint, input TransactionInput) (*model.DocumentTransaction, error) {
	existing, err := s.findTransaction(id)
	if err != nil {
		return nil, err
	}

	input.BusinessID = existing.BusinessID
	updated, err := s.buildTransaction(input)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.PdfFilePath = existing.PdfFilePath
	updated.PdfFileName = existing.PdfFileName
	updated.SignedFilePath = existing.SignedFilePath
	updated.IsHidden = existing.IsHidden
	if updated.DocumentNumber == "" {
		updated.DocumentNumber = existing.DocumentNumber
	}
	if updated.Status == "" {
		updated.Status = existing.Status
	}

	if err := s.txRepo.Update(updated); err != nil {
		return nil, err
	}

	s.publish(events.EventTransactionUpdated, updated)

	logger.Info("Document transaction updated successfully", map[string]interface{}{
		"transaction_id": id,
	})
	return updated, nil
}

// buildTransaction validate input và dựng bản ghi. Có dòng chi tiết thì
// documentType là mô tả tổng hợp dẫn xuất; không có thì giữ nguyên text.
func (s *transactionService) buildTransaction(input TransactionInput) (*model.DocumentTransaction, error) {
	if input.BusinessID == 0 {
		return nil, ErrInvalidTransaction
	}
	if input.DeliveryDate.IsZero() {
		logger.Warn("Transaction rejected: missing delivery date", map[string]interface{}{
			"business_id": input.BusinessID,
		})
		return nil, ErrInvalidTransaction
	}

	if _, err := s.businessRepo.FindByID(input.BusinessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	transaction := &model.DocumentTransaction{
		BusinessID:       input.BusinessID,
		DocumentNumber:   strings.TrimSpace(input.DocumentNumber),
		DeliveryCompany:  input.DeliveryCompany,
		DeliveryPerson:   input.DeliveryPerson,
		ReceivingCompany: input.ReceivingCompany,
		ReceivingPerson:  input.ReceivingPerson,
		DeliveryDate:     input.DeliveryDate,
		ReceivingDate:    input.ReceivingDate,
		HandledBy:        input.HandledBy,
		Notes:            input.Notes,
		Status:           input.Status,
		ExtraFiles:       input.ExtraFiles,
	}

	if len(input.Details) > 0 {
		details, order := model.BuildDocumentDetails(input.Details)
		if len(details) == 0 {
			return nil, ErrInvalidTransaction
		}
		transaction.DocumentDetails = details
		transaction.DocumentType = model.SummarizeDetails(details, order)
	} else {
		transaction.DocumentType = strings.TrimSpace(input.DocumentType)
		if transaction.DocumentType == "" {
			return nil, ErrInvalidTransaction
		}
	}

	return transaction, nil
}

func (s *transactionService) UpdateDocumentNumber(id uint, documentNumber string) error {
	documentNumber = strings.TrimSpace(documentNumber)
	if documentNumber == "" {
		return ErrInvalidTransaction
	}

	if err := s.txRepo.UpdateNumber(id, documentNumber); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}

	s.publishByID(events.EventTransactionUpdated, id)

	logger.Info("Document number updated", map[string]interface{}{
		"transaction_id":  id,
		"document_number": documentNumber,
	})
	return nil
}

func (s *transactionService) AttachPDF(id uint, filePath, fileName string) error {
	if filePath == "" {
		return ErrInvalidTransaction
	}

	if err := s.txRepo.UpdatePDF(id, filePath, fileName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}

	s.publishByID(events.EventTransactionUpdated, id)

	logger.Info("Transaction PDF attached", map[string]interface{}{
		"transaction_id": id,
		"file_name":      fileName,
	})
	return nil
}

func (s *transactionService) AttachSignedFile(id uint, signedPath string) error {
	if signedPath == "" {
		return ErrInvalidTransaction
	}

	if err := s.txRepo.UpdateSignedPath(id, signedPath); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}

	s.publishByID(events.EventTransactionUpdated, id)

	logger.Info("Transaction signed file attached", map[string]interface{}{
		"transaction_id": id,
	})
	return nil
}

func (s *transactionService) HideTransaction(id uint, hidden bool) error {
	if err := s.txRepo.SetHidden(id, hidden); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}

	s.publishByID(events.EventTransactionUpdated, id)

	logger.Info("Transaction visibility changed", map[string]interface{}{
		"transaction_id": id,
		"hidden":         hidden,
	})
	return nil
}

func (s *transactionService) DeleteTransaction(id uint, password string) error {
	if password != s.deletePassword {
		logger.Warn("Delete transaction denied: wrong password", map[string]interface{}{
			"transaction_id": id,
		})
		return ErrDeletePasswordMismatch
	}

	transaction, err := s.findTransaction(id)
	if err != nil {
		return err
	}

	if err := s.txRepo.Delete(id); err != nil {
		return err
	}

	s.publish(events.EventTransactionDeleted, transaction)

	logger.Info("Document transaction deleted successfully", map[string]interface{}{
		"transaction_id": id,
		"business_id":    transaction.BusinessID,
	})
	return nil
}

func (s *transactionService) GetTransaction(id uint) (*model.DocumentTransaction, error) {
	return s.findTransaction(id)
}

func (s *transactionService) ListTransactions(filter repository.TransactionFilter) ([]model.DocumentTransaction, error) {
	return s.txRepo.FindAll(filter)
}

func (s *transactionService) ListByBusiness(businessID uint) ([]model.DocumentTransaction, error) {
	if _, err := s.businessRepo.FindByID(businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return s.txRepo.FindByBusinessID(businessID)
}

func (s *transactionService) findTransaction(id uint) (*model.DocumentTransaction, error) {
	transaction, err := s.txRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

func (s *transactionService) publish(eventType string, transaction *model.DocumentTransaction) {
	if s.hub != nil {
		s.hub.Publish(eventType, transaction.BusinessID, transaction.ID)
	}
}

func (s *transactionService) publishByID(eventType string, id uint) {
	if s.hub == nil {
		return
	}
	if transaction, err := s.txRepo.FindByID(id); err == nil {
		s.hub.Publish(eventType, transaction.BusinessID, transaction.ID)
	}
}
