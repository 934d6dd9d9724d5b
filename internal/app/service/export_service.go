package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/app/repository"
	"github.com/minhvt/hosodoc-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "So ban giao"

var exportHeaders = []string{
	"STT",
	"Số biên bản",
	"Doanh nghiệp",
	"Mã số thuế",
	"Loại hồ sơ",
	"Chi tiết",
	"Bên giao",
	"Người giao",
	"Bên nhận",
	"Người nhận",
	"Ngày giao",
	"Ngày nhận",
	"Người xử lý",
	"Trạng thái",
	"Ghi chú",
}

type ExportService interface {
	ExportHandoverLog(filter repository.TransactionFilter) (*bytes.Buffer, error)
}

type exportService struct {
	txRepo       repository.DocumentTransactionRepository
	businessRepo repository.BusinessRepository
}

func NewExportService(
	txRepo repository.DocumentTransactionRepository,
	businessRepo repository.BusinessRepository,
) ExportService {
	return &exportService{
		txRepo:       txRepo,
		businessRepo: businessRepo,
	}
}

// ExportHandoverLog xuất sổ bàn giao hồ sơ ra .xlsx, mỗi giao dịch một dòng.
// Bản ghi kiểu cũ không có cột chi tiết sẽ được parse lại từ mô tả text.
func (s *exportService) ExportHandoverLog(filter repository.TransactionFilter) (*bytes.Buffer, error) {
	logger.Info("Exporting handover log", map[string]interface{}{
		"business_id": filter.BusinessID,
	})

	transactions, err := s.txRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	// tra tên doanh nghiệp một lần cho mỗi business_id
	businessNames := make(map[uint]*model.Business)
	for _, t := range transactions {
		if _, ok := businessNames[t.BusinessID]; ok {
			continue
		}
		business, err := s.businessRepo.FindByID(t.BusinessID)
		if err != nil {
			logger.Warn("Business lookup failed during export", map[string]interface{}{
				"business_id": t.BusinessID,
				"error":       err.Error(),
			})
			continue
		}
		businessNames[t.BusinessID] = business
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(exportSheetName, cell, header)
	}

	for i, t := range transactions {
		row := i + 2

		businessName := ""
		taxID := ""
		if business, ok := businessNames[t.BusinessID]; ok {
			businessName = business.Name
			taxID = business.TaxID
		}

		values := []interface{}{
			i + 1,
			t.DocumentNumber,
			businessName,
			taxID,
			t.DocumentType,
			flattenDetails(&t),
			t.DeliveryCompany,
			t.DeliveryPerson,
			t.ReceivingCompany,
			t.ReceivingPerson,
			formatDate(&t.DeliveryDate),
			formatDate(t.ReceivingDate),
			t.HandledBy,
			statusLabel(t.Status),
			t.Notes,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(exportSheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to write export workbook", err, nil)
		return nil, err
	}

	logger.Info("Handover log exported", map[string]interface{}{
		"rows": len(transactions),
	})
	return buf, nil
}

// flattenDetails ghép chi tiết thành text nhiều dòng cho một ô
func flattenDetails(t *model.DocumentTransaction) string {
	details, order := model.EffectiveDetails(t)
	lines := make([]string, 0, len(order))
	for _, docType := range order {
		entry := details[docType]
		line := fmt.Sprintf("%d %s %s", entry.Quantity, entry.Unit, docType)
		if entry.Notes != "" {
			line += " (" + entry.Notes + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func statusLabel(status model.TransactionStatus) string {
	switch status {
	case model.TransactionCompleted:
		return "Đã hoàn tất"
	case model.TransactionPending:
		return "Chờ xử lý"
	default:
		return string(status)
	}
}
