package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/app/repository"
	"github.com/minhvt/hosodoc-backend/internal/app/service"
	"github.com/minhvt/hosodoc-backend/internal/errors"
	"github.com/minhvt/hosodoc-backend/internal/middleware"
)

type TransactionController struct {
	transactionService service.TransactionService
	exportService      service.ExportService
}

func NewTransactionController(
	transactionService service.TransactionService,
	exportService service.ExportService,
) *TransactionController {
	return &TransactionController{
		transactionService: transactionService,
		exportService:      exportService,
	}
}

// DetailLineRequest một dòng chi tiết hồ sơ; quantity nhận cả số lẫn chuỗi
type DetailLineRequest struct {
	Type     string      `json:"type"`
	Quantity interface{} `json:"quantity"`
	Unit     string      `json:"unit"`
	Notes    string      `json:"notes"`
}

type TransactionRequest struct {
	BusinessID       uint                    `json:"business_id"`
	DocumentNumber   string                  `json:"document_number"`
	DocumentType     string                  `json:"document_type"`
	Details          []DetailLineRequest     `json:"details"`
	DeliveryCompany  string                  `json:"delivery_company"`
	DeliveryPerson   string                  `json:"delivery_person"`
	ReceivingCompany string                  `json:"receiving_company"`
	ReceivingPerson  string                  `json:"receiving_person"`
	DeliveryDate     string                  `json:"delivery_date"` // "2006-01-02"
	ReceivingDate    string                  `json:"receiving_date"`
	HandledBy        string                  `json:"handled_by"`
	Notes            string                  `json:"notes"`
	Status           model.TransactionStatus `json:"status"`
	ExtraFiles       []string                `json:"extra_files"`
}

func (r *TransactionRequest) toInput() (service.TransactionInput, error) {
	input := service.TransactionInput{
		BusinessID:       r.BusinessID,
		DocumentNumber:   r.DocumentNumber,
		DocumentType:     r.DocumentType,
		DeliveryCompany:  r.DeliveryCompany,
		DeliveryPerson:   r.DeliveryPerson,
		ReceivingCompany: r.ReceivingCompany,
		ReceivingPerson:  r.ReceivingPerson,
		HandledBy:        r.HandledBy,
		Notes:            r.Notes,
		Status:           r.Status,
		ExtraFiles:       r.ExtraFiles,
	}

	for _, line := range r.Details {
		input.Details = append(input.Details, model.DetailLine{
			Type:     line.Type,
			Quantity: line.Quantity,
			Unit:     line.Unit,
			Notes:    line.Notes,
		})
	}

	if r.DeliveryDate != "" {
		deliveryDate, err := parseDate(r.DeliveryDate)
		if err != nil {
			return input, err
		}
		input.DeliveryDate = deliveryDate
	}
	if r.ReceivingDate != "" {
		receivingDate, err := parseDate(r.ReceivingDate)
		if err != nil {
			return input, err
		}
		input.ReceivingDate = &receivingDate
	}

	return input, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("định dạng ngày không hợp lệ: %s", value)
}

// ListTransactions danh sách giao dịch hồ sơ
// GET /api/v1/transactions
func (ctrl *TransactionController) ListTransactions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.TransactionFilter{
		Status: model.TransactionStatus(c.Query("status")),
	}
	if businessID, err := strconv.ParseUint(c.Query("business_id"), 10, 32); err == nil {
		filter.BusinessID = uint(businessID)
	}
	// mặc định ẩn các giao dịch đã đánh dấu ẩn
	if c.Query("include_hidden") != "true" {
		visible := false
		filter.Hidden = &visible
	}

	transactions, err := ctrl.transactionService.ListTransactions(filter)
	if err != nil {
		log.Error("Failed to list transactions", err, nil)
		errors.InternalError(c, "Không lấy được danh sách giao dịch")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// GetTransaction chi tiết một giao dịch
// GET /api/v1/transactions/:id
func (ctrl *TransactionController) GetTransaction(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	transaction, err := ctrl.transactionService.GetTransaction(id)
	if err != nil {
		if err == service.ErrTransactionNotFound {
			errors.NotFound(c, errors.TransactionNotFound, "Không tìm thấy giao dịch hồ sơ")
			return
		}
		log.Error("Failed to fetch transaction", err, map[string]interface{}{
			"transaction_id": id,
		})
		errors.InternalError(c, "Không lấy được giao dịch hồ sơ")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction": transaction,
	})
}

// CreateTransaction tạo giao dịch bàn giao hồ sơ
// POST /api/v1/transactions
func (ctrl *TransactionController) CreateTransaction(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid transaction creation request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Dữ liệu giao dịch không hợp lệ")
		return
	}

	input, err := req.toInput()
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidFormat, err.Error())
		return
	}

	transaction, err := ctrl.transactionService.CreateTransaction(input)
	if err != nil {
		switch err {
		case service.ErrBusinessNotFound:
			errors.NotFound(c, errors.BusinessNotFound, "Không tìm thấy doanh nghiệp")
		case service.ErrInvalidTransaction:
			errors.BadRequest(c, errors.TransactionInvalidDetails, "Dữ liệu giao dịch hồ sơ không hợp lệ")
		default:
			log.Error("Failed to create transaction", err, map[string]interface{}{
				"business_id": req.BusinessID,
			})
			respondParsedError(c, err, "create transaction")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"transaction": transaction,
	})
}

// UpdateTransaction cập nhật toàn bộ nội dung giao dịch
// PUT /api/v1/transactions/:id
func (ctrl *TransactionController) UpdateTransaction(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Dữ liệu giao dịch không hợp lệ")
		return
	}

	input, err := req.toInput()
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidFormat, err.Error())
		return
	}

	transaction, err := ctrl.transactionService.UpdateTransaction(id, input)
	if err != nil {
		switch err {
		case service.ErrTransactionNotFound:
			errors.NotFound(c, errors.TransactionNotFound, "Không tìm thấy giao dịch hồ sơ")
		case service.ErrInvalidTransaction:
			errors.BadRequest(c, errors.TransactionInvalidDetails, "Dữ liệu giao dịch hồ sơ không hợp lệ")
		default:
			log.Error("Failed to update transaction", err, map[string]interface{}{
				"transaction_id": id,
			})
			respondParsedError(c, err, "update transaction")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction": transaction,
	})
}

type UpdateNumberRequest struct {
	DocumentNumber string `json:"document_number" binding:"required"`
}

// UpdateDocumentNumber sửa số biên bản
// PUT /api/v1/transactions/:id/number
func (ctrl *TransactionController) UpdateDocumentNumber(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "Thiếu số biên bản")
		return
	}

	if err := ctrl.transactionService.UpdateDocumentNumber(id, req.DocumentNumber); err != nil {
		ctrl.respondMutationError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã cập nhật số biên bản",
	})
}

type AttachPDFRequest struct {
	FilePath string `json:"file_path" binding:"required"`
	FileName string `json:"file_name"`
}

// AttachPDF gắn file PDF biên bản
// PUT /api/v1/transactions/:id/pdf
func (ctrl *TransactionController) AttachPDF(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AttachPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "Thiếu đường dẫn file")
		return
	}

	if err := ctrl.transactionService.AttachPDF(id, req.FilePath, req.FileName); err != nil {
		ctrl.respondMutationError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã gắn file PDF",
	})
}

type AttachSignedFileRequest struct {
	FilePath string `json:"file_path" binding:"required"`
}

// AttachSignedFile gắn bản đã ký
// PUT /api/v1/transactions/:id/signed-file
func (ctrl *TransactionController) AttachSignedFile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AttachSignedFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "Thiếu đường dẫn file")
		return
	}

	if err := ctrl.transactionService.AttachSignedFile(id, req.FilePath); err != nil {
		ctrl.respondMutationError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã gắn bản đã ký",
	})
}

type HideRequest struct {
	Hidden *bool `json:"hidden" binding:"required"`
}

// HideTransaction ẩn/hiện giao dịch khỏi danh sách mặc định
// PUT /api/v1/transactions/:id/hide
func (ctrl *TransactionController) HideTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req HideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "Thiếu trạng thái ẩn")
		return
	}

	if err := ctrl.transactionService.HideTransaction(id, *req.Hidden); err != nil {
		ctrl.respondMutationError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã cập nhật trạng thái hiển thị",
	})
}

// DeleteTransaction xóa giao dịch, body mang mật khẩu xóa dùng chung
// DELETE /api/v1/transactions/:id
func (ctrl *TransactionController) DeleteTransaction(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "Thiếu mật khẩu xóa")
		return
	}

	if err := ctrl.transactionService.DeleteTransaction(id, req.Password); err != nil {
		switch err {
		case service.ErrDeletePasswordMismatch:
			errors.RespondWithError(c, http.StatusForbidden, errors.TransactionDeleteDenied, "Mật khẩu xóa không đúng")
		case service.ErrTransactionNotFound:
			errors.NotFound(c, errors.TransactionNotFound, "Không tìm thấy giao dịch hồ sơ")
		default:
			log.Error("Failed to delete transaction", err, map[string]interface{}{
				"transaction_id": id,
			})
			errors.InternalError(c, "Không xóa được giao dịch hồ sơ")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã xóa giao dịch hồ sơ",
	})
}

// ExportTransactions xuất sổ bàn giao ra file Excel
// GET /api/v1/transactions/export
func (ctrl *TransactionController) ExportTransactions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.TransactionFilter{}
	if businessID, err := strconv.ParseUint(c.Query("business_id"), 10, 32); err == nil {
		filter.BusinessID = uint(businessID)
	}

	buf, err := ctrl.exportService.ExportHandoverLog(filter)
	if err != nil {
		log.Error("Failed to export transactions", err, nil)
		errors.RespondWithError(c, http.StatusInternalServerError, errors.ExportFailed, "Xuất file thất bại")
		return
	}

	filename := fmt.Sprintf("so-ban-giao-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

func (ctrl *TransactionController) respondMutationError(c *gin.Context, id uint, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch err {
	case service.ErrTransactionNotFound:
		errors.NotFound(c, errors.TransactionNotFound, "Không tìm thấy giao dịch hồ sơ")
	case service.ErrInvalidTransaction:
		errors.BadRequest(c, errors.ValidationInvalidInput, "Dữ liệu không hợp lệ")
	default:
		log.Error("Transaction mutation failed", err, map[string]interface{}{
			"transaction_id": id,
		})
		errors.InternalError(c, "Không cập nhật được giao dịch hồ sơ")
	}
}
