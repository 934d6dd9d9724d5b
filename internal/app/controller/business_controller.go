package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/app/repository"
	"github.com/minhvt/hosodoc-backend/internal/app/service"
	"github.com/minhvt/hosodoc-backend/internal/errors"
	"github.com/minhvt/hosodoc-backend/internal/middleware"
)

type BusinessController struct {
	businessService    service.BusinessService
	transactionService service.TransactionService
}

func NewBusinessController(
	businessService service.BusinessService,
	transactionService service.TransactionService,
) *BusinessController {
	return &BusinessController{
		businessService:    businessService,
		transactionService: transactionService,
	}
}

// CreateBusinessRequest payload tạo doanh nghiệp, account gửi kèm tùy chọn
type CreateBusinessRequest struct {
	Business model.Business         `json:"business" binding:"required"`
	Account  *model.BusinessAccount `json:"account"`
}

type DeleteRequest struct {
	Password string `json:"password" binding:"required"`
}

// ListBusinesses danh sách doanh nghiệp, hỗ trợ tìm kiếm và phân trang
// GET /api/v1/businesses
func (ctrl *BusinessController) ListBusinesses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	result, err := ctrl.businessService.ListBusinesses(repository.BusinessFilter{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		log.Error("Failed to list businesses", err, nil)
		errors.InternalError(c, "Không lấy được danh sách doanh nghiệp")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses":  result.Businesses,
		"total_count": result.TotalCount,
	})
}

// GetBusiness chi tiết một doanh nghiệp kèm tài khoản cổng (nếu có)
// GET /api/v1/businesses/:id
func (ctrl *BusinessController) GetBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	business, err := ctrl.businessService.GetBusiness(id)
	if err != nil {
		if err == service.ErrBusinessNotFound {
			errors.NotFound(c, errors.BusinessNotFound, "Không tìm thấy doanh nghiệp")
			return
		}
		log.Error("Failed to fetch business", err, map[string]interface{}{
			"business_id": id,
		})
		errors.InternalError(c, "Không lấy được thông tin doanh nghiệp")
		return
	}

	response := gin.H{"business": business}
	if account, err := ctrl.businessService.GetBusinessAccount(id); err == nil {
		response["account"] = account
	}

	c.JSON(http.StatusOK, response)
}

// CreateBusiness tạo doanh nghiệp mới
// POST /api/v1/businesses
func (ctrl *BusinessController) CreateBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid business creation request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Dữ liệu doanh nghiệp không hợp lệ")
		return
	}

	if req.Business.Name == "" || req.Business.TaxID == "" {
		errors.BadRequest(c, errors.ValidationRequired, "Tên và mã số thuế là bắt buộc")
		return
	}

	business, err := ctrl.businessService.CreateBusiness(&req.Business, req.Account)
	if err != nil {
		if err == service.ErrTaxIDAlreadyExists {
			errors.Conflict(c, errors.BusinessTaxIDExists, "Mã số thuế đã tồn tại")
			return
		}
		log.Error("Failed to create business", err, map[string]interface{}{
			"tax_id": req.Business.TaxID,
		})
		respondParsedError(c, err, "create business")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"business": business,
	})
}

// UpdateBusiness cập nhật thông tin doanh nghiệp và tài khoản cổng
// PUT /api/v1/businesses/:id
func (ctrl *BusinessController) UpdateBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid business update request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Dữ liệu doanh nghiệp không hợp lệ")
		return
	}

	business, err := ctrl.businessService.UpdateBusiness(id, &req.Business)
	if err != nil {
		switch err {
		case service.ErrBusinessNotFound:
			errors.NotFound(c, errors.BusinessNotFound, "Không tìm thấy doanh nghiệp")
		case service.ErrTaxIDAlreadyExists:
			errors.Conflict(c, errors.BusinessTaxIDExists, "Mã số thuế đã tồn tại")
		default:
			log.Error("Failed to update business", err, map[string]interface{}{
				"business_id": id,
			})
			respondParsedError(c, err, "update business")
		}
		return
	}

	if req.Account != nil {
		if err := ctrl.businessService.UpsertBusinessAccount(id, req.Account); err != nil {
			log.Error("Business updated but account write failed", err, map[string]interface{}{
				"business_id": id,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"business": business,
	})
}

// DeleteBusiness xóa doanh nghiệp, body mang mật khẩu xóa dùng chung
// DELETE /api/v1/businesses/:id
func (ctrl *BusinessController) DeleteBusiness(c *gin.Context) {
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

	if err := ctrl.businessService.DeleteBusiness(id, req.Password); err != nil {
		switch err {
		case service.ErrDeletePasswordMismatch:
			errors.Forbidden(c, "Mật khẩu xóa không đúng")
		case service.ErrBusinessNotFound:
			errors.NotFound(c, errors.BusinessNotFound, "Không tìm thấy doanh nghiệp")
		default:
			log.Error("Failed to delete business", err, map[string]interface{}{
				"business_id": id,
			})
			errors.InternalError(c, "Không xóa được doanh nghiệp")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã xóa doanh nghiệp",
	})
}

// ListBusinessTransactions các giao dịch hồ sơ của một doanh nghiệp
// GET /api/v1/businesses/:id/transactions
func (ctrl *BusinessController) ListBusinessTransactions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	transactions, err := ctrl.transactionService.ListByBusiness(id)
	if err != nil {
		if err == service.ErrBusinessNotFound {
			errors.NotFound(c, errors.BusinessNotFound, "Không tìm thấy doanh nghiệp")
			return
		}
		log.Error("Failed to list business transactions", err, map[string]interface{}{
			"business_id": id,
		})
		errors.InternalError(c, "Không lấy được danh sách giao dịch")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// respondParsedError phân loại lỗi tầng dữ liệu (trùng khóa, khóa ngoại...)
// thành mã lỗi + status tương ứng thay vì trả 500 chung chung
func respondParsedError(c *gin.Context, err error, context string) {
	info := errors.ParseError(err, context)

	status := http.StatusInternalServerError
	switch info.Code {
	case errors.ResourceNotFound, errors.BusinessNotFound, errors.TransactionNotFound:
		status = http.StatusNotFound
	case errors.ResourceAlreadyExists, errors.ResourceConflict, errors.BusinessTaxIDExists:
		status = http.StatusConflict
	case errors.ValidationRequired:
		status = http.StatusBadRequest
	}

	errors.RespondWithError(c, status, info.Code, info.Message)
}

// parseIDParam đọc :id, sai định dạng thì tự trả 400
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "ID không hợp lệ")
		return 0, false
	}
	return uint(id), true
}
