package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo thông tin lỗi đã phân loại
type ErrorInfo struct {
	Code    string // mã lỗi (xem codes.go)
	Message string // thông báo cho người dùng
}

// ParseError phân loại lỗi từ tầng dữ liệu thành mã lỗi + thông báo tiếng Việt.
// Không lộ chi tiết nội bộ nhưng vẫn đủ thông tin để người dùng xử lý.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Lỗi máy chủ",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. Lỗi GORM cơ bản
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. Lỗi PostgreSQL

	// 2-1. Vi phạm unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Vi phạm foreign key constraint (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// 2-3. Vi phạm not null constraint (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// 3. Lỗi mạng/kết nối
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Không kết nối được dịch vụ bên ngoài, vui lòng thử lại sau",
		}
	}

	// 4. Mặc định: lỗi máy chủ
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError phân loại lỗi trùng khóa unique
func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// trùng mã số thuế
	if strings.Contains(errLower, "tax_id") || strings.Contains(errLower, "idx_businesses_tax_id") {
		return ErrorInfo{
			Code:    BusinessTaxIDExists,
			Message: "Mã số thuế này đã được đăng ký",
		}
	}

	// trùng tên đăng nhập
	if strings.Contains(errLower, "username") || strings.Contains(errLower, "idx_users_username") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Tên đăng nhập đã được sử dụng",
		}
	}

	// trùng primary key
	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Dữ liệu đã tồn tại, vui lòng thử lại",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Dữ liệu đã tồn tại",
	}
}

// parseForeignKeyError phân loại lỗi khóa ngoại
func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// xóa khi còn dữ liệu tham chiếu
	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		if strings.Contains(context, "business") || strings.Contains(context, "doanh nghiệp") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "Doanh nghiệp còn dữ liệu liên quan, không thể xóa",
			}
		}
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Còn dữ liệu liên quan, không thể xóa",
		}
	}

	// tham chiếu tới bản ghi không tồn tại
	if strings.Contains(errLower, "business_id") || strings.Contains(errLower, "fk_businesses") {
		return ErrorInfo{
			Code:    BusinessNotFound,
			Message: "Doanh nghiệp không tồn tại",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "Không tìm thấy dữ liệu được tham chiếu",
	}
}

// parseNotNullError phân loại lỗi thiếu trường bắt buộc
func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "tax_id") {
		return ErrorInfo{Code: ValidationRequired, Message: "Mã số thuế là trường bắt buộc"}
	}
	if strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "Tên là trường bắt buộc"}
	}
	if strings.Contains(errLower, "delivery_date") {
		return ErrorInfo{Code: ValidationRequired, Message: "Ngày giao hồ sơ là trường bắt buộc"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "Thiếu trường bắt buộc",
	}
}

// getNotFoundMessage thông báo not found theo ngữ cảnh
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "business") || strings.Contains(contextLower, "doanh nghiệp") {
		return "Không tìm thấy doanh nghiệp"
	}
	if strings.Contains(contextLower, "transaction") || strings.Contains(contextLower, "giao dịch") {
		return "Không tìm thấy giao dịch hồ sơ"
	}
	if strings.Contains(contextLower, "account") || strings.Contains(contextLower, "tài khoản") {
		return "Không tìm thấy tài khoản"
	}
	if strings.Contains(contextLower, "user") || strings.Contains(contextLower, "người dùng") {
		return "Không tìm thấy người dùng"
	}

	return "Không tìm thấy dữ liệu yêu cầu"
}

// getDefaultErrorMessage thông báo mặc định theo ngữ cảnh
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "tạo") {
		return "Có lỗi khi tạo dữ liệu, vui lòng thử lại sau"
	}
	if strings.Contains(contextLower, "update") || strings.Contains(contextLower, "cập nhật") {
		return "Có lỗi khi cập nhật, vui lòng thử lại sau"
	}
	if strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "xóa") {
		return "Có lỗi khi xóa, vui lòng thử lại sau"
	}

	return "Lỗi máy chủ, vui lòng thử lại sau"
}
