package errors

// Mã lỗi dạng hằng số
// Định dạng: CATEGORY_SPECIFIC_DETAIL
// Phía client dựa vào mã này để hiển thị thông báo phù hợp

const (
	// ==================== Xác thực (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // cần đăng nhập
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // sai tài khoản/mật khẩu
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token hết hạn
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // token không hợp lệ
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token đã bị thu hồi

	// ==================== Phân quyền (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"     // không có quyền truy cập
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"    // chỉ admin được phép
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // thiếu thông tin quyền

	// ==================== Kiểm tra dữ liệu (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // dữ liệu không hợp lệ
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // ID không hợp lệ
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // sai định dạng
	ValidationRequired      = "VALIDATION_REQUIRED"       // thiếu trường bắt buộc

	// ==================== Tài nguyên (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // không tìm thấy
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // đã tồn tại
	ResourceConflict      = "RESOURCE_CONFLICT"       // xung đột dữ liệu

	// ==================== Doanh nghiệp (BUSINESS_) ====================
	BusinessNotFound    = "BUSINESS_NOT_FOUND"     // không tìm thấy doanh nghiệp
	BusinessTaxIDExists = "BUSINESS_TAX_ID_EXISTS" // trùng mã số thuế

	// ==================== Giao dịch hồ sơ (TRANSACTION_) ====================
	TransactionNotFound       = "TRANSACTION_NOT_FOUND"        // không tìm thấy giao dịch
	TransactionDeleteDenied   = "TRANSACTION_DELETE_DENIED"    // sai mật khẩu xóa
	TransactionInvalidDetails = "TRANSACTION_INVALID_DETAILS"  // chi tiết hồ sơ không hợp lệ

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // sai loại file
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // file quá lớn
	UploadFailed          = "UPLOAD_FAILED"            // upload thất bại

	// ==================== Xuất dữ liệu (EXPORT_) ====================
	ExportFailed = "EXPORT_FAILED" // xuất file thất bại

	// ==================== Lỗi hệ thống (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // lỗi máy chủ
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // lỗi CSDL
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // lỗi dịch vụ ngoài
)
