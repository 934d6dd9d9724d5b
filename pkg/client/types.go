package client

import "time"

// Các kiểu dữ liệu phía client, khớp JSON shape của API HOSODOC.
// Giữ độc lập với model phía server để SDK dùng được ngoài module.

// DetailInfo một dòng chi tiết hồ sơ trong documentDetails
type DetailInfo struct {
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
	Notes    string `json:"notes,omitempty"`
}

// Business hồ sơ doanh nghiệp
type Business struct {
	ID    uint   `json:"id"`
	TaxID string `json:"tax_id"`
	Name  string `json:"name"`

	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Representative string `json:"representative,omitempty"`
	ContactPerson  string `json:"contact_person,omitempty"`

	TaxPortalUsername string `json:"tax_portal_username,omitempty"`
	TaxPortalPassword string `json:"tax_portal_password,omitempty"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BusinessAccount nhóm tài khoản cổng dịch vụ của doanh nghiệp
type BusinessAccount struct {
	ID         uint `json:"id"`
	BusinessID uint `json:"business_id"`

	TaxPortalUsername string `json:"tax_portal_username,omitempty"`
	TaxPortalPassword string `json:"tax_portal_password,omitempty"`

	TokenProvider   string     `json:"token_provider,omitempty"`
	TokenSerial     string     `json:"token_serial,omitempty"`
	TokenPassword   string     `json:"token_password,omitempty"`
	TokenExpiryDate *time.Time `json:"token_expiry_date,omitempty"`
}

// DocumentTransaction biên bản bàn giao hồ sơ
type DocumentTransaction struct {
	ID         uint `json:"id"`
	BusinessID uint `json:"business_id"`

	DocumentNumber  string                `json:"document_number"`
	DocumentType    string                `json:"document_type"`
	DocumentDetails map[string]DetailInfo `json:"document_details,omitempty"`

	DeliveryCompany  string `json:"delivery_company,omitempty"`
	DeliveryPerson   string `json:"delivery_person,omitempty"`
	ReceivingCompany string `json:"receiving_company,omitempty"`
	ReceivingPerson  string `json:"receiving_person,omitempty"`

	DeliveryDate  time.Time  `json:"delivery_date"`
	ReceivingDate *time.Time `json:"receiving_date,omitempty"`
	HandledBy     string     `json:"handled_by,omitempty"`
	Notes         string     `json:"notes,omitempty"`

	Status string `json:"status"`

	PdfFilePath    string   `json:"pdf_file_path,omitempty"`
	PdfFileName    string   `json:"pdf_file_name,omitempty"`
	SignedFilePath string   `json:"signed_file_path,omitempty"`
	ExtraFiles     []string `json:"extra_files,omitempty"`

	IsHidden bool `json:"is_hidden"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DetailLineInput một dòng nhập chi tiết khi tạo/sửa giao dịch
type DetailLineInput struct {
	Type     string      `json:"type"`
	Quantity interface{} `json:"quantity,omitempty"` // số hoặc chuỗi, server tự ép kiểu
	Unit     string      `json:"unit,omitempty"`
	Notes    string      `json:"notes,omitempty"`
}

// CreateBusinessRequest payload tạo doanh nghiệp kèm tài khoản ban đầu
type CreateBusinessRequest struct {
	Business Business         `json:"business"`
	Account  *BusinessAccount `json:"account,omitempty"`
}

// CreateTransactionRequest payload tạo/sửa giao dịch
type CreateTransactionRequest struct {
	BusinessID       uint              `json:"business_id"`
	DocumentNumber   string            `json:"document_number,omitempty"`
	DocumentType     string            `json:"document_type,omitempty"`
	Details          []DetailLineInput `json:"details,omitempty"`
	DeliveryCompany  string            `json:"delivery_company,omitempty"`
	DeliveryPerson   string            `json:"delivery_person,omitempty"`
	ReceivingCompany string            `json:"receiving_company,omitempty"`
	ReceivingPerson  string            `json:"receiving_person,omitempty"`
	DeliveryDate     string            `json:"delivery_date"` // "2006-01-02"
	ReceivingDate    string            `json:"receiving_date,omitempty"`
	HandledBy        string            `json:"handled_by,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Status           string            `json:"status,omitempty"`
	ExtraFiles       []string          `json:"extra_files,omitempty"`
}

// LoginResponse phản hồi đăng nhập
type LoginResponse struct {
	User struct {
		ID          uint   `json:"id"`
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
		Role        string `json:"role"`
	} `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// businessListResponse envelope của GET /businesses
type businessListResponse struct {
	Businesses []Business `json:"businesses"`
	TotalCount int64      `json:"total_count"`
}

// transactionListResponse envelope của GET /transactions
type transactionListResponse struct {
	Transactions []DocumentTransaction `json:"transactions"`
	Count        int                   `json:"count"`
}

type businessEnvelope struct {
	Business Business         `json:"business"`
	Account  *BusinessAccount `json:"account,omitempty"`
}

type transactionEnvelope struct {
	Transaction DocumentTransaction `json:"transaction"`
}
