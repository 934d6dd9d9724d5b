package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// StringMap là kiểu JSON map string->string cho cột customFields
type StringMap map[string]string

// Value implement database/sql/driver.Valuer
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implement database/sql.Scanner
func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan StringMap")
	}

	return json.Unmarshal(bytes, m)
}

// Business hồ sơ doanh nghiệp khách hàng.
// Mỗi nhóm tài khoản cổng dịch vụ (thuế, hóa đơn điện tử, BHXH, token ký số,
// cổng thống kê, phần mềm kiểm toán) lưu dạng cặp tài khoản/mật khẩu.
type Business struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	TaxID string `gorm:"uniqueIndex;not null" json:"tax_id"` // mã số thuế (khóa tự nhiên, duy nhất)

	Name           string `gorm:"not null" json:"name"`       // tên doanh nghiệp
	Address        string `gorm:"type:text" json:"address"`   // địa chỉ trụ sở
	Phone          string `gorm:"type:varchar(30)" json:"phone"`
	Email          string `json:"email"`
	Representative string `json:"representative"` // người đại diện pháp luật
	ContactPerson  string `json:"contact_person"` // người liên hệ trực tiếp

	BankAccount string `json:"bank_account"` // số tài khoản ngân hàng
	BankName    string `json:"bank_name"`

	// Cổng khai thuế (thuedientu)
	TaxPortalUsername string `json:"tax_portal_username"`
	TaxPortalPassword string `json:"tax_portal_password"`

	// Tra cứu hóa đơn điện tử
	InvoiceLookupUsername string `json:"invoice_lookup_username"`
	InvoiceLookupPassword string `json:"invoice_lookup_password"`

	// Hóa đơn điện tử bản web
	WebInvoiceUsername string `json:"web_invoice_username"`
	WebInvoicePassword string `json:"web_invoice_password"`

	// Bảo hiểm xã hội
	SocialInsuranceCode     string `json:"social_insurance_code"` // mã đơn vị BHXH
	SocialInsuranceUsername string `json:"social_insurance_username"`
	SocialInsurancePassword string `json:"social_insurance_password"`

	// Token ký số
	TokenProvider   string     `json:"token_provider"` // nhà cung cấp chữ ký số
	TokenSerial     string     `json:"token_serial"`
	TokenPassword   string     `json:"token_password"`
	TokenExpiryDate *time.Time `json:"token_expiry_date,omitempty"` // ngày hết hạn token

	// Cổng thống kê
	StatisticsUsername string `json:"statistics_username"`
	StatisticsPassword string `json:"statistics_password"`

	// Phần mềm kiểm toán
	AuditSoftwareUsername string `json:"audit_software_username"`
	AuditSoftwarePassword string `json:"audit_software_password"`

	CustomFields StringMap `gorm:"type:jsonb" json:"custom_fields,omitempty"` // trường tùy chỉnh tự do
	Notes        string    `gorm:"type:text" json:"notes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Business) TableName() string {
	return "businesses"
}
