package model

import (
	"time"

	"gorm.io/gorm"
)

// BusinessAccount bản ghi tài khoản cổng dịch vụ tách riêng, quan hệ 1:1 với Business.
// Đây là dạng lưu cũ song song với các trường trên Business; được tạo lười ở lần
// lưu đầu tiên, các lần sau upsert (cập nhật nếu có, không thì tạo mới).
// BusinessID chỉ đánh index thường, KHÔNG unique — tính 1:1 là quy ước của
// tầng đọc (lấy bản ghi cập nhật gần nhất), giữ nguyên theo hệ thống gốc.
type BusinessAccount struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BusinessID uint     `gorm:"not null;index" json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	TaxPortalUsername string `json:"tax_portal_username"`
	TaxPortalPassword string `json:"tax_portal_password"`

	InvoiceLookupUsername string `json:"invoice_lookup_username"`
	InvoiceLookupPassword string `json:"invoice_lookup_password"`

	WebInvoiceUsername string `json:"web_invoice_username"`
	WebInvoicePassword string `json:"web_invoice_password"`

	SocialInsuranceCode     string `json:"social_insurance_code"`
	SocialInsuranceUsername string `json:"social_insurance_username"`
	SocialInsurancePassword string `json:"social_insurance_password"`

	TokenProvider   string     `json:"token_provider"`
	TokenSerial     string     `json:"token_serial"`
	TokenPassword   string     `json:"token_password"`
	TokenExpiryDate *time.Time `json:"token_expiry_date,omitempty"`

	StatisticsUsername string `json:"statistics_username"`
	StatisticsPassword string `json:"statistics_password"`

	AuditSoftwareUsername string `json:"audit_software_username"`
	AuditSoftwarePassword string `json:"audit_software_password"`
}

func (BusinessAccount) TableName() string {
	return "business_accounts"
}
