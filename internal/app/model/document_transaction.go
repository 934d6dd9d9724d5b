package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type TransactionStatus string // trạng thái giao dịch hồ sơ

const (
	TransactionPending   TransactionStatus = "pending"   // chờ xử lý
	TransactionCompleted TransactionStatus = "completed" // đã hoàn tất
)

// DetailEntry một dòng chi tiết hồ sơ: số lượng + đơn vị tính + ghi chú
type DetailEntry struct {
	Quantity int    `json:"quantity"` // luôn >= 1
	Unit     string `json:"unit"`     // tờ/bộ/quyển/cuốn... lưu dạng chữ tự do
	Notes    string `json:"notes,omitempty"`
}

// DetailMap ánh xạ nhãn loại hồ sơ -> chi tiết, lưu cột JSON
type DetailMap map[string]DetailEntry

// Value implement database/sql/driver.Valuer
func (m DetailMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implement database/sql.Scanner
func (m *DetailMap) Scan(value interface{}) error {
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
		return errors.New("failed to scan DetailMap")
	}

	return json.Unmarshal(bytes, m)
}

// DocumentTransaction giao dịch giao nhận hồ sơ (bản cứng hoặc điện tử)
// giữa hai bên, gắn với một doanh nghiệp.
type DocumentTransaction struct {
	ID         uint     `gorm:"primarykey" json:"id"`
	BusinessID uint     `gorm:"not null;index" json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	DocumentNumber string `gorm:"index" json:"document_number"` // số văn bản do người dùng đặt, có thể sửa sau

	// DocumentType là chuỗi tóm tắt sinh từ DocumentDetails khi submit
	// (vd "3 loại hồ sơ: 2 Tờ Hồ sơ kế toán, 1 Bộ Hồ sơ thuế"),
	// hoặc chữ tự do với bản ghi cũ trước khi có mô hình chi tiết.
	DocumentType    string    `gorm:"type:text" json:"document_type"`
	DocumentDetails DetailMap `gorm:"type:jsonb" json:"document_details,omitempty"`

	DeliveryCompany string `json:"delivery_company"` // bên giao
	DeliveryPerson  string `json:"delivery_person"`
	ReceivingCompany string `json:"receiving_company"` // bên nhận
	ReceivingPerson  string `json:"receiving_person"`

	DeliveryDate  time.Time  `gorm:"not null" json:"delivery_date"`            // ngày giao (bắt buộc)
	ReceivingDate *time.Time `json:"receiving_date,omitempty"`                 // ngày nhận (tùy chọn)
	HandledBy     string     `json:"handled_by"`                               // nhân viên phụ trách
	Notes         string     `gorm:"type:text" json:"notes"`

	Status TransactionStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`

	PdfFilePath    string         `json:"pdf_file_path"` // đường dẫn file PDF đính kèm (chuỗi mờ từ storage)
	PdfFileName    string         `json:"pdf_file_name"`
	SignedFilePath string         `json:"signed_file_path"`                        // bản đã ký, theo dõi riêng
	ExtraFiles     pq.StringArray `gorm:"type:text[]" json:"extra_files,omitempty"` // file đính kèm bổ sung

	IsHidden bool `gorm:"default:false;index" json:"is_hidden"` // ẩn khỏi danh sách mặc định

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DocumentTransaction) TableName() string {
	return "document_transactions"
}
