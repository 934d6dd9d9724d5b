package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/minhvt/hosodoc-backend/pkg/logger"
)

// DefaultUnit đơn vị tính mặc định khi không xác định được
const DefaultUnit = "Bộ"

// legacyMarker đánh dấu chuỗi tóm tắt do hệ thống sinh ra.
// Bản ghi cũ không có DocumentDetails được nhận diện qua marker này.
const legacyMarker = "loại hồ sơ:"

// legacySegmentPattern ngữ pháp một phân đoạn cũ: "<số lượng> <đơn vị> <loại...>"
// (một hoặc nhiều chữ số, khoảng trắng, một từ, khoảng trắng, phần còn lại).
// Giữ nguyên ngữ pháp này để tương thích với dữ liệu đã lưu.
var legacySegmentPattern = regexp.MustCompile(`^(\d+)\s+(\S+)\s+(.+)$`)

// DetailLine một dòng nhập từ form giao nhận hồ sơ.
// Quantity nhận cả số lẫn chuỗi vì form cũ gửi giá trị thô.
type DetailLine struct {
	Type     string      `json:"type"`
	Quantity interface{} `json:"quantity"`
	Unit     string      `json:"unit"`
	Notes    string      `json:"notes,omitempty"`
}

// CoerceQuantity ép số lượng về số nguyên >= 1.
// Giá trị 0, âm hoặc không đọc được đều trả về 1.
func CoerceQuantity(v interface{}) int {
	var n int
	switch q := v.(type) {
	case int:
		n = q
	case int64:
		n = int(q)
	case float64:
		n = int(q)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(q))
		if err != nil {
			return 1
		}
		n = parsed
	default:
		return 1
	}

	if n < 1 {
		return 1
	}
	return n
}

// BuildDocumentDetails chuyển danh sách dòng nhập thành DetailMap.
// Dòng có Type rỗng/toàn khoảng trắng bị loại; số lượng được ép về >= 1.
// Trùng Type thì dòng sau ghi đè dòng trước (last-write-wins, không gộp
// số lượng — đây là hành vi đã ghi nhận của hệ thống, không phải bug).
// Trả kèm thứ tự xuất hiện đầu tiên của từng nhãn để dựng chuỗi tóm tắt.
func BuildDocumentDetails(lines []DetailLine) (DetailMap, []string) {
	details := make(DetailMap)
	order := make([]string, 0, len(lines))

	for _, line := range lines {
		label := strings.TrimSpace(line.Type)
		if label == "" {
			continue
		}

		unit := strings.TrimSpace(line.Unit)
		if unit == "" {
			unit = DefaultUnit
		}

		if _, seen := details[label]; !seen {
			order = append(order, label)
		}
		details[label] = DetailEntry{
			Quantity: CoerceQuantity(line.Quantity),
			Unit:     unit,
			Notes:    strings.TrimSpace(line.Notes),
		}
	}

	return details, order
}

// SummarizeDetails dựng chuỗi tóm tắt lưu vào DocumentType:
// "{N} loại hồ sơ: {số lượng} {đơn vị} {loại}, ..." theo thứ tự nhập.
// Không có mục nào hợp lệ thì trả về "0 loại hồ sơ: ".
func SummarizeDetails(details DetailMap, order []string) string {
	parts := make([]string, 0, len(order))
	for _, label := range order {
		entry, ok := details[label]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s %s", entry.Quantity, entry.Unit, label))
	}
	return fmt.Sprintf("%d loại hồ sơ: %s", len(parts), strings.Join(parts, ", "))
}

// DeriveSummary tiện ích gộp: dựng map chi tiết rồi sinh luôn chuỗi tóm tắt.
func DeriveSummary(lines []DetailLine) (DetailMap, string) {
	details, order := BuildDocumentDetails(lines)
	return details, SummarizeDetails(details, order)
}

// ParseLegacySummary đọc ngược chuỗi DocumentType của bản ghi cũ
// (trước khi có DocumentDetails) thành DetailMap. Chỉ dùng ở đường đọc,
// phục vụ hiển thị/xuất dữ liệu lịch sử.
//
// Ngữ pháp: nếu chuỗi chứa "loại hồ sơ:" thì cắt tại dấu ':' đầu tiên,
// tách phần còn lại theo dấu phẩy, mỗi phân đoạn khớp
// "<số lượng> <đơn vị> <loại...>" (đơn vị viết hoa chữ cái đầu).
// Phân đoạn không khớp bị bỏ qua kèm log cảnh báo, không coi là lỗi.
// Không có marker: cả chuỗi là một mục với số lượng 1, đơn vị mặc định.
func ParseLegacySummary(documentType string) (DetailMap, []string) {
	details := make(DetailMap)
	order := make([]string, 0, 4)

	trimmed := strings.TrimSpace(documentType)
	if trimmed == "" {
		return details, order
	}

	if !strings.Contains(documentType, legacyMarker) {
		details[trimmed] = DetailEntry{Quantity: 1, Unit: DefaultUnit}
		order = append(order, trimmed)
		return details, order
	}

	_, rest, _ := strings.Cut(documentType, ":")
	for _, segment := range strings.Split(rest, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		match := legacySegmentPattern.FindStringSubmatch(segment)
		if match == nil {
			logger.Warn("Skipping unparseable legacy detail segment", map[string]interface{}{
				"segment": segment,
			})
			continue
		}

		quantity, err := strconv.Atoi(match[1])
		if err != nil || quantity < 1 {
			quantity = 1
		}

		label := strings.TrimSpace(match[3])
		if _, seen := details[label]; !seen {
			order = append(order, label)
		}
		details[label] = DetailEntry{
			Quantity: quantity,
			Unit:     capitalizeFirst(match[2]),
		}
	}

	return details, order
}

// EffectiveDetails trả về chi tiết hồ sơ của giao dịch: ưu tiên
// DocumentDetails, bản ghi cũ thì parse từ chuỗi DocumentType.
func EffectiveDetails(t *DocumentTransaction) (DetailMap, []string) {
	if len(t.DocumentDetails) > 0 {
		order := make([]string, 0, len(t.DocumentDetails))
		for label := range t.DocumentDetails {
			order = append(order, label)
		}
		return t.DocumentDetails, order
	}
	return ParseLegacySummary(t.DocumentType)
}

// capitalizeFirst viết hoa chữ cái đầu (hỗ trợ ký tự tiếng Việt nhiều byte)
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + s[size:]
}
