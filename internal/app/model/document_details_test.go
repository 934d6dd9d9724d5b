package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDocumentDetails(t *testing.T) {
	lines := []DetailLine{
		{Type: "Hồ sơ thuế", Quantity: 2, Unit: "Bộ"},
		{Type: "Hồ sơ kế toán", Quantity: 1, Unit: "Tờ"},
	}

	details, order := BuildDocumentDetails(lines)

	require.Len(t, details, 2)
	assert.Equal(t, []string{"Hồ sơ thuế", "Hồ sơ kế toán"}, order)
	assert.Equal(t, DetailEntry{Quantity: 2, Unit: "Bộ"}, details["Hồ sơ thuế"])
	assert.Equal(t, DetailEntry{Quantity: 1, Unit: "Tờ"}, details["Hồ sơ kế toán"])
}

func TestBuildDocumentDetails_DropsEmptyTypes(t *testing.T) {
	lines := []DetailLine{
		{Type: "", Quantity: 2, Unit: "Bộ"},
		{Type: "   ", Quantity: 3, Unit: "Tờ"},
		{Type: "  Hồ sơ thuế  ", Quantity: 1, Unit: "Bộ"},
	}

	details, order := BuildDocumentDetails(lines)

	require.Len(t, details, 1)
	assert.Equal(t, []string{"Hồ sơ thuế"}, order)
	assert.Contains(t, details, "Hồ sơ thuế")
}

func TestBuildDocumentDetails_DuplicateTypeLastWins(t *testing.T) {
	lines := []DetailLine{
		{Type: "Hồ sơ thuế", Quantity: 2, Unit: "Bộ"},
		{Type: "Hồ sơ kế toán", Quantity: 5, Unit: "Tờ"},
		{Type: "Hồ sơ thuế", Quantity: 7, Unit: "Quyển"},
	}

	details, order := BuildDocumentDetails(lines)

	// không gộp số lượng, dòng sau ghi đè dòng trước
	require.Len(t, details, 2)
	assert.Equal(t, []string{"Hồ sơ thuế", "Hồ sơ kế toán"}, order)
	assert.Equal(t, DetailEntry{Quantity: 7, Unit: "Quyển"}, details["Hồ sơ thuế"])
}

func TestCoerceQuantity(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  int
	}{
		{"positive int", 3, 3},
		{"zero", 0, 1},
		{"negative", -5, 1},
		{"numeric string", "4", 4},
		{"garbage string", "abc", 1},
		{"negative string", "-2", 1},
		{"float from JSON", float64(6), 6},
		{"nil", nil, 1},
		{"empty string", "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceQuantity(tt.input))
		})
	}
}

func TestSummarizeDetails_RoundTrip(t *testing.T) {
	lines := []DetailLine{
		{Type: "Hồ sơ thuế", Quantity: 2, Unit: "Bộ"},
		{Type: "Hồ sơ kế toán", Quantity: 1, Unit: "Tờ"},
	}

	details, summary := DeriveSummary(lines)

	assert.Equal(t, "2 loại hồ sơ: 2 Bộ Hồ sơ thuế, 1 Tờ Hồ sơ kế toán", summary)
	assert.Equal(t, DetailMap{
		"Hồ sơ thuế":    {Quantity: 2, Unit: "Bộ"},
		"Hồ sơ kế toán": {Quantity: 1, Unit: "Tờ"},
	}, details)
}

func TestSummarizeDetails_Empty(t *testing.T) {
	details, order := BuildDocumentDetails(nil)
	assert.Equal(t, "0 loại hồ sơ: ", SummarizeDetails(details, order))
}

func TestParseLegacySummary(t *testing.T) {
	details, order := ParseLegacySummary("2 loại hồ sơ: 3 tờ Hồ sơ kế toán, 1 bộ Hồ sơ thuế")

	require.Len(t, details, 2)
	assert.Equal(t, []string{"Hồ sơ kế toán", "Hồ sơ thuế"}, order)
	// đơn vị được viết hoa chữ cái đầu
	assert.Equal(t, DetailEntry{Quantity: 3, Unit: "Tờ"}, details["Hồ sơ kế toán"])
	assert.Equal(t, DetailEntry{Quantity: 1, Unit: "Bộ"}, details["Hồ sơ thuế"])
}

func TestParseLegacySummary_SkipsBadSegments(t *testing.T) {
	details, order := ParseLegacySummary("3 loại hồ sơ: 2 tờ Hồ sơ kế toán, không đúng định dạng, 1 bộ Hồ sơ thuế")

	require.Len(t, details, 2)
	assert.Equal(t, []string{"Hồ sơ kế toán", "Hồ sơ thuế"}, order)
}

func TestParseLegacySummary_NoMarker(t *testing.T) {
	details, order := ParseLegacySummary("Hợp đồng lao động năm 2024")

	require.Len(t, details, 1)
	assert.Equal(t, []string{"Hợp đồng lao động năm 2024"}, order)
	assert.Equal(t, DetailEntry{Quantity: 1, Unit: DefaultUnit}, details["Hợp đồng lao động năm 2024"])
}

func TestParseLegacySummary_EmptyString(t *testing.T) {
	details, order := ParseLegacySummary("   ")
	assert.Empty(t, details)
	assert.Empty(t, order)
}

func TestEffectiveDetails(t *testing.T) {
	// có DocumentDetails thì dùng luôn
	tx := &DocumentTransaction{
		DocumentType: "1 loại hồ sơ: 9 tờ Không dùng đến",
		DocumentDetails: DetailMap{
			"Hồ sơ thuế": {Quantity: 2, Unit: "Bộ"},
		},
	}
	details, order := EffectiveDetails(tx)
	require.Len(t, details, 1)
	assert.Equal(t, []string{"Hồ sơ thuế"}, order)

	// bản ghi cũ rơi về parse chuỗi
	legacy := &DocumentTransaction{DocumentType: "1 loại hồ sơ: 4 cuốn Sổ phụ ngân hàng"}
	details, order = EffectiveDetails(legacy)
	require.Len(t, details, 1)
	assert.Equal(t, []string{"Sổ phụ ngân hàng"}, order)
	assert.Equal(t, DetailEntry{Quantity: 4, Unit: "Cuốn"}, details["Sổ phụ ngân hàng"])
}
