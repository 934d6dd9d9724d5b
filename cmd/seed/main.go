package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/minhvt/hosodoc-backend/config"
	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/app/repository"
	"github.com/minhvt/hosodoc-backend/internal/cache"
	"github.com/minhvt/hosodoc-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Import danh sách doanh nghiệp từ file XLSX xuất ra từ bảng theo dõi cũ.
// Cột kỳ vọng: Tên doanh nghiệp | Mã số thuế | Địa chỉ | SĐT | Email |
// Người đại diện | TK thuế | MK thuế | Ghi chú

func main() {
	// Kiểm tra tham số dòng lệnh
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	// Load cấu hình
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Kết nối DB
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	businessRepo := repository.NewBusinessRepository(db.GetDB(), cache.NewCountCache(), cfg.Records.CountCacheTTL)

	// Đọc file XLSX
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	businesses, err := readBusinessesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total businesses to import: %d\n", len(businesses))

	// Xác nhận trước khi ghi
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// Ghi theo batch
	batchSize := 200
	if err := businessRepo.BulkCreate(businesses, batchSize); err != nil {
		log.Fatal("Failed to bulk create businesses:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total businesses imported: %d\n", len(businesses))
}

func readBusinessesFromXLSX(filePath string) ([]model.Business, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// Sheet đầu tiên
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var businesses []model.Business
	seenTaxIDs := make(map[string]bool) // chống trùng mã số thuế trong file
	skippedCount := 0
	invalidTaxIDCount := 0

	// Bỏ qua dòng header
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 2 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(cell(row, 0))
		taxID := normalizeTaxID(cell(row, 1))
		address := strings.TrimSpace(cell(row, 2))
		phone := strings.TrimSpace(cell(row, 3))
		email := strings.TrimSpace(cell(row, 4))
		representative := strings.TrimSpace(cell(row, 5))
		taxPortalUsername := strings.TrimSpace(cell(row, 6))
		taxPortalPassword := strings.TrimSpace(cell(row, 7))
		notes := strings.TrimSpace(cell(row, 8))

		// Tên và mã số thuế là bắt buộc
		if name == "" || taxID == "" {
			skippedCount++
			continue
		}

		// Mã số thuế: 10 số, hoặc 13 số dạng chi nhánh 0312345678-001
		if !isValidTaxID(taxID) {
			invalidTaxIDCount++
			skippedCount++
			continue
		}

		if seenTaxIDs[taxID] {
			skippedCount++
			continue
		}
		seenTaxIDs[taxID] = true

		businesses = append(businesses, model.Business{
			Name:              name,
			TaxID:             taxID,
			Address:           address,
			Phone:             phone,
			Email:             email,
			Representative:    representative,
			TaxPortalUsername: taxPortalUsername,
			TaxPortalPassword: taxPortalPassword,
			Notes:             notes,
		})

		if len(businesses)%200 == 0 {
			fmt.Printf("Processed %d businesses...\n", len(businesses))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid businesses: %d\n", len(businesses))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with invalid tax ID: %d\n", invalidTaxIDCount)

	return businesses, nil
}

// cell trả về ô theo index, chuỗi rỗng nếu dòng ngắn hơn
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// normalizeTaxID bỏ khoảng trắng và dấu chấm hay gặp khi copy từ Excel
func normalizeTaxID(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	return s
}

var taxIDPattern = regexp.MustCompile(`^\d{10}(-\d{3})?$`)

func isValidTaxID(taxID string) bool {
	return taxIDPattern.MatchString(taxID)
}
