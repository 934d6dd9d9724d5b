package util

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateDocumentNumber sinh số biên bản mặc định dạng BG-<năm>-<4 số>.
// Chỉ là giá trị gợi ý ban đầu, người dùng có thể sửa lại sau.
func GenerateDocumentNumber(now time.Time) string {
	return fmt.Sprintf("BG-%d-%04d", now.Year(), rand.Intn(10000))
}
