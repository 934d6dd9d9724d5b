// Package cache cung cấp bộ nhớ đệm TTL cho các phép tính tổng hợp tốn kém
// (đếm tổng số dòng phục vụ phân trang). Theo hợp đồng đã chốt: KHÔNG
// invalidate khi ghi — tổng hiển thị có thể trễ tối đa một cửa sổ TTL
// sau khi tạo/xóa bản ghi.
package cache

import (
	"sync"
	"time"

	"github.com/minhvt/hosodoc-backend/pkg/logger"
)

type entry struct {
	value    int64
	storedAt time.Time
	ttl      time.Duration
}

// CountCache memo hóa kết quả đếm theo key với TTL riêng từng entry.
type CountCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time // thay được trong test
}

func NewCountCache() *CountCache {
	return &CountCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// GetOrCompute trả về giá trị đã lưu nếu còn hạn (now - storedAt < ttl),
// không thì gọi compute, lưu lại rồi trả về. Lỗi từ compute không được cache.
func (c *CountCache) GetOrCompute(key string, ttl time.Duration, compute func() (int64, error)) (int64, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().Sub(e.storedAt) < ttl {
		return e.value, nil
	}

	value, err := compute()
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()

	return value, nil
}

// Sweep dọn các entry đã quá hạn TTL của chính nó. Chỉ là dọn rác,
// không ảnh hưởng tính đúng đắn (GetOrCompute tự kiểm tra hạn khi đọc).
func (c *CountCache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.storedAt) >= e.ttl {
			delete(c.entries, key)
			removed++
		}
	}

	if removed > 0 {
		logger.Debug("Count cache sweep removed expired entries", map[string]interface{}{
			"removed": removed,
		})
	}
	return removed
}

// Len số entry hiện có (phục vụ test và log)
func (c *CountCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
