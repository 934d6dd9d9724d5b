package scheduler

import (
	"github.com/minhvt/hosodoc-backend/internal/cache"
	"github.com/minhvt/hosodoc-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CacheSweeper dọn định kỳ các entry đã hết hạn trong count cache.
// Entry hết hạn vẫn được tính lại đúng khi đọc; sweep chỉ thu hồi bộ nhớ
// của các key không còn ai đọc tới.
type CacheSweeper struct {
	cron       *cron.Cron
	countCache *cache.CountCache
}

func NewCacheSweeper(countCache *cache.CountCache) *CacheSweeper {
	return &CacheSweeper{
		cron:       cron.New(),
		countCache: countCache,
	}
}

// Start chạy sweep mỗi 5 phút
func (s *CacheSweeper) Start() error {
	_, err := s.cron.AddFunc("*/5 * * * *", func() {
		removed := s.countCache.Sweep()
		if removed > 0 {
			logger.Info("Count cache sweep completed", map[string]interface{}{
				"removed_entries": removed,
			})
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for cache sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cache sweeper started successfully (every 5 minutes)", nil)

	return nil
}

// Stop dừng scheduler
func (s *CacheSweeper) Stop() {
	logger.Info("Stopping cache sweeper...", nil)
	s.cron.Stop()
	logger.Info("Cache sweeper stopped", nil)
}
