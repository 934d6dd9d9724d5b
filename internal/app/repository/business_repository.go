package repository

import (
	"time"

	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/cache"
	"github.com/minhvt/hosodoc-backend/pkg/logger"
	"gorm.io/gorm"
)

// businessCountKey key cache cho tổng số doanh nghiệp (phục vụ phân trang)
const businessCountKey = "business_count"

type BusinessFilter struct {
	Search   string // tìm theo tên hoặc mã số thuế
	Page     int    // trang, bắt đầu từ 1
	PageSize int    // số dòng mỗi trang; 0 = không phân trang
}

type BusinessListResult struct {
	Businesses []model.Business `json:"businesses"`
	TotalCount int64            `json:"total_count"`
}

type BusinessRepository interface {
	Create(business *model.Business) error
	BulkCreate(businesses []model.Business, batchSize int) error
	Update(business *model.Business) error
	Delete(id uint) error
	FindAll(filter BusinessFilter) (*BusinessListResult, error)
	FindByID(id uint) (*model.Business, error)
	FindByTaxID(taxID string) (*model.Business, error)
	Count() (int64, error)
}

type businessRepository struct {
	db         *gorm.DB
	countCache *cache.CountCache
	countTTL   time.Duration
}

// NewBusinessRepository tạo repository doanh nghiệp. countCache memo hóa
// tổng số dòng trong countTTL; không invalidate khi ghi nên tổng phân trang
// có thể trễ tối đa một cửa sổ TTL sau khi tạo/xóa.
func NewBusinessRepository(db *gorm.DB, countCache *cache.CountCache, countTTL time.Duration) BusinessRepository {
	return &businessRepository{db: db, countCache: countCache, countTTL: countTTL}
}

func (r *businessRepository) Create(business *model.Business) error {
	logger.Debug("Creating business in database", map[string]interface{}{
		"name":   business.Name,
		"tax_id": business.TaxID,
	})

	if err := r.db.Create(business).Error; err != nil {
		logger.Error("Failed to create business in database", err, map[string]interface{}{
			"name":   business.Name,
			"tax_id": business.TaxID,
		})
		return err
	}

	logger.Debug("Business created in database", map[string]interface{}{
		"business_id": business.ID,
		"tax_id":      business.TaxID,
	})
	return nil
}

// BulkCreate ghi theo batch, dùng cho import danh sách doanh nghiệp từ file
func (r *businessRepository) BulkCreate(businesses []model.Business, batchSize int) error {
	logger.Info("Bulk creating businesses", map[string]interface{}{
		"count":      len(businesses),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(businesses, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create businesses", err)
		return err
	}
	return nil
}

func (r *businessRepository) Update(business *model.Business) error {
	logger.Debug("Updating business in database", map[string]interface{}{
		"business_id": business.ID,
	})

	if err := r.db.Save(business).Error; err != nil {
		logger.Error("Failed to update business in database", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}
	return nil
}

func (r *businessRepository) Delete(id uint) error {
	logger.Debug("Deleting business from database", map[string]interface{}{
		"business_id": id,
	})

	if err := r.db.Delete(&model.Business{}, id).Error; err != nil {
		logger.Error("Failed to delete business from database", err, map[string]interface{}{
			"business_id": id,
		})
		return err
	}
	return nil
}

func (r *businessRepository) FindAll(filter BusinessFilter) (*BusinessListResult, error) {
	logger.Debug("Finding businesses", map[string]interface{}{
		"search":    filter.Search,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})

	query := r.db.Model(&model.Business{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR tax_id LIKE ?", like, like)
	}

	// Tổng số dòng: khi không có filter tìm kiếm thì lấy qua count cache
	// để tránh COUNT(*) toàn bảng mỗi lần đổi trang.
	var total int64
	var err error
	if filter.Search == "" {
		total, err = r.countCache.GetOrCompute(businessCountKey, r.countTTL, func() (int64, error) {
			var n int64
			if countErr := r.db.Model(&model.Business{}).Count(&n).Error; countErr != nil {
				return 0, countErr
			}
			return n, nil
		})
	} else {
		err = query.Session(&gorm.Session{}).Count(&total).Error
	}
	if err != nil {
		logger.Error("Failed to count businesses", err)
		return nil, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var businesses []model.Business
	if err := query.Order("name ASC").Find(&businesses).Error; err != nil {
		logger.Error("Failed to find businesses", err)
		return nil, err
	}

	logger.Debug("Businesses found", map[string]interface{}{
		"count":       len(businesses),
		"total_count": total,
	})
	return &BusinessListResult{Businesses: businesses, TotalCount: total}, nil
}

func (r *businessRepository) FindByID(id uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByTaxID(taxID string) (*model.Business, error) {
	var business model.Business
	if err := r.db.Where("tax_id = ?", taxID).First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// Count đếm trực tiếp, không qua cache (dùng cho seed/báo cáo)
func (r *businessRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&model.Business{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
