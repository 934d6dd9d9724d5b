package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/cache"
	"github.com/minhvt/hosodoc-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBusinessTest(t *testing.T) (*gorm.DB, BusinessRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewBusinessRepository(testDB, cache.NewCountCache(), 45*time.Second)
	return testDB, repo
}

func TestBusinessRepository_Create(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name     string
		business *model.Business
		wantErr  bool
	}{
		{
			name: "Valid business",
			business: &model.Business{
				Name:  "Công ty TNHH An Phát",
				TaxID: "0312345678",
			},
			wantErr: false,
		},
		{
			name: "Duplicate tax ID",
			business: &model.Business{
				Name:  "Công ty khác",
				TaxID: "0312345678",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.business)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.business.ID)
			}
		})
	}
}

func TestBusinessRepository_FindByTaxID(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)

	business := &model.Business{
		Name:  "Công ty TNHH An Phát",
		TaxID: "0312345678",
	}
	require.NoError(t, repo.Create(business))

	found, err := repo.FindByTaxID("0312345678")
	require.NoError(t, err)
	assert.Equal(t, business.ID, found.ID)

	_, err = repo.FindByTaxID("9999999999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBusinessRepository_FindAll_SearchAndPaging(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Create(&model.Business{
			Name:  fmt.Sprintf("Công ty %d", i),
			TaxID: fmt.Sprintf("031234567%d", i),
		}))
	}
	require.NoError(t, repo.Create(&model.Business{
		Name:  "Doanh nghiệp tư nhân Bình Minh",
		TaxID: "0400000001",
	}))

	// tìm theo tên
	result, err := repo.FindAll(BusinessFilter{Search: "Bình Minh"})
	require.NoError(t, err)
	assert.Len(t, result.Businesses, 1)
	assert.Equal(t, int64(1), result.TotalCount)

	// tìm theo mã số thuế
	result, err = repo.FindAll(BusinessFilter{Search: "0312345673"})
	require.NoError(t, err)
	assert.Len(t, result.Businesses, 1)

	// phân trang
	result, err = repo.FindAll(BusinessFilter{Page: 2, PageSize: 4})
	require.NoError(t, err)
	assert.Len(t, result.Businesses, 2)
	assert.Equal(t, int64(6), result.TotalCount)
}

func TestBusinessRepository_FindAll_TotalCountCached(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	countCache := cache.NewCountCache()
	repo := NewBusinessRepository(testDB, countCache, 45*time.Second)

	require.NoError(t, repo.Create(&model.Business{Name: "Công ty A", TaxID: "0311111111"}))

	result, err := repo.FindAll(BusinessFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)

	// tạo thêm trong cửa sổ TTL: tổng vẫn là giá trị đã cache
	require.NoError(t, repo.Create(&model.Business{Name: "Công ty B", TaxID: "0322222222"}))

	result, err = repo.FindAll(BusinessFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	assert.Len(t, result.Businesses, 2)

	// Count trực tiếp không qua cache
	direct, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), direct)
}

func TestBusinessRepository_Update(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)

	business := &model.Business{
		Name:  "Công ty TNHH An Phát",
		TaxID: "0312345678",
	}
	require.NoError(t, repo.Create(business))

	business.Name = "Công ty TNHH An Phát Hưng"
	business.TaxPortalUsername = "anphat-tax"
	require.NoError(t, repo.Update(business))

	updated, err := repo.FindByID(business.ID)
	require.NoError(t, err)
	assert.Equal(t, "Công ty TNHH An Phát Hưng", updated.Name)
	assert.Equal(t, "anphat-tax", updated.TaxPortalUsername)
}

func TestBusinessRepository_Delete(t *testing.T) {
	testDB, repo := setupBusinessTest(t)
	defer db.CleanupTestDB(testDB)

	business := &model.Business{
		Name:  "Công ty TNHH An Phát",
		TaxID: "0312345678",
	}
	require.NoError(t, repo.Create(business))

	require.NoError(t, repo.Delete(business.ID))

	// soft delete
	_, err := repo.FindByID(business.ID)
	assert.Error(t, err)
}
