package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhvt/hosodoc-backend/config"
	"github.com/minhvt/hosodoc-backend/internal/app/controller"
	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/app/repository"
	"github.com/minhvt/hosodoc-backend/internal/app/service"
	"github.com/minhvt/hosodoc-backend/internal/cache"
	"github.com/minhvt/hosodoc-backend/internal/db"
	"github.com/minhvt/hosodoc-backend/internal/events"
	"github.com/minhvt/hosodoc-backend/internal/middleware"
	"github.com/minhvt/hosodoc-backend/internal/router"
	"github.com/minhvt/hosodoc-backend/internal/storage"
	"github.com/minhvt/hosodoc-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	integrationJWTSecret        = "integration-test-secret"
	integrationEmployeePassword = "nhanvien123"
	integrationDeletePassword   = "2025"
)

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	// Tài khoản admin cố định, như SeedAdmin làm lúc khởi động
	hash, err := util.HashPassword("admin123")
	require.NoError(t, err)
	require.NoError(t, testDB.Create(&model.User{
		Username:     "admin",
		PasswordHash: hash,
		DisplayName:  "Quản trị viên",
		Role:         model.RoleAdmin,
	}).Error)

	hub := events.NewHub()
	go hub.Run()

	userRepo := repository.NewUserRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB, cache.NewCountCache(), 45*time.Second)
	accountRepo := repository.NewBusinessAccountRepository(testDB)
	txRepo := repository.NewDocumentTransactionRepository(testDB)

	authService := service.NewAuthService(
		userRepo,
		integrationEmployeePassword,
		integrationJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
		nil,
	)
	businessService := service.NewBusinessService(testDB, businessRepo, accountRepo, txRepo, hub, integrationDeletePassword)
	transactionService := service.NewTransactionService(txRepo, businessRepo, hub, integrationDeletePassword)
	exportService := service.NewExportService(txRepo, businessRepo)

	s3Storage := storage.NewS3Storage("ap-southeast-1", "test-bucket", "test-key", "test-secret", "")

	cfg := &config.Config{}
	cfg.Server.GinMode = gin.TestMode
	cfg.CORS.AllowedOrigins = []string{"http://localhost:5173"}

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewBusinessController(businessService, transactionService),
		controller.NewTransactionController(transactionService, exportService),
		controller.NewUploadController(s3Storage),
		controller.NewEventsController(hub),
		middleware.NewAuthMiddleware(integrationJWTSecret, nil),
		cfg,
	)

	return &TestServer{
		Router: r.Setup(),
		DB:     testDB,
	}
}

func (ts *TestServer) request(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) login(t *testing.T, userType, username, password string) string {
	t.Helper()

	w := ts.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"user_type": userType,
		"username":  username,
		"password":  password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestCompleteRecordJourney(t *testing.T) {
	ts := setupIntegrationTest(t)

	// 1. Đăng nhập nhân viên bằng mật khẩu chung
	t.Log("Step 1: Employee login")
	token := ts.login(t, "employee", "nhanvien01", integrationEmployeePassword)

	// 2. Tạo doanh nghiệp kèm tài khoản cổng thuế
	t.Log("Step 2: Create business")
	w := ts.request(t, http.MethodPost, "/api/v1/businesses", token, gin.H{
		"business": gin.H{"name": "Công ty TNHH An Phát", "tax_id": "0312345678"},
		"account":  gin.H{"tax_portal_username": "anphat-mst", "tax_portal_password": "matkhau"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var createdBusiness struct {
		Business model.Business `json:"business"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createdBusiness))
	businessID := createdBusiness.Business.ID

	// 3. Tạo giao dịch bàn giao với chi tiết hồ sơ
	t.Log("Step 3: Create transaction")
	w = ts.request(t, http.MethodPost, "/api/v1/transactions", token, gin.H{
		"business_id":   businessID,
		"delivery_date": "2025-03-10",
		"details": []gin.H{
			{"type": "Hồ sơ thuế", "quantity": 2, "unit": "Bộ"},
			{"type": "Hồ sơ kế toán", "quantity": 1, "unit": "Tờ"},
		},
		"handled_by": "Trần Thị Bích",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var createdTx struct {
		Transaction model.DocumentTransaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createdTx))
	assert.Equal(t, "2 loại hồ sơ: 2 Bộ Hồ sơ thuế, 1 Tờ Hồ sơ kế toán", createdTx.Transaction.DocumentType)
	txID := createdTx.Transaction.ID

	// 4. Danh sách giao dịch theo doanh nghiệp
	t.Log("Step 4: List business transactions")
	w = ts.request(t, http.MethodGet, "/api/v1/businesses/"+itoa(businessID)+"/transactions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	// 5. Đổi số biên bản
	t.Log("Step 5: Update document number")
	w = ts.request(t, http.MethodPut, "/api/v1/transactions/"+itoa(txID)+"/number", token, gin.H{
		"document_number": "BG-2025-0042",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// 6. Xuất sổ bàn giao
	t.Log("Step 6: Export handover log")
	w = ts.request(t, http.MethodGet, "/api/v1/transactions/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	// 7. Xóa giao dịch: sai mật khẩu bị chặn, đúng mật khẩu thì xóa
	t.Log("Step 7: Delete transaction with password gate")
	w = ts.request(t, http.MethodDelete, "/api/v1/transactions/"+itoa(txID), token, gin.H{"password": "sai"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = ts.request(t, http.MethodDelete, "/api/v1/transactions/"+itoa(txID), token, gin.H{"password": integrationDeletePassword})
	require.Equal(t, http.StatusOK, w.Code)

	// 8. Xóa doanh nghiệp, tài khoản đi theo
	t.Log("Step 8: Delete business cascades")
	w = ts.request(t, http.MethodDelete, "/api/v1/businesses/"+itoa(businessID), token, gin.H{"password": integrationDeletePassword})
	require.Equal(t, http.StatusOK, w.Code)

	var accountCount int64
	require.NoError(t, ts.DB.Model(&model.BusinessAccount{}).Where("business_id = ?", businessID).Count(&accountCount).Error)
	assert.Zero(t, accountCount)
}

func TestAuthenticationFlow(t *testing.T) {
	ts := setupIntegrationTest(t)

	// Admin đăng nhập bằng tài khoản seed
	adminToken := ts.login(t, "admin", "admin", "admin123")

	w := ts.request(t, http.MethodGet, "/api/v1/auth/me", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var meResp struct {
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meResp))
	assert.Equal(t, "admin", meResp.User.Username)
	assert.Equal(t, "admin", meResp.User.Role)

	// Nhân viên không có bản ghi DB, /me trả từ claims
	employeeToken := ts.login(t, "employee", "nhanvien01", integrationEmployeePassword)

	w = ts.request(t, http.MethodGet, "/api/v1/auth/me", employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meResp))
	assert.Equal(t, "nhanvien01", meResp.User.Username)
	assert.Equal(t, "employee", meResp.User.Role)

	// Sai mật khẩu nhân viên
	w = ts.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"user_type": "employee",
		"username":  "nhanvien01",
		"password":  "sai",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnauthorizedAccess(t *testing.T) {
	ts := setupIntegrationTest(t)

	protectedRoutes := []string{
		"/api/v1/auth/me",
		"/api/v1/businesses",
		"/api/v1/transactions",
	}

	for _, route := range protectedRoutes {
		t.Run(route, func(t *testing.T) {
			w := ts.request(t, http.MethodGet, route, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
