package service

import (
	"context"
	"testing"
	"time"

	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/app/repository"
	"github.com/minhvt/hosodoc-backend/internal/db"
	"github.com/minhvt/hosodoc-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testJWTSecret        = "test-secret"
	testEmployeePassword = "nhanvien123"
)

func setupAuthServiceTest(t *testing.T, blacklist TokenBlacklister) (*gorm.DB, AuthService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)

	hash, err := util.HashPassword("admin123")
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(&model.User{
		Username:     "admin",
		PasswordHash: hash,
		DisplayName:  "Quản trị viên",
		Role:         model.RoleAdmin,
	}))

	svc := NewAuthService(userRepo, testEmployeePassword, testJWTSecret,
		15*time.Minute, 7*24*time.Hour, blacklist)
	return testDB, svc
}

func TestAuthService_Login(t *testing.T) {
	testDB, svc := setupAuthServiceTest(t, nil)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name     string
		userType string
		username string
		password string
		wantErr  error
		wantRole model.UserRole
	}{
		{
			name:     "Admin with valid credentials",
			userType: "admin",
			username: "admin",
			password: "admin123",
			wantRole: model.RoleAdmin,
		},
		{
			name:     "Admin with wrong password",
			userType: "admin",
			username: "admin",
			password: "wrong",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Admin unknown username",
			userType: "admin",
			username: "khong-ton-tai",
			password: "admin123",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Employee with shared password",
			userType: "employee",
			username: "Nguyễn Văn An",
			password: testEmployeePassword,
			wantRole: model.RoleEmployee,
		},
		{
			name:     "Employee with wrong password",
			userType: "employee",
			username: "Nguyễn Văn An",
			password: "wrong",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Unknown user type",
			userType: "manager",
			username: "admin",
			password: "admin123",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := svc.Login(tt.userType, tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.NotEmpty(t, tokens.AccessToken)

			claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
			require.NoError(t, err)
			assert.Equal(t, string(tt.wantRole), claims.Role)
			assert.Equal(t, tt.username, claims.Username)
		})
	}
}

func TestAuthService_EmployeeHasNoDBRow(t *testing.T) {
	testDB, svc := setupAuthServiceTest(t, nil)
	defer db.CleanupTestDB(testDB)

	user, _, err := svc.Login("employee", "Nguyễn Văn An", testEmployeePassword)
	require.NoError(t, err)
	assert.Zero(t, user.ID)

	var count int64
	require.NoError(t, testDB.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count) // chỉ có admin seed
}

func TestAuthService_Logout_BlacklistsToken(t *testing.T) {
	var revokedToken string
	var revokedFor time.Duration
	blacklist := func(ctx context.Context, token string, expiry time.Duration) error {
		revokedToken = token
		revokedFor = expiry
		return nil
	}

	testDB, svc := setupAuthServiceTest(t, blacklist)
	defer db.CleanupTestDB(testDB)

	_, tokens, err := svc.Login("admin", "admin", "admin123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), tokens.AccessToken))
	assert.Equal(t, tokens.AccessToken, revokedToken)
	assert.Greater(t, revokedFor, time.Duration(0))

	// token rác: không lỗi, không thu hồi gì
	revokedToken = ""
	require.NoError(t, svc.Logout(context.Background(), "not-a-token"))
	assert.Empty(t, revokedToken)
}

func TestAuthService_GetUserByID(t *testing.T) {
	testDB, svc := setupAuthServiceTest(t, nil)
	defer db.CleanupTestDB(testDB)

	user, _, err := svc.Login("admin", "admin", "admin123")
	require.NoError(t, err)

	found, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", found.Username)

	_, err = svc.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
