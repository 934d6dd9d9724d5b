package service

import (
	"context"
	"errors"
	"time"

	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/app/repository"
	"github.com/minhvt/hosodoc-backend/pkg/logger"
	"github.com/minhvt/hosodoc-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("sai tên đăng nhập hoặc mật khẩu")
	ErrUserNotFound       = errors.New("không tìm thấy người dùng")
)

// TokenBlacklister thu hồi token sau khi logout (triển khai bởi pkg/redis)
type TokenBlacklister func(ctx context.Context, token string, expiry time.Duration) error

type AuthService interface {
	Login(userType, username, password string) (*model.User, *util.TokenPair, error)
	Logout(ctx context.Context, token string) error
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo         repository.UserRepository
	employeePassword string
	jwtSecret        string
	accessExpiry     time.Duration
	refreshExpiry    time.Duration
	blacklist        TokenBlacklister
}

func NewAuthService(
	userRepo repository.UserRepository,
	employeePassword string,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
	blacklist TokenBlacklister,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		employeePassword: employeePassword,
		jwtSecret:        jwtSecret,
		accessExpiry:     accessExpiry,
		refreshExpiry:    refreshExpiry,
		blacklist:        blacklist,
	}
}

// Login xác thực theo loại tài khoản: admin đối chiếu bản ghi users (bcrypt),
// nhân viên dùng mật khẩu chung từ cấu hình và không có bản ghi DB.
func (s *authService) Login(userType, username, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"user_type": userType,
		"username":  username,
	})

	switch userType {
	case string(model.RoleAdmin):
		return s.loginAdmin(username, password)
	case string(model.RoleEmployee):
		return s.loginEmployee(username, password)
	default:
		logger.Warn("Login failed: unknown user type", map[string]interface{}{
			"user_type": userType,
		})
		return nil, nil, ErrInvalidCredentials
	}
}

func (s *authService) loginAdmin(username, password string) (*model.User, *util.TokenPair, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: admin not found", map[string]interface{}{
				"username": username,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find admin user", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	if user.Role != model.RoleAdmin || !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid admin credentials", map[string]interface{}{
			"username": username,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Username,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("Admin logged in successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})
	return user, tokens, nil
}

func (s *authService) loginEmployee(username, password string) (*model.User, *util.TokenPair, error) {
	if password != s.employeePassword {
		logger.Warn("Login failed: invalid employee password", map[string]interface{}{
			"username": username,
		})
		return nil, nil, ErrInvalidCredentials
	}

	// Nhân viên không có bản ghi DB: danh tính chỉ tồn tại trong token
	user := &model.User{
		Username:    username,
		DisplayName: username,
		Role:        model.RoleEmployee,
	}

	tokens, err := util.GenerateTokenPair(
		0,
		username,
		string(model.RoleEmployee),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	logger.Info("Employee logged in successfully", map[string]interface{}{
		"username": username,
	})
	return user, tokens, nil
}

// Logout thu hồi token cho tới thời điểm hết hạn của chính nó
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		// token đã hết hạn hoặc không hợp lệ thì không cần thu hồi
		logger.Debug("Logout with invalid token, nothing to revoke", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	if s.blacklist == nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	if err := s.blacklist(ctx, token, remaining); err != nil {
		logger.Error("Failed to blacklist token on logout", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id":  claims.UserID,
		"username": claims.Username,
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
