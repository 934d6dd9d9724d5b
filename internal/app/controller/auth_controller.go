package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/minhvt/hosodoc-backend/internal/app/model"
	"github.com/minhvt/hosodoc-backend/internal/app/service"
	"github.com/minhvt/hosodoc-backend/internal/errors"
	"github.com/minhvt/hosodoc-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type LoginRequest struct {
	UserType string `json:"user_type" binding:"required,oneof=admin employee"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
	}
}

// Login đăng nhập admin hoặc nhân viên
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationRequired, "Thiếu thông tin đăng nhập")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.UserType, req.Username, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			errors.Unauthorized(c, "Sai tên đăng nhập hoặc mật khẩu")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"username": req.Username,
		})
		errors.InternalError(c, "Đăng nhập thất bại, vui lòng thử lại")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          toUserResponse(user),
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

// Logout thu hồi token hiện tại
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		errors.Unauthorized(c, "Vui lòng đăng nhập")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), parts[1]); err != nil {
		log.Error("Logout failed", err, nil)
		errors.InternalError(c, "Đăng xuất thất bại")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã đăng xuất",
	})
}

// Me trả về thông tin người dùng hiện tại từ token
// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	username, _ := middleware.GetUsername(c)
	role, ok := middleware.GetUserRole(c)
	if !ok {
		errors.Unauthorized(c, "Vui lòng đăng nhập")
		return
	}

	// Nhân viên không có bản ghi DB, trả thẳng từ claims
	if role != model.RoleAdmin || userID == 0 {
		c.JSON(http.StatusOK, gin.H{
			"user": UserResponse{
				Username:    username,
				DisplayName: username,
				Role:        string(role),
			},
		})
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if err == service.ErrUserNotFound {
			errors.NotFound(c, errors.ResourceNotFound, "Không tìm thấy người dùng")
			return
		}
		errors.InternalError(c, "Không lấy được thông tin người dùng")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": toUserResponse(user),
	})
}
