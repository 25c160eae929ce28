package public

import (
	"errors"
	"time"

	"github.com/shopcore-next/internal/http/response"
	"github.com/shopcore-next/internal/models"
	"github.com/shopcore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserLoginRequest 用户登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserRegisterRequest 用户注册请求
type UserRegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// UserTokenResponse 登录/注册成功响应
type UserTokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, userAuthErrorRules, response.CodeInternal, "error.login_failed")
		return
	}
	response.Success(c, UserTokenResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		// 注册时密码校验失败复用 ErrInvalidCredentials
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeBadRequest, "error.password_invalid", nil)
			return
		}
		respondWithMappedError(c, err, userAuthErrorRules, response.CodeInternal, "error.register_failed")
		return
	}
	response.Created(c, UserTokenResponse{Token: token, ExpiresAt: expiresAt, User: user})
}
