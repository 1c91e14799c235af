package admin

import (
	"time"

	"github.com/desbrava-pizza/internal/authz"
	handlershared "github.com/desbrava-pizza/internal/http/handlers/shared"
	"github.com/desbrava-pizza/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username       string                              `json:"username" binding:"required,max=64"`
	Password       string                              `json:"password" binding:"required,max=128"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// GetCaptcha 获取登录图片验证码，未启用时返回 enabled=false
func (h *Handler) GetCaptcha(c *gin.Context) {
	if h.CaptchaService == nil || !h.CaptchaService.Enabled() {
		response.Success(c, gin.H{"enabled": false})
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"enabled":      true,
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

// AdminLogin 后台登录
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}

	if h.CaptchaService != nil {
		if err := h.CaptchaService.Verify(req.CaptchaPayload.ToServicePayload()); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	admin, token, expiresAt, err := h.AuthService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if h.AuthzService != nil {
		if err := h.AuthzService.SyncAdminProfile(admin.ID, admin.Perfil); err != nil {
			handlershared.RequestLog(c).Warnw("admin_login_sync_profile_failed", "admin_id", admin.ID, "error", err)
		}
	}
	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
			"nome":     admin.Nome,
			"perfil":   admin.Perfil,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// GetAdminMe 当前后台用户与其权限
func (h *Handler) GetAdminMe(c *gin.Context) {
	id, ok := getAdminID(c)
	if !ok {
		return
	}
	admin, err := h.AuthService.GetAdmin(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var permissions []authz.Policy
	if h.AuthzService != nil {
		permissions, err = h.AuthzService.AdminPermissions(id)
		if err != nil {
			handlershared.RequestLog(c).Warnw("admin_me_permissions_failed", "admin_id", id, "error", err)
		}
	}
	response.Success(c, gin.H{
		"id":            admin.ID,
		"username":      admin.Username,
		"nome":          admin.Nome,
		"perfil":        admin.Perfil,
		"is_admin":      admin.IsAdmin(),
		"last_login_at": admin.LastLoginAt,
		"permissions":   permissions,
	})
}

// AdminLogout 退出登录，当前及其他设备的 token 一并失效
func (h *Handler) AdminLogout(c *gin.Context) {
	id, ok := getAdminID(c)
	if !ok {
		return
	}
	if err := h.AuthService.RevokeSessions(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
