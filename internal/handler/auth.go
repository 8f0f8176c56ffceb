package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/user/reelist/internal/middleware"
	"github.com/user/reelist/internal/utils"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest 登录请求，标识同时匹配邮箱和用户名
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// Register 注册处理
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, registerBindMessage(err))
		return
	}

	// 唯一性检查（精确匹配，区分大小写），唯一约束兜底
	if existing, err := h.Repos.User.FindByUsername(req.Username); err != nil {
		utils.InternalServerError(c, "")
		return
	} else if existing != nil {
		utils.BadRequest(c, "该用户名已被注册")
		return
	}

	if existing, err := h.Repos.User.FindByEmail(req.Email); err != nil {
		utils.InternalServerError(c, "")
		return
	} else if existing != nil {
		utils.BadRequest(c, "该邮箱已被注册")
		return
	}

	user, err := h.Repos.User.Create(req.Username, req.Email, req.Password)
	if err != nil {
		utils.InternalServerError(c, "注册失败，请重试")
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	h.establishSession(c, user, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "注册成功",
		"user":    user,
		"token":   token,
	})
}

// registerBindMessage 将绑定错误转换为可读的校验消息
func registerBindMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Password" && fe.Tag() == "min" {
				return "密码至少需要 6 个字符"
			}
		}
	}
	return "用户名、邮箱和密码不能为空"
}

// Login 登录处理
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "邮箱/用户名和密码不能为空")
		return
	}

	user, err := h.Repos.User.FindByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	// 账号不存在与密码错误返回不同的提示，属于有意的体验取舍
	if user == nil {
		utils.Unauthorized(c, "该邮箱或用户名尚未注册")
		return
	}

	if !h.Repos.User.CheckPassword(user, req.Password) {
		utils.Unauthorized(c, "密码错误，请重试")
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	h.establishSession(c, user, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"user":    user,
		"token":   token,
	})
}

// CheckUsername 用户名可用性检查（输入超过 3 个字符后每次按键都会调用）
func (h *Handler) CheckUsername(c *gin.Context) {
	username := c.Param("username")
	if len(username) < 3 {
		utils.BadRequest(c, "用户名至少需要 3 个字符")
		return
	}

	exists, err := h.Repos.User.UsernameExists(username)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": !exists})
}

// Profile 当前用户信息（密码哈希不序列化）
func (h *Handler) Profile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.Repos.User.FindByID(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if user == nil {
		utils.Unauthorized(c, "用户不存在")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	h.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}
