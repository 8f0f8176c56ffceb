package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/reelist/internal/config"
	"github.com/user/reelist/internal/middleware"
	"github.com/user/reelist/internal/model"
	"github.com/user/reelist/internal/repository"
	"github.com/user/reelist/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Repos  *repository.Repositories
	Config *config.Config
	TMDB   *service.TMDBService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	return &Handler{
		Repos:  repos,
		Config: cfg,
		TMDB:   service.NewTMDBService(cfg),
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	// 基础数据
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
	}

	// 注入用户信息
	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			res["UserInfo"] = su
		}
	}

	// 菜单高亮逻辑
	res["ActiveMenu"] = h.getActiveMenu(c.Request.URL.Path)

	// 合并传入的数据
	for k, v := range data {
		res[k] = v
	}

	return res
}

// getActiveMenu 根据路径判断当前高亮菜单
func (h *Handler) getActiveMenu(path string) string {
	switch path {
	case "/":
		return "home"
	case "/dashboard":
		return "watchlist"
	default:
		return ""
	}
}

// ==================== 页面 ====================

// Home 首页：未登录展示落地页，已登录展示正在热映/即将上映浏览页
func (h *Handler) Home(c *gin.Context) {
	if middleware.GetUserID(c) == 0 {
		c.HTML(http.StatusOK, "landing.html", h.RenderData(c, gin.H{
			"Title": h.Config.SiteName + " - 管理你的私人片单",
		}))
		return
	}

	c.HTML(http.StatusOK, "home.html", h.RenderData(c, gin.H{
		"Title": "浏览电影 - " + h.Config.SiteName,
	}))
}

// MoviePage 电影详情页
func (h *Handler) MoviePage(c *gin.Context) {
	movieID, err := atoiParam(c, "id")
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "电影未找到 - " + h.Config.SiteName,
		}))
		return
	}

	movie, err := h.TMDB.MovieDetail(c.Request.Context(), movieID)
	if err != nil {
		log.Printf("[MoviePage] 获取电影详情失败 (ID: %d): %v", movieID, err)
		c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
			"Title": "电影未找到 - " + h.Config.SiteName,
		}))
		return
	}

	// 检查是否已在片单
	userID := middleware.GetUserID(c)
	inWatchlist := false
	if userID > 0 {
		inWatchlist, _ = h.Repos.Watchlist.IsInWatchlist(userID, movieID)
	}

	c.HTML(http.StatusOK, "movie.html", h.RenderData(c, gin.H{
		"Title":       h.Config.SiteName,
		"Movie":       movie,
		"MovieID":     movieID,
		"InWatchlist": inWatchlist,
	}))
}

// Dashboard 我的片单页
func (h *Handler) Dashboard(c *gin.Context) {
	userID := middleware.GetUserID(c)

	entries, err := h.Repos.Watchlist.ListByUser(userID)
	if err != nil {
		log.Printf("[Dashboard] 获取片单失败 (用户: %d): %v", userID, err)
	}

	c.HTML(http.StatusOK, "dashboard.html", h.RenderData(c, gin.H{
		"Title":   "我的片单 - " + h.Config.SiteName,
		"Entries": entries,
	}))
}

// LoginPage 登录页面
func (h *Handler) LoginPage(c *gin.Context) {
	// 如果已经登录，直接跳转到首页
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
		"Title":    "登录 - " + h.Config.SiteName,
		"Redirect": c.Query("redirect"),
	}))
}

// RegisterPage 注册页面
func (h *Handler) RegisterPage(c *gin.Context) {
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
		"Title": "注册 - " + h.Config.SiteName,
	}))
}

// ==================== 会话辅助 ====================

// generateToken 生成 JWT
func (h *Handler) generateToken(user *model.User) (string, error) {
	claims := &middleware.Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.Config.JWTExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.Config.AppSecret))
}

// establishSession 登录成功后写入 Cookie 与 Session
func (h *Handler) establishSession(c *gin.Context, user *model.User, token string) {
	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)

	session := sessions.Default(c)
	session.Set("userinfo", model.SessionUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	session.Save()
}

// clearSession 登出时清理 Cookie 与 Session
func (h *Handler) clearSession(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)

	session := sessions.Default(c)
	session.Clear()
	session.Save()
}
