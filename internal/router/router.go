package router

import (
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/user/reelist/internal/handler"
	"github.com/user/reelist/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 页面 ====================
	r.GET("/", middleware.OptionalAuth(h.Config.AppSecret), h.Home)
	r.GET("/movie/:id", middleware.OptionalAuth(h.Config.AppSecret), h.MoviePage)
	r.GET("/dashboard", middleware.RequireAuth(h.Config.AppSecret), h.Dashboard)

	// ==================== 认证 ====================
	auth := r.Group("/auth")
	{
		auth.GET("/login", middleware.OptionalAuth(h.Config.AppSecret), h.LoginPage)
		auth.GET("/register", middleware.OptionalAuth(h.Config.AppSecret), h.RegisterPage)

		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/check-username/:username", h.CheckUsername)
		auth.GET("/profile", middleware.RequireAuth(h.Config.AppSecret), h.Profile)
	}

	// ==================== 片单（需要登录）====================
	watchlist := r.Group("/watchlist")
	watchlist.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		watchlist.GET("", h.ListWatchlist)
		watchlist.POST("", h.AddToWatchlist)
		watchlist.DELETE("/:movieId", h.RemoveFromWatchlist)
		watchlist.PUT("/reorder", h.ReorderWatchlist)
		watchlist.GET("/check/:movieId", h.CheckWatchlist)
	}

	// ==================== 电影目录代理（公开）====================
	movies := r.Group("/movies")
	{
		movies.GET("/popular", h.PopularMovies)
		movies.GET("/upcoming", h.UpcomingMovies)
		movies.GET("/now-playing", h.NowPlayingMovies)
		movies.GET("/:id", h.MovieDetail)
	}
}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	// 获取布局和局部模板
	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	partials, err := filepath.Glob(templatesDir + "/partials/*.html")
	if err != nil {
		panic(err)
	}

	// 组装模板文件列表
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, view)
		return files
	}

	// 注册所有页面模板
	pages := []string{
		"landing", "home", "movie", "dashboard",
		"login", "register", "404",
	}

	for _, page := range pages {
		viewPath := templatesDir + "/pages/" + page + ".html"
		r.AddFromFiles(page+".html", assemble(viewPath)...)
	}

	return r
}
