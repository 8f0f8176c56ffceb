package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/reelist/internal/utils"
)

// PopularMovies 热门电影列表（上游透传）
func (h *Handler) PopularMovies(c *gin.Context) {
	h.proxyMovieList(c, "popular")
}

// UpcomingMovies 即将上映列表
func (h *Handler) UpcomingMovies(c *gin.Context) {
	h.proxyMovieList(c, "upcoming")
}

// NowPlayingMovies 正在热映列表
func (h *Handler) NowPlayingMovies(c *gin.Context) {
	h.proxyMovieList(c, "now_playing")
}

// proxyMovieList 转发列表请求，上游响应体原样返回
func (h *Handler) proxyMovieList(c *gin.Context, category string) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	raw, err := h.TMDB.ListMovies(c.Request.Context(), category, page)
	if err != nil {
		log.Printf("[Movies] 获取电影列表失败 (%s): %v", category, err)
		utils.InternalServerError(c, "获取电影列表失败")
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// MovieDetail 电影详情，合并详情/演职员/预告片三路上游响应
func (h *Handler) MovieDetail(c *gin.Context) {
	movieID, err := atoiParam(c, "id")
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	detail, err := h.TMDB.MovieDetail(c.Request.Context(), movieID)
	if err != nil {
		log.Printf("[Movies] 获取电影详情失败 (ID: %d): %v", movieID, err)
		utils.InternalServerError(c, "获取电影详情失败")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// atoiParam 解析路径中的整数参数
func atoiParam(c *gin.Context, name string) (int, error) {
	return strconv.Atoi(c.Param(name))
}
