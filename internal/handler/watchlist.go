package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/reelist/internal/middleware"
	"github.com/user/reelist/internal/model"
	"github.com/user/reelist/internal/repository"
	"github.com/user/reelist/internal/utils"
)

// AddWatchlistRequest 添加片单请求，电影展示字段为入单时快照
type AddWatchlistRequest struct {
	MovieID     int     `json:"movie_id" binding:"required"`
	Title       string  `json:"movie_title" binding:"required"`
	PosterPath  string  `json:"movie_poster_path"`
	ReleaseDate string  `json:"movie_release_date"`
	VoteAverage float64 `json:"movie_vote_average"`
}

// ReorderRequest 重排请求，movieIds 必须是用户当前片单的完整排列
type ReorderRequest struct {
	MovieIDs []int `json:"movieIds" binding:"required"`
}

// ListWatchlist 获取当前用户片单
func (h *Handler) ListWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)

	entries, err := h.Repos.Watchlist.ListByUser(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// AddToWatchlist 添加电影到片单
func (h *Handler) AddToWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "电影 ID 和标题不能为空")
		return
	}

	entry := &model.WatchlistEntry{
		UserID:      userID,
		MovieID:     req.MovieID,
		Title:       req.Title,
		PosterPath:  req.PosterPath,
		ReleaseDate: req.ReleaseDate,
		VoteAverage: req.VoteAverage,
	}

	if err := h.Repos.Watchlist.Add(entry); err != nil {
		if errors.Is(err, repository.ErrAlreadyInWatchlist) {
			utils.Conflict(c, "电影已在片单中")
			return
		}
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "已加入片单"})
}

// RemoveFromWatchlist 从片单移除电影
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)

	movieID, err := atoiParam(c, "movieId")
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	if err := h.Repos.Watchlist.Remove(userID, movieID); err != nil {
		if errors.Is(err, repository.ErrNotInWatchlist) {
			utils.NotFound(c, "片单中没有这部电影")
			return
		}
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已从片单移除"})
}

// ReorderWatchlist 整体重排片单，事务内全量生效
func (h *Handler) ReorderWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "movieIds 必须为数组")
		return
	}

	if err := h.Repos.Watchlist.Reorder(userID, req.MovieIDs); err != nil {
		if errors.Is(err, repository.ErrReorderMismatch) {
			utils.BadRequest(c, "提交的顺序与当前片单内容不一致")
			return
		}
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "片单顺序已更新"})
}

// CheckWatchlist 检查电影是否在片单中（每张可见卡片并发调用一次）
func (h *Handler) CheckWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)

	movieID, err := atoiParam(c, "movieId")
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	inWatchlist, err := h.Repos.Watchlist.IsInWatchlist(userID, movieID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"inWatchlist": inWatchlist})
}
