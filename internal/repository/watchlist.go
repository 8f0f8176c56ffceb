package repository

import (
	"time"

	"github.com/user/reelist/internal/model"
	"gorm.io/gorm"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// ListByUser 获取用户片单，按 sort_order 升序；
// added_at 降序兜底排序（历史数据可能存在并列的 sort_order）
func (r *WatchlistRepository) ListByUser(userID int) ([]*model.WatchlistEntry, error) {
	entries := make([]*model.WatchlistEntry, 0)
	err := r.db.Where("user_id = ?", userID).
		Order("sort_order ASC, added_at DESC").
		Find(&entries).Error
	return entries, err
}

// Add 添加片单条目，排在当前末尾。
// 下一个 sort_order 在 INSERT 内部通过子查询计算，写入与取号同处一条语句，
// 并发 Add 不会取到相同的位置。重复添加依赖 (user_id, movie_id) 唯一约束，
// DO NOTHING 后受影响行数为 0 即视为冲突，不做先查后插。
func (r *WatchlistRepository) Add(e *model.WatchlistEntry) error {
	if e.AddedAt.IsZero() {
		e.AddedAt = time.Now()
	}

	res := r.db.Exec(`
		INSERT INTO watchlist_entries
			(user_id, movie_id, movie_title, movie_poster_path, movie_release_date, movie_vote_average, added_at, sort_order)
		SELECT ?, ?, ?, ?, ?, ?, ?, COALESCE(MAX(sort_order), 0) + 1
		FROM watchlist_entries WHERE user_id = ?
		ON CONFLICT (user_id, movie_id) DO NOTHING`,
		e.UserID, e.MovieID, e.Title, e.PosterPath, e.ReleaseDate, e.VoteAverage, e.AddedAt, e.UserID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyInWatchlist
	}
	return nil
}

// Remove 移除片单条目。删除后留下的 sort_order 空洞不做压缩，
// 排序只比较相对大小。
func (r *WatchlistRepository) Remove(userID, movieID int) error {
	res := r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&model.WatchlistEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotInWatchlist
	}
	return nil
}

// Reorder 整体重排：按传入顺序赋 sort_order = 下标 + 1，单事务全量生效。
// 传入的 ID 集合必须与用户当前片单完全一致（无遗漏、无外部 ID、无重复），
// 否则整个事务回滚并返回 ErrReorderMismatch。
func (r *WatchlistRepository) Reorder(userID int, movieIDs []int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var current []int
		if err := tx.Model(&model.WatchlistEntry{}).
			Where("user_id = ?", userID).
			Pluck("movie_id", &current).Error; err != nil {
			return err
		}

		if !sameIDSet(current, movieIDs) {
			return ErrReorderMismatch
		}

		for i, movieID := range movieIDs {
			if err := tx.Model(&model.WatchlistEntry{}).
				Where("user_id = ? AND movie_id = ?", userID, movieID).
				Update("sort_order", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// IsInWatchlist 检查电影是否在用户片单中。
// 无锁计数查询，页面会对可见的每张卡片并发调用。
func (r *WatchlistRepository) IsInWatchlist(userID, movieID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.WatchlistEntry{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Count(&count).Error
	return count > 0, err
}

// CountByUser 统计用户片单条目数
func (r *WatchlistRepository) CountByUser(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.WatchlistEntry{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

// sameIDSet 判断两组 ID 是否为同一集合，且 ids 内部无重复
func sameIDSet(current, ids []int) bool {
	if len(current) != len(ids) {
		return false
	}
	seen := make(map[int]bool, len(current))
	for _, id := range current {
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return false
		}
		// 删除已匹配项，同一 ID 出现两次即视为不一致
		delete(seen, id)
	}
	return true
}
