package model

import (
	"time"
)

// WatchlistEntry 片单条目
// 入单时对电影展示字段做快照，上游条目之后的变更不会回写，
// 片单展示因此不依赖目录接口的可用性。
type WatchlistEntry struct {
	ID          int       `json:"-" db:"id"`
	UserID      int       `json:"-" db:"user_id" gorm:"uniqueIndex:idx_watchlist_user_movie;index:idx_watchlist_user_sort,priority:1"`
	MovieID     int       `json:"id" db:"movie_id" gorm:"uniqueIndex:idx_watchlist_user_movie"`
	Title       string    `json:"title" db:"movie_title" gorm:"column:movie_title"`
	PosterPath  string    `json:"poster_path" db:"movie_poster_path" gorm:"column:movie_poster_path"`
	ReleaseDate string    `json:"release_date" db:"movie_release_date" gorm:"column:movie_release_date"`
	VoteAverage float64   `json:"vote_average" db:"movie_vote_average" gorm:"column:movie_vote_average"`
	AddedAt     time.Time `json:"added_at" db:"added_at"`
	// SortOrder 仅用于同一用户条目间的相对排序，允许空洞和并列
	SortOrder int `json:"sort_order" db:"sort_order" gorm:"index:idx_watchlist_user_sort,priority:2"`
}
