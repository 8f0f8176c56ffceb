package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/reelist/internal/config"
	"golang.org/x/sync/errgroup"
)

// TMDBService 电影目录代理。API 密钥只在服务端持有，
// 上游响应原样转发，不做重试，任一上游失败整个请求按失败处理。
type TMDBService struct {
	config *config.Config
	client *http.Client
}

func NewTMDBService(cfg *config.Config) *TMDBService {
	return &TMDBService{
		config: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ListMovies 获取电影列表，category 为 popular / upcoming / now_playing
func (s *TMDBService) ListMovies(ctx context.Context, category string, page int) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/movie/%s?language=en-US&page=%d", s.config.TMDBBaseURL, category, page)
	return s.fetchRaw(ctx, url)
}

// MovieDetail 获取电影详情。详情、演职员、预告片三路并发请求，
// 合并为一个响应对象，全部成功才算成功。
func (s *TMDBService) MovieDetail(ctx context.Context, movieID int) (map[string]interface{}, error) {
	var (
		detail  map[string]interface{}
		credits map[string]interface{}
		videos  map[string]interface{}
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.fetchJSON(ctx, fmt.Sprintf("%s/movie/%d?language=en-US", s.config.TMDBBaseURL, movieID), &detail)
	})
	g.Go(func() error {
		return s.fetchJSON(ctx, fmt.Sprintf("%s/movie/%d/credits?language=en-US", s.config.TMDBBaseURL, movieID), &credits)
	})
	g.Go(func() error {
		return s.fetchJSON(ctx, fmt.Sprintf("%s/movie/%d/videos?language=en-US", s.config.TMDBBaseURL, movieID), &videos)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail["credits"] = credits
	detail["videos"] = videos
	return detail, nil
}

// fetchRaw 请求上游并原样返回响应体
func (s *TMDBService) fetchRaw(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.config.TMDBToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TMDB 请求失败，状态码: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (s *TMDBService) fetchJSON(ctx context.Context, url string, target interface{}) error {
	body, err := s.fetchRaw(ctx, url)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, target)
}
