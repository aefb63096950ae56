package ingest

import (
	"Resonance/internal/model"
	"Resonance/internal/repository"
	"context"
	log "log/slog"

	"github.com/goccy/go-json"
)

// DefaultBatchSize 达到该数量的待写帖子即触发一次落库
const DefaultBatchSize = 1000

// BatchResult 一次落库的可观测结果，失败的批次被丢弃而不重试
type BatchResult struct {
	Seq   int   `json:"seq"`
	Users int   `json:"users"`
	Posts int   `json:"posts"`
	Err   error `json:"-"`
}

type Report struct {
	Lines     int           `json:"lines"`
	Malformed int           `json:"malformed"`
	Missing   int           `json:"missing_identity"`
	Accepted  int           `json:"accepted"`
	Batches   []BatchResult `json:"batches"`
}

// FailedBatches 统计提交失败的批次数
func (r *Report) FailedBatches() int {
	n := 0
	for _, b := range r.Batches {
		if b.Err != nil {
			n++
		}
	}
	return n
}

// Accumulator 按行累积待写记录，批内用户首写生效
type Accumulator struct {
	repo      repository.IngestRepo
	batchSize int

	users  map[string]*model.User
	posts  []*model.Post
	report Report
}

func NewAccumulator(repo repository.IngestRepo, batchSize int) *Accumulator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Accumulator{
		repo:      repo,
		batchSize: batchSize,
		users:     make(map[string]*model.User),
	}
}

// AddLine 处理一行原始输入；坏行只跳过，绝不中断整次摄入
func (s *Accumulator) AddLine(ctx context.Context, line []byte) {
	s.report.Lines++

	var rec rawRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		s.report.Malformed++
		log.ErrorContext(ctx, "malformed json line skipped", "line", s.report.Lines, "err", err)
		return
	}

	if rec.IDStr == "" || rec.User.IDStr == "" {
		s.report.Missing++
		return
	}

	post, user, err := rec.toModels()
	if err != nil {
		s.report.Malformed++
		log.ErrorContext(ctx, "bad created_at skipped", "line", s.report.Lines, "post_id", rec.IDStr, "err", err)
		return
	}

	if _, ok := s.users[user.UserID]; !ok {
		s.users[user.UserID] = user
	}
	s.posts = append(s.posts, post)
	s.report.Accepted++

	if len(s.posts) >= s.batchSize {
		_ = s.Flush(ctx)
	}
}

// DropLine 将一行超出上限的输入按坏行计数，不尝试解析
func (s *Accumulator) DropLine(ctx context.Context, size int) {
	s.report.Lines++
	s.report.Malformed++
	log.ErrorContext(ctx, "oversized line skipped", "line", s.report.Lines, "bytes", size)
}

// Flush 将当前批次原子提交；失败记录在 Report 中，批次内容被丢弃
func (s *Accumulator) Flush(ctx context.Context) error {
	if len(s.posts) == 0 && len(s.users) == 0 {
		return nil
	}

	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}

	result := BatchResult{
		Seq:   len(s.report.Batches) + 1,
		Users: len(users),
		Posts: len(s.posts),
	}

	err := s.repo.SaveBatch(ctx, users, s.posts)
	if err != nil {
		result.Err = err
		log.ErrorContext(ctx, "bulk insert failed, batch lost", "batch", result.Seq, "posts", result.Posts, "err", err)
	} else {
		log.InfoContext(ctx, "bulk insert completed", "batch", result.Seq, "users", result.Users, "posts", result.Posts)
	}

	s.report.Batches = append(s.report.Batches, result)
	s.users = make(map[string]*model.User)
	s.posts = nil
	return err
}

// Pending 当前批次中待写帖子数
func (s *Accumulator) Pending() int {
	return len(s.posts)
}

func (s *Accumulator) Report() *Report {
	return &s.report
}
