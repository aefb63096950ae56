package service

import (
	"Resonance/internal/api/dto"
	"Resonance/internal/model"
	"Resonance/internal/repository"
	"context"
	log "log/slog"
	"sort"
	"strings"

	"github.com/jinzhu/copier"
)

const (
	TypeReply   = "reply"
	TypeRetweet = "retweet"
	TypeBoth    = "both"

	// AttributionSeed 复刻基线：候选池为种子自己的帖子，三个通道全部归因到帖子作者（即种子本人）
	AttributionSeed = "seed"
	// AttributionCounterparty 备选模式：候选池为指向种子的帖子，得分归因到这些帖子的作者
	AttributionCounterparty = "counterparty"
)

// SupportedLangs 参与评分的语言白名单
var SupportedLangs = []string{"ar", "en", "fr", "in", "pt", "es", "tr", "ja"}

type RecommendService interface {
	Recommend(ctx context.Context, userID, queryType, phrase, hashtag string) ([]*dto.RecommendationDTO, error)
}

type recommendServiceImpl struct {
	postRepo    repository.PostRepo
	userRepo    repository.UserRepo
	attribution string
}

func NewRecommendService(postRepo repository.PostRepo, userRepo repository.UserRepo, attribution string) RecommendService {
	if attribution != AttributionCounterparty {
		attribution = AttributionSeed
	}
	return &recommendServiceImpl{
		postRepo:    postRepo,
		userRepo:    userRepo,
		attribution: attribution,
	}
}

// channelCounts 单个候选在三个通道上的累计计数
type channelCounts struct {
	reply   int
	repost  int
	hashtag int
	keyword int
}

// candidateSet 计数集合，order 记录首次归因顺序作为并列时的稳定次序
type candidateSet struct {
	counts map[string]*channelCounts
	order  []string
}

func newCandidateSet() *candidateSet {
	return &candidateSet{counts: make(map[string]*channelCounts)}
}

func (s *candidateSet) get(id string) *channelCounts {
	c, ok := s.counts[id]
	if !ok {
		c = &channelCounts{}
		s.counts[id] = c
		s.order = append(s.order, id)
	}
	return c
}

// Recommend 统一错误面：内部任何意外失败都以 ErrUnexpected 上抛
func (s *recommendServiceImpl) Recommend(ctx context.Context, userID, queryType, phrase, hashtag string) ([]*dto.RecommendationDTO, error) {
	recs, err := s.compute(ctx, userID, queryType, phrase, hashtag)
	if err != nil {
		log.ErrorContext(ctx, "recommendation computation failed", "user_id", userID, "err", err)
		return nil, ErrUnexpected
	}
	return recs, nil
}

func (s *recommendServiceImpl) compute(ctx context.Context, userID, queryType, phrase, hashtag string) ([]*dto.RecommendationDTO, error) {
	pool, err := s.fetchPool(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := newCandidateSet()

	// 交互通道：池内每位作者都计入候选全集，哪怕回复/转发计数为零
	for _, post := range pool {
		c := set.get(post.AuthorID)
		if post.IsReply() {
			c.reply++
		}
		if post.IsRepost() {
			c.repost++
		}
	}

	// 标签通道：大小写不敏感匹配查询标签
	for _, post := range pool {
		for _, tag := range post.Hashtags {
			if strings.ToLower(tag.Text) == hashtag {
				set.get(post.AuthorID).hashtag++
			}
		}
	}

	// 关键词通道：按查询类型过滤后统计短语出现次数，标签命中额外 +1。
	// 一条既是回复又是转发的帖子在 both 下会被两个分支各扫一次（按既有行为保留）。
	scanKeyword := func(post *model.Post) {
		c := set.get(post.AuthorID)
		if n := strings.Count(post.Text, phrase); n > 0 {
			c.keyword += n
		}
		for _, tag := range post.Hashtags {
			if strings.ToLower(tag.Text) == hashtag {
				c.keyword++
				break
			}
		}
	}
	if queryType == TypeReply || queryType == TypeBoth {
		for _, post := range pool {
			if post.IsReply() {
				scanKeyword(post)
			}
		}
	}
	if queryType == TypeRetweet || queryType == TypeBoth {
		for _, post := range pool {
			if post.IsRepost() {
				scanKeyword(post)
			}
		}
	}

	// 合成：缺失交互计 0、缺失标签计 1、缺失关键词计 0，零计数与缺省等价
	type scored struct {
		userID string
		final  float64
	}
	retained := make([]scored, 0, len(set.order))
	for _, id := range set.order {
		c := set.counts[id]
		final := interactionScore(c.reply, c.repost) * hashtagScore(c.hashtag) * keywordScore(c.keyword)
		if final > 0 {
			retained = append(retained, scored{userID: id, final: final})
		}
	}

	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].final > retained[j].final
	})

	// 展示解析：用户行或其最新帖缺失的候选直接剔除，不影响整个请求
	recs := make([]*dto.RecommendationDTO, 0, len(retained))
	for _, cand := range retained {
		user, err := s.userRepo.GetUserById(ctx, cand.userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			continue
		}
		latest, err := s.postRepo.GetLatestByAuthor(ctx, cand.userID)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			continue
		}

		rec := &dto.RecommendationDTO{}
		if err := copier.Copy(rec, user); err != nil {
			return nil, err
		}
		rec.ContactTweetText = latest.Text
		recs = append(recs, rec)
	}
	return recs, nil
}

// fetchPool 拉取候选池并按 post_id 去重，读侧兜底重复插入
func (s *recommendServiceImpl) fetchPool(ctx context.Context, userID string) ([]*model.Post, error) {
	var (
		posts []*model.Post
		err   error
	)
	if s.attribution == AttributionCounterparty {
		posts, err = s.postRepo.GetPoolByTarget(ctx, userID, SupportedLangs)
	} else {
		posts, err = s.postRepo.GetPoolByAuthor(ctx, userID, SupportedLangs)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(posts))
	pool := make([]*model.Post, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.PostID]; ok {
			continue
		}
		seen[p.PostID] = struct{}{}
		pool = append(pool, p)
	}
	return pool, nil
}
