package service

import (
	"Resonance/internal/model"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postRepoMock struct {
	byAuthor map[string][]*model.Post
	byTarget map[string][]*model.Post
	latest   map[string]*model.Post
	err      error
}

func (m *postRepoMock) GetPoolByAuthor(_ context.Context, authorID string, _ []string) ([]*model.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byAuthor[authorID], nil
}

func (m *postRepoMock) GetPoolByTarget(_ context.Context, targetUserID string, _ []string) ([]*model.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byTarget[targetUserID], nil
}

func (m *postRepoMock) GetLatestByAuthor(_ context.Context, authorID string) (*model.Post, error) {
	return m.latest[authorID], nil
}

type userRepoMock struct {
	users map[string]*model.User
}

func (m *userRepoMock) GetUserById(_ context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}

var baseTime = time.Date(2018, 10, 10, 20, 19, 24, 0, time.UTC)

func replyPost(postID, authorID, targetID, text string, tags ...string) *model.Post {
	p := &model.Post{
		PostID:        postID,
		AuthorID:      authorID,
		Text:          text,
		CreatedAt:     baseTime,
		ReplyToUserID: &targetID,
		Lang:          "en",
		Hashtags:      model.HashtagList{},
	}
	for _, tag := range tags {
		p.Hashtags = append(p.Hashtags, model.Hashtag{Text: tag})
	}
	return p
}

func repostPost(postID, authorID, sourceAuthorID, text string) *model.Post {
	return &model.Post{
		PostID:       postID,
		AuthorID:     authorID,
		Text:         text,
		CreatedAt:    baseTime,
		RepostSource: model.RepostSource(`{"user":{"id_str":"` + sourceAuthorID + `"}}`),
		Lang:         "en",
		Hashtags:     model.HashtagList{},
	}
}

func knownUser(id, screenName string) *model.User {
	return &model.User{UserID: id, ScreenName: screenName, Description: "desc " + id}
}

func TestRecommendSeedAttribution(t *testing.T) {
	posts := &postRepoMock{
		byAuthor: map[string][]*model.Post{
			"u1": {replyPost("p1", "u1", "u9", "Hello world", "spain")},
		},
		latest: map[string]*model.Post{
			"u1": replyPost("p9", "u1", "u9", "Hello world"),
		},
	}
	users := &userRepoMock{users: map[string]*model.User{"u1": knownUser("u1", "seed")}}

	svc := NewRecommendService(posts, users, AttributionSeed)
	recs, err := svc.Recommend(context.Background(), "u1", TypeReply, "Hello", "spain")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "u1", recs[0].UserID)
	assert.Equal(t, "seed", recs[0].ScreenName)
	assert.Equal(t, "Hello world", recs[0].ContactTweetText)
}

func TestRecommendCounterpartyRanking(t *testing.T) {
	posts := &postRepoMock{
		byTarget: map[string][]*model.Post{
			"u1": {
				replyPost("p1", "u2", "u1", "great stuff"),
				replyPost("p2", "u2", "u1", "great again"),
				replyPost("p3", "u3", "u1", "great"),
			},
		},
		latest: map[string]*model.Post{
			"u2": replyPost("p2", "u2", "u1", "great again"),
			"u3": replyPost("p3", "u3", "u1", "great"),
		},
	}
	users := &userRepoMock{users: map[string]*model.User{
		"u2": knownUser("u2", "alice"),
		"u3": knownUser("u3", "bob"),
	}}

	svc := NewRecommendService(posts, users, AttributionCounterparty)
	recs, err := svc.Recommend(context.Background(), "u1", TypeReply, "great", "none")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "u2", recs[0].UserID)
	assert.Equal(t, "u3", recs[1].UserID)
}

func TestRecommendPhraseCountedPerOccurrence(t *testing.T) {
	// 短语出现两次的单帖要胜过只出现一次的
	posts := &postRepoMock{
		byTarget: map[string][]*model.Post{
			"u1": {
				replyPost("p1", "u3", "u1", "Hello there"),
				replyPost("p2", "u2", "u1", "Hello Hello"),
			},
		},
		latest: map[string]*model.Post{
			"u2": replyPost("p2", "u2", "u1", "Hello Hello"),
			"u3": replyPost("p1", "u3", "u1", "Hello there"),
		},
	}
	users := &userRepoMock{users: map[string]*model.User{
		"u2": knownUser("u2", "alice"),
		"u3": knownUser("u3", "bob"),
	}}

	svc := NewRecommendService(posts, users, AttributionCounterparty)
	recs, err := svc.Recommend(context.Background(), "u1", TypeReply, "Hello", "none")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "u2", recs[0].UserID)
}

func TestRecommendBothScansReplyAndRepostBranches(t *testing.T) {
	// 既是回复又是转发的帖子在 both 下被两个分支各扫一次，
	// 关键词计数因此翻倍，排名要高于拆成两帖只命中一次的候选
	dual := replyPost("p1", "u2", "u1", "Hello")
	dual.RepostSource = model.RepostSource(`{"user":{"id_str":"u1"}}`)

	posts := &postRepoMock{
		byTarget: map[string][]*model.Post{
			"u1": {
				replyPost("p2", "u3", "u1", "Hello"),
				repostPost("p3", "u3", "u1", "nothing here"),
				dual,
			},
		},
		latest: map[string]*model.Post{
			"u2": dual,
			"u3": replyPost("p2", "u3", "u1", "Hello"),
		},
	}
	users := &userRepoMock{users: map[string]*model.User{
		"u2": knownUser("u2", "alice"),
		"u3": knownUser("u3", "bob"),
	}}

	svc := NewRecommendService(posts, users, AttributionCounterparty)
	recs, err := svc.Recommend(context.Background(), "u1", TypeBoth, "Hello", "none")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "u2", recs[0].UserID)
	assert.Equal(t, "u3", recs[1].UserID)
}

func TestRecommendHashtagMatchCountsAsKeyword(t *testing.T) {
	// 正文不含短语但命中查询标签，关键词通道仍计 1，候选保留
	posts := &postRepoMock{
		byAuthor: map[string][]*model.Post{
			"u1": {replyPost("p1", "u1", "u9", "no phrase here", "Spain")},
		},
		latest: map[string]*model.Post{
			"u1": replyPost("p1", "u1", "u9", "no phrase here"),
		},
	}
	users := &userRepoMock{users: map[string]*model.User{"u1": knownUser("u1", "seed")}}

	svc := NewRecommendService(posts, users, AttributionSeed)
	recs, err := svc.Recommend(context.Background(), "u1", TypeReply, "absent", "spain")
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestRecommendZeroKeywordFiltered(t *testing.T) {
	posts := &postRepoMock{
		byAuthor: map[string][]*model.Post{
			"u1": {replyPost("p1", "u1", "u9", "nothing relevant")},
		},
		latest: map[string]*model.Post{"u1": replyPost("p1", "u1", "u9", "nothing relevant")},
	}
	users := &userRepoMock{users: map[string]*model.User{"u1": knownUser("u1", "seed")}}

	svc := NewRecommendService(posts, users, AttributionSeed)
	recs, err := svc.Recommend(context.Background(), "u1", TypeReply, "absent", "none")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommendEmptyPool(t *testing.T) {
	svc := NewRecommendService(&postRepoMock{}, &userRepoMock{}, AttributionSeed)
	recs, err := svc.Recommend(context.Background(), "unknown", TypeBoth, "x", "y")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommendRepoErrorMapped(t *testing.T) {
	posts := &postRepoMock{err: errors.New("connection refused")}
	svc := NewRecommendService(posts, &userRepoMock{}, AttributionSeed)
	recs, err := svc.Recommend(context.Background(), "u1", TypeReply, "x", "y")
	assert.Nil(t, recs)
	assert.ErrorIs(t, err, ErrUnexpected)
}

func TestRecommendUnresolvableCandidatesDropped(t *testing.T) {
	posts := &postRepoMock{
		byTarget: map[string][]*model.Post{
			"u1": {
				replyPost("p1", "u2", "u1", "Hello"),
				replyPost("p2", "u3", "u1", "Hello"),
				replyPost("p3", "u4", "u1", "Hello"),
			},
		},
		latest: map[string]*model.Post{
			"u2": replyPost("p1", "u2", "u1", "Hello"),
			// u3 无最新帖
			"u4": replyPost("p3", "u4", "u1", "Hello"),
		},
	}
	// u4 缺用户行
	users := &userRepoMock{users: map[string]*model.User{
		"u2": knownUser("u2", "alice"),
		"u3": knownUser("u3", "bob"),
	}}

	svc := NewRecommendService(posts, users, AttributionCounterparty)
	recs, err := svc.Recommend(context.Background(), "u1", TypeReply, "Hello", "none")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "u2", recs[0].UserID)
}

func TestRecommendDuplicatePostsDeduped(t *testing.T) {
	// u2 的同一帖子在池中出现两次；去重后与 u3 同分，
	// 首次归因顺序决定并列次序
	dup := replyPost("p2", "u2", "u1", "Hello")
	posts := &postRepoMock{
		byTarget: map[string][]*model.Post{
			"u1": {
				replyPost("p1", "u3", "u1", "Hello"),
				dup,
				dup,
			},
		},
		latest: map[string]*model.Post{
			"u2": dup,
			"u3": replyPost("p1", "u3", "u1", "Hello"),
		},
	}
	users := &userRepoMock{users: map[string]*model.User{
		"u2": knownUser("u2", "alice"),
		"u3": knownUser("u3", "bob"),
	}}

	svc := NewRecommendService(posts, users, AttributionCounterparty)
	recs, err := svc.Recommend(context.Background(), "u1", TypeReply, "Hello", "none")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "u3", recs[0].UserID)
	assert.Equal(t, "u2", recs[1].UserID)
}

func TestRecommendStableTieOrder(t *testing.T) {
	posts := &postRepoMock{
		byTarget: map[string][]*model.Post{
			"u1": {
				replyPost("p1", "u2", "u1", "Hello"),
				replyPost("p2", "u3", "u1", "Hello"),
			},
		},
		latest: map[string]*model.Post{
			"u2": replyPost("p1", "u2", "u1", "Hello"),
			"u3": replyPost("p2", "u3", "u1", "Hello"),
		},
	}
	users := &userRepoMock{users: map[string]*model.User{
		"u2": knownUser("u2", "alice"),
		"u3": knownUser("u3", "bob"),
	}}

	svc := NewRecommendService(posts, users, AttributionCounterparty)
	recs, err := svc.Recommend(context.Background(), "u1", TypeReply, "Hello", "none")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "u2", recs[0].UserID)
	assert.Equal(t, "u3", recs[1].UserID)
}
