package ingest

import (
	"Resonance/internal/model"
	"bytes"
	"time"

	"github.com/goccy/go-json"
)

// CreatedAtLayout 输入流的固定时间格式，如 "Wed Oct 10 20:19:24 +0000 2018"
const CreatedAtLayout = time.RubyDate

type rawUser struct {
	IDStr       string `json:"id_str"`
	ScreenName  string `json:"screen_name"`
	Description string `json:"description"`
}

type rawHashtag struct {
	Text string `json:"text"`
}

type rawEntities struct {
	Hashtags []rawHashtag `json:"hashtags"`
}

type rawRecord struct {
	IDStr           string          `json:"id_str"`
	User            rawUser         `json:"user"`
	Text            string          `json:"text"`
	CreatedAt       string          `json:"created_at"`
	InReplyToUserID json.RawMessage `json:"in_reply_to_user_id"`
	RetweetedStatus json.RawMessage `json:"retweeted_status"`
	Lang            string          `json:"lang"`
	Entities        rawEntities     `json:"entities"`
}

// replyTarget 源数据里该字段可能是数字、字符串或 null，统一转为 *string
func (r *rawRecord) replyTarget() *string {
	raw := bytes.TrimSpace(r.InReplyToUserID)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return nil
		}
		return &s
	}
	s := string(raw)
	return &s
}

// toModels 将一条原始记录转换为待落库的 Post/User 对
func (r *rawRecord) toModels() (*model.Post, *model.User, error) {
	createdAt, err := time.Parse(CreatedAtLayout, r.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	hashtags := make(model.HashtagList, 0, len(r.Entities.Hashtags))
	for _, h := range r.Entities.Hashtags {
		hashtags = append(hashtags, model.Hashtag{Text: h.Text})
	}

	var repost model.RepostSource
	if len(r.RetweetedStatus) > 0 && string(r.RetweetedStatus) != "null" {
		repost = model.RepostSource(r.RetweetedStatus)
	}

	post := &model.Post{
		PostID:        r.IDStr,
		AuthorID:      r.User.IDStr,
		Text:          r.Text,
		CreatedAt:     createdAt,
		ReplyToUserID: r.replyTarget(),
		RepostSource:  repost,
		Lang:          r.Lang,
		Hashtags:      hashtags,
	}
	user := &model.User{
		UserID:      r.User.IDStr,
		ScreenName:  r.User.ScreenName,
		Description: r.User.Description,
	}
	return post, user, nil
}
