package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

type Post struct {
	PostID        string       `gorm:"column:post_id;primaryKey;type:varchar(64)" json:"post_id"`
	AuthorID      string       `gorm:"column:author_id;type:varchar(64);not null;index:idx_author_id" json:"author_id"`
	Text          string       `gorm:"type:text" json:"text"`
	CreatedAt     time.Time    `gorm:"not null;index:idx_created_at" json:"created_at"`
	ReplyToUserID *string      `gorm:"column:in_reply_to_user_id;type:varchar(64);index:idx_reply_to" json:"in_reply_to_user_id,omitempty"`
	RepostSource  RepostSource `gorm:"column:retweeted_status;type:json" json:"retweeted_status,omitempty"`
	Lang          string       `gorm:"type:varchar(10);index:idx_lang" json:"lang"`
	Hashtags      HashtagList  `gorm:"type:json;not null" json:"hashtags"`
}

func (Post) TableName() string {
	return "posts"
}

// IsReply 是否为回复帖
func (p *Post) IsReply() bool {
	return p.ReplyToUserID != nil && *p.ReplyToUserID != ""
}

// IsRepost 是否为转发帖
func (p *Post) IsRepost() bool {
	return len(p.RepostSource) > 0
}

type Hashtag struct {
	Text string `json:"text"`
}

// HashtagList 以 JSON 列存储的标签序列，允许为空但不允许缺失
type HashtagList []Hashtag

func (h HashtagList) Value() (driver.Value, error) {
	if h == nil {
		h = HashtagList{}
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (h *HashtagList) Scan(value interface{}) error {
	bytes, err := toBytes(value)
	if err != nil {
		return err
	}
	if bytes == nil {
		*h = HashtagList{}
		return nil
	}
	return json.Unmarshal(bytes, h)
}

// RepostSource 原样保存的转发源文档，空值落库为 NULL
type RepostSource json.RawMessage

func (r RepostSource) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	return string(r), nil
}

func (r *RepostSource) Scan(value interface{}) error {
	bytes, err := toBytes(value)
	if err != nil {
		return err
	}
	if bytes == nil {
		*r = nil
		return nil
	}
	*r = append((*r)[:0], bytes...)
	return nil
}

func (r RepostSource) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *RepostSource) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = nil
		return nil
	}
	*r = append((*r)[:0], data...)
	return nil
}

// AuthorID 提取转发源作者的 user.id_str，缺失时返回空串
func (r RepostSource) AuthorID() string {
	if len(r) == 0 {
		return ""
	}
	var doc struct {
		User struct {
			IDStr string `json:"id_str"`
		} `json:"user"`
	}
	if err := json.Unmarshal(r, &doc); err != nil {
		return ""
	}
	return doc.User.IDStr
}

func toBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New(fmt.Sprint("failed to scan JSON value:", value))
	}
}
