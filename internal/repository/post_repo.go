package repository

import (
	"Resonance/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	GetPoolByAuthor(ctx context.Context, authorID string, langs []string) ([]*model.Post, error)
	GetPoolByTarget(ctx context.Context, targetUserID string, langs []string) ([]*model.Post, error)
	GetLatestByAuthor(ctx context.Context, authorID string) (*model.Post, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db: db}
}

// GetPoolByAuthor 拉取种子用户自己发布的候选池，按时间与主键排序保证确定性
func (s *PostRepoImpl) GetPoolByAuthor(ctx context.Context, authorID string, langs []string) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	err := s.db.WithContext(ctx).
		Where("author_id = ? AND lang IN ?", authorID, langs).
		Where("text <> ''").
		Order("created_at, post_id").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPoolByTarget 拉取指向种子用户的帖子（对其的回复、对其内容的转发）
func (s *PostRepoImpl) GetPoolByTarget(ctx context.Context, targetUserID string, langs []string) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	err := s.db.WithContext(ctx).
		Where("lang IN ?", langs).
		Where("text <> ''").
		Where("in_reply_to_user_id = ? OR JSON_EXTRACT(retweeted_status, '$.user.id_str') = ?", targetUserID, targetUserID).
		Order("created_at, post_id").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostRepoImpl) GetLatestByAuthor(ctx context.Context, authorID string) (*model.Post, error) {
	post := &model.Post{}
	err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		First(post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return post, nil
}
