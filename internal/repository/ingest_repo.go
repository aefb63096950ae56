package repository

import (
	"Resonance/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngestRepo interface {
	SaveBatch(ctx context.Context, users []*model.User, posts []*model.Post) error
}

type IngestRepoImpl struct {
	db *gorm.DB
}

func NewIngestRepo(db *gorm.DB) IngestRepo {
	return &IngestRepoImpl{db: db}
}

// SaveBatch 单事务批量落库：先用户后帖子，主键冲突静默忽略
func (s *IngestRepoImpl) SaveBatch(ctx context.Context, users []*model.User, posts []*model.Post) error {
	if len(users) == 0 && len(posts) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(users) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error; err != nil {
				return err
			}
		}
		if len(posts) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&posts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
