package repository

import (
	"Videoboxd/internal/model"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type PlatformRepository interface {
	FindBySlug(ctx context.Context, slug string) (*model.Platform, error)
	List(ctx context.Context) ([]model.Platform, error)
}

type platformRepository struct {
	db *gorm.DB
}

func NewPlatformRepository(db *gorm.DB) PlatformRepository {
	return &platformRepository{db: db}
}

func (r *platformRepository) FindBySlug(ctx context.Context, slug string) (*model.Platform, error) {
	var platform model.Platform
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&platform).Error; err != nil {
		return nil, errors.Wrapf(err, "find platform slug=%s", slug)
	}
	return &platform, nil
}

func (r *platformRepository) List(ctx context.Context) ([]model.Platform, error) {
	var platforms []model.Platform
	if err := r.db.WithContext(ctx).Order("slug asc").Find(&platforms).Error; err != nil {
		return nil, errors.Wrap(err, "list platforms")
	}
	return platforms, nil
}
