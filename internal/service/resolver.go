package service

import (
	"Videoboxd/internal/model"
	"Videoboxd/internal/repository"
	"context"

	"github.com/pkg/errors"
)

// EntityResolver 在事务开始前把平台和分类的slug解析成已有的行
type EntityResolver struct {
	platformRepo repository.PlatformRepository
	categoryRepo repository.CategoryRepository
}

func NewEntityResolver(platformRepo repository.PlatformRepository, categoryRepo repository.CategoryRepository) *EntityResolver {
	return &EntityResolver{
		platformRepo: platformRepo,
		categoryRepo: categoryRepo,
	}
}

// Resolve 平台必须存在；分类slug为空时返回nil分类，不为空则必须存在
func (r *EntityResolver) Resolve(ctx context.Context, platformSlug, categorySlug string) (*model.Platform, *model.Category, error) {
	platform, err := r.platformRepo.FindBySlug(ctx, platformSlug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, errors.Wrapf(ErrPlatformNotFound, "slug=%s", platformSlug)
		}
		return nil, nil, err
	}
	if categorySlug == "" {
		return platform, nil, nil
	}

	category, err := r.categoryRepo.FindBySlug(ctx, categorySlug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, errors.Wrapf(ErrCategoryNotFound, "slug=%s", categorySlug)
		}
		return nil, nil, err
	}
	return platform, category, nil
}
