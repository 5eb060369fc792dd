package repository

import (
	"Videoboxd/internal/model"
	"context"
	"strconv"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindByID(ctx context.Context, categoryID uint64) (*model.Category, error)
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)
	// 数字按ID找，否则按slug找
	FindByIdentifier(ctx context.Context, identifier string) (*model.Category, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindByID(ctx context.Context, categoryID uint64) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, categoryID).Error; err != nil {
		return nil, errors.Wrapf(err, "find category id=%d", categoryID)
	}
	return &category, nil
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, errors.Wrapf(err, "find category slug=%s", slug)
	}
	return &category, nil
}

func (r *categoryRepository) FindByIdentifier(ctx context.Context, identifier string) (*model.Category, error) {
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		return r.FindByID(ctx, id)
	}
	return r.FindBySlug(ctx, identifier)
}

func (r *categoryRepository) FindBySlugs(ctx context.Context, slugs []string) ([]model.Category, error) {
	var categories []model.Category
	if len(slugs) == 0 {
		return categories, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "find categories by slugs")
	}
	return categories, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}
