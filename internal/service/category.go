package service

import (
	"Videoboxd/internal/model"
	"Videoboxd/internal/repository"
	"context"

	"github.com/pkg/errors"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	// GetCategory identifier可以是ID也可以是slug
	GetCategory(ctx context.Context, identifier string) (*model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) GetCategory(ctx context.Context, identifier string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.Wrapf(ErrCategoryNotFound, "identifier=%s", identifier)
		}
		return nil, err
	}
	return category, nil
}
