package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/catalog/repository"
)

type CategoryServiceInterface interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name, description string, pic *Upload) (domain.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, patch domain.CategoryPatch, pic *Upload) (domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type CategoryService struct {
	repo repository.CategoryRepositoryInterface
	pics pictureSwap
}

func NewCategoryService(repo repository.CategoryRepositoryInterface, pics PictureStore, lg *logger.Logger) CategoryServiceInterface {
	return &CategoryService{repo: repo, pics: pictureSwap{store: pics, lg: lg}}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) CreateCategory(ctx context.Context, name, description string, pic *Upload) (domain.Category, error) {
	c, err := domain.NewCategory(name, description)
	if err != nil {
		return domain.Category{}, err
	}
	if c.Picture, err = s.pics.save(pic); err != nil {
		return domain.Category{}, err
	}
	err = s.repo.Insert(ctx, c)
	s.pics.settle(c.Picture, "", err)
	if err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

// UpdateCategory applies non-empty patch fields and replaces the picture
// when one is uploaded.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, patch domain.CategoryPatch, pic *Upload) (domain.Category, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}
	if v := trimmed(patch.Name); v != "" {
		c.Name = v
	}
	if v := trimmed(patch.Description); v != "" {
		c.Description = v
	}

	oldPic := c.Picture
	newPic, err := s.pics.save(pic)
	if err != nil {
		return domain.Category{}, err
	}
	if newPic != "" {
		c.Picture = newPic
	}

	err = s.repo.Update(ctx, c)
	s.pics.settle(newPic, oldPic, err)
	if err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.pics.remove(c.Picture)
	return nil
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
