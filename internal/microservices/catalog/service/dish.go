package service

import (
	"context"

	"github.com/google/uuid"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/catalog/repository"
)

type DishServiceInterface interface {
	ListDishes(ctx context.Context, categoryID *uuid.UUID) ([]domain.Dish, error)
	GetDish(ctx context.Context, id uuid.UUID) (domain.Dish, error)
	CreateDish(ctx context.Context, d domain.Dish, pic *Upload) (domain.Dish, error)
	UpdateDish(ctx context.Context, id uuid.UUID, patch domain.DishPatch, pic *Upload) (domain.Dish, error)
	DeleteDish(ctx context.Context, id uuid.UUID) error
}

type DishService struct {
	repo       repository.DishRepositoryInterface
	categories repository.CategoryRepositoryInterface
	pics       pictureSwap
}

func NewDishService(repo repository.DishRepositoryInterface, categories repository.CategoryRepositoryInterface, pics PictureStore, lg *logger.Logger) DishServiceInterface {
	return &DishService{repo: repo, categories: categories, pics: pictureSwap{store: pics, lg: lg}}
}

func (s *DishService) ListDishes(ctx context.Context, categoryID *uuid.UUID) ([]domain.Dish, error) {
	return s.repo.List(ctx, categoryID)
}

func (s *DishService) GetDish(ctx context.Context, id uuid.UUID) (domain.Dish, error) {
	return s.repo.Get(ctx, id)
}

// CreateDish validates d, checks its category and stores it under a fresh id.
func (s *DishService) CreateDish(ctx context.Context, in domain.Dish, pic *Upload) (domain.Dish, error) {
	d, err := domain.NewDish(in.Name, in.CategoryID, in.Ingredients, in.Price)
	if err != nil {
		return domain.Dish{}, err
	}
	cat, err := s.category(ctx, d.CategoryID)
	if err != nil {
		return domain.Dish{}, err
	}
	d.Category = &cat

	if d.Picture, err = s.pics.save(pic); err != nil {
		return domain.Dish{}, err
	}
	err = s.repo.Insert(ctx, d)
	s.pics.settle(d.Picture, "", err)
	if err != nil {
		return domain.Dish{}, err
	}
	return d, nil
}

func (s *DishService) UpdateDish(ctx context.Context, id uuid.UUID, patch domain.DishPatch, pic *Upload) (domain.Dish, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Dish{}, err
	}
	if v := trimmed(patch.Name); v != "" {
		d.Name = v
	}
	if v := trimmed(patch.Ingredients); v != "" {
		d.Ingredients = v
	}
	if patch.Price != nil {
		d.Price = *patch.Price
	}
	if patch.CategoryID != nil && *patch.CategoryID != d.CategoryID {
		cat, err := s.category(ctx, *patch.CategoryID)
		if err != nil {
			return domain.Dish{}, err
		}
		d.CategoryID = cat.ID
		d.Category = &cat
	}
	if err := d.Validate(); err != nil {
		return domain.Dish{}, err
	}

	oldPic := d.Picture
	newPic, err := s.pics.save(pic)
	if err != nil {
		return domain.Dish{}, err
	}
	if newPic != "" {
		d.Picture = newPic
	}

	err = s.repo.Update(ctx, d)
	s.pics.settle(newPic, oldPic, err)
	if err != nil {
		return domain.Dish{}, err
	}
	return d, nil
}

func (s *DishService) DeleteDish(ctx context.Context, id uuid.UUID) error {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.pics.remove(d.Picture)
	return nil
}

// category resolves a dish's category reference. A dangling reference is
// the caller's input error, not a missing resource.
func (s *DishService) category(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	c, err := s.categories.Get(ctx, id)
	if domain.IsNotFound(err) {
		return domain.Category{}, domain.ValidationError{Field: "category", Message: "category does not exist"}
	}
	return c, err
}
