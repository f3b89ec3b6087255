package service

import (
	"io"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/microservices/catalog/repository"
)

// PictureStore saves uploaded pictures and removes replaced ones.
type PictureStore interface {
	Save(r io.Reader, filename string) (string, error)
	Remove(ref string) error
}

// Upload is a picture attached to a create or update request.
type Upload struct {
	Body     io.Reader
	Filename string
}

type Service struct {
	CategoryService CategoryServiceInterface
	DishService     DishServiceInterface
}

func New(repo *repository.Repository, pics PictureStore, lg *logger.Logger) *Service {
	return &Service{
		CategoryService: NewCategoryService(repo.CategoryRepo, pics, lg),
		DishService:     NewDishService(repo.DishRepo, repo.CategoryRepo, pics, lg),
	}
}

// pictureSwap implements the file side of a picture change: the new file is
// written before the row, the old one is removed only after the row commits.
type pictureSwap struct {
	store PictureStore
	lg    *logger.Logger
}

func (p pictureSwap) save(up *Upload) (string, error) {
	if up == nil {
		return "", nil
	}
	return p.store.Save(up.Body, up.Filename)
}

// settle is called with the outcome of the row write.
func (p pictureSwap) settle(newRef, oldRef string, writeErr error) {
	switch {
	case writeErr != nil:
		p.remove(newRef)
	case newRef != "":
		p.remove(oldRef)
	}
}

func (p pictureSwap) remove(ref string) {
	if ref == "" {
		return
	}
	if err := p.store.Remove(ref); err != nil {
		p.lg.Warn("picture_cleanup_failed", map[string]any{"picture": ref, "error": err.Error()})
	}
}
