package category

import (
	"errors"
	"strings"

	"github.com/agorahq/core/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateSlug = errors.New("category slug already in use")
	ErrInUse         = errors.New("category still has posts")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(dto CategoryDTO) (*models.CategoryModel, error) {
	slug := strings.ToLower(strings.TrimSpace(dto.Slug))
	if taken, err := s.slugTaken(slug, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateSlug
	}

	cat := models.CategoryModel{Name: strings.TrimSpace(dto.Name), Slug: slug}
	if err := s.db.Create(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *Service) Update(id string, dto CategoryDTO) (*models.CategoryModel, error) {
	cat, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	slug := strings.ToLower(strings.TrimSpace(dto.Slug))
	if taken, err := s.slugTaken(slug, id); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateSlug
	}

	updates := map[string]any{"name": strings.TrimSpace(dto.Name), "slug": slug}
	if err := s.db.Model(cat).Updates(updates).Error; err != nil {
		return nil, err
	}
	cat.Name = updates["name"].(string)
	cat.Slug = slug
	return cat, nil
}

func (s *Service) Get(id string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (s *Service) GetBySlug(slug string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (s *Service) List() ([]models.CategoryModel, error) {
	var cats []models.CategoryModel
	if err := s.db.Order("name ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

// Delete refuses while posts still reference the category.
func (s *Service) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.PostModel{}).
		Where("category_id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	return s.db.Delete(&models.CategoryModel{}, "id = ?", id).Error
}

func (s *Service) slugTaken(slug, excludeID string) (bool, error) {
	query := s.db.Model(&models.CategoryModel{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
