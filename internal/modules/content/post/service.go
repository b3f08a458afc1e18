package post

import (
	"errors"

	"github.com/agorahq/core/internal/models"
	"github.com/agorahq/core/internal/pkg/pagination"
	"github.com/agorahq/core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("post not found")
	ErrDuplicateSlug   = errors.New("post slug already in use")
	ErrUnknownCategory = errors.New("unknown category")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(dto PostDTO) (*models.PostModel, error) {
	if err := s.checkRefs(dto, ""); err != nil {
		return nil, err
	}

	post := models.PostModel{
		Title:       dto.Title,
		Slug:        dto.Slug,
		Text:        dto.Text,
		Summary:     dto.Summary,
		CategoryID:  dto.CategoryID,
		Tags:        dto.Tags,
		IsPublished: dto.Published(),
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return s.Get(post.ID)
}

func (s *Service) Update(id string, dto PostDTO) (*models.PostModel, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(dto, post.ID); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"title":        dto.Title,
		"slug":         dto.Slug,
		"text":         dto.Text,
		"summary":      dto.Summary,
		"category_id":  dto.CategoryID,
		"tags":         models.StringArray(dto.Tags),
		"is_published": dto.Published(),
	}
	if err := s.db.Model(post).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *Service) Get(id string) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.db.Preload("Category").First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug fetches a published post and bumps its read counter.
func (s *Service) GetBySlug(slug string) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.db.Preload("Category").
		First(&post, "slug = ? AND is_published = ?", slug, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.db.Model(&post).UpdateColumn("read_count", gorm.Expr("read_count + 1"))
	post.ReadCount++
	return &post, nil
}

// ListFilter narrows the public post listing.
type ListFilter struct {
	CategorySlug string
	Tag          string
	All          bool // include drafts (admin listing)
}

// List returns posts newest first. Tag filtering happens in Go because tags
// live in a JSON column.
func (s *Service) List(filter ListFilter, q pagination.Query) ([]models.PostModel, response.Pagination, error) {
	query := s.db.Model(&models.PostModel{}).
		Preload("Category").
		Order("created_at DESC")
	if !filter.All {
		query = query.Where("is_published = ?", true)
	}
	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}

	if filter.Tag == "" {
		var posts []models.PostModel
		page, err := pagination.Paginate(query, q, &posts)
		return posts, page, err
	}

	var posts []models.PostModel
	if err := query.Find(&posts).Error; err != nil {
		return nil, response.Pagination{}, err
	}
	matched := make([]models.PostModel, 0, len(posts))
	for _, p := range posts {
		if p.Tags.Contains(filter.Tag) {
			matched = append(matched, p)
		}
	}
	page := paginateSlice(&matched, q)
	return matched, page, nil
}

func (s *Service) Delete(id string) error {
	result := s.db.Delete(&models.PostModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) checkRefs(dto PostDTO, excludeID string) error {
	query := s.db.Model(&models.PostModel{}).Where("slug = ?", dto.Slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateSlug
	}

	if err := s.db.Model(&models.CategoryModel{}).
		Where("id = ?", dto.CategoryID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUnknownCategory
	}
	return nil
}

func paginateSlice(posts *[]models.PostModel, q pagination.Query) response.Pagination {
	total := int64(len(*posts))
	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))

	start := (q.Page - 1) * q.Size
	if start > len(*posts) {
		start = len(*posts)
	}
	end := start + q.Size
	if end > len(*posts) {
		end = len(*posts)
	}
	*posts = (*posts)[start:end]

	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}
}
