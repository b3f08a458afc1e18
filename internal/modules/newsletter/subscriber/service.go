package subscriber

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/agorahq/core/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateEmail is returned when a subscribe request hits an email
	// that already has a record, active or not.
	ErrDuplicateEmail = errors.New("email already subscribed")
	// ErrNotFound is returned when a subscriber lookup comes up empty.
	ErrNotFound = errors.New("subscriber not found")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Subscribe creates a new subscriber record. An existing record with the
// same email is a conflict regardless of its active flag; reactivation goes
// through UpdatePreferences instead. The check runs unscoped because the
// unique index on email still covers soft-deleted rows.
func (s *Service) Subscribe(dto SubscribeDTO) (*models.SubscriberModel, error) {
	var count int64
	if err := s.db.Unscoped().Model(&models.SubscriberModel{}).
		Where("email = ?", dto.Email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	sub := models.SubscriberModel{
		Email:      dto.Email,
		Name:       dto.Name,
		Categories: dto.Categories,
		Active:     true,
		Source:     dto.Source,
		Token:      token,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Unsubscribe deactivates the subscriber with the given email. An unknown
// email is a benign no-op so the endpoint cannot be used to probe which
// addresses are on the list.
func (s *Service) Unsubscribe(email string) error {
	return s.db.Model(&models.SubscriberModel{}).
		Where("email = ?", email).
		Update("active", false).Error
}

// UnsubscribeByToken deactivates the subscriber holding the given token.
// Unlike the email path, a token that resolves to nothing is an error.
func (s *Service) UnsubscribeByToken(token string) error {
	result := s.db.Model(&models.SubscriberModel{}).
		Where("token = ?", token).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePreferences replaces the category set and optionally flips the
// active flag. Passing Active=true on a deactivated record is the
// re-subscribe path and requires a fresh category selection.
func (s *Service) UpdatePreferences(id string, dto UpdatePreferencesDTO) (*models.SubscriberModel, error) {
	sub, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"categories": models.StringArray(dto.Categories)}
	if dto.Active != nil {
		updates["active"] = *dto.Active
	}
	if err := s.db.Model(sub).Updates(updates).Error; err != nil {
		return nil, err
	}

	sub.Categories = dto.Categories
	if dto.Active != nil {
		sub.Active = *dto.Active
	}
	return sub, nil
}

// Get fetches one subscriber by ID.
func (s *Service) Get(id string) (*models.SubscriberModel, error) {
	var sub models.SubscriberModel
	if err := s.db.First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// GetByEmail fetches one subscriber by normalized email.
func (s *Service) GetByEmail(email string) (*models.SubscriberModel, error) {
	var sub models.SubscriberModel
	if err := s.db.First(&sub, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// ListFilter narrows the admin subscriber listing.
type ListFilter struct {
	Category string
	Active   *bool
	Source   string
}

// List returns subscribers matching the filter, newest first. Category
// filtering happens in Go because the categories column is JSON and the
// query has to behave the same on every backend.
func (s *Service) List(filter ListFilter) ([]models.SubscriberModel, error) {
	query := s.db.Model(&models.SubscriberModel{}).Order("created_at DESC")
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}

	var subs []models.SubscriberModel
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}

	if filter.Category == "" {
		return subs, nil
	}
	matched := make([]models.SubscriberModel, 0, len(subs))
	for _, sub := range subs {
		if sub.Categories.Contains(filter.Category) {
			matched = append(matched, sub)
		}
	}
	return matched, nil
}

// Delete soft-deletes a subscriber record. The email stays reserved by the
// unique index, so a later subscribe with it still conflicts.
func (s *Service) Delete(id string) error {
	result := s.db.Delete(&models.SubscriberModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats summarizes the list for the admin dashboard.
type Stats struct {
	Total      int64            `json:"total"`
	Active     int64            `json:"active"`
	ByCategory map[string]int64 `json:"by_category"`
	BySource   map[string]int64 `json:"by_source"`
}

func (s *Service) Stats() (*Stats, error) {
	var subs []models.SubscriberModel
	if err := s.db.Find(&subs).Error; err != nil {
		return nil, err
	}

	stats := Stats{
		ByCategory: make(map[string]int64, len(models.NewsletterCategories)),
		BySource:   make(map[string]int64, len(models.SubscriberSources)),
	}
	for _, cat := range models.NewsletterCategories {
		stats.ByCategory[cat] = 0
	}
	for _, sub := range subs {
		stats.Total++
		if sub.Active {
			stats.Active++
			for _, cat := range sub.Categories {
				stats.ByCategory[cat]++
			}
		}
		stats.BySource[sub.Source]++
	}
	return &stats, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token generation failed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
