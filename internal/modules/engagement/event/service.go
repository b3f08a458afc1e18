package event

import (
	"errors"
	"time"

	"github.com/agorahq/core/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("event not found")
	ErrDuplicateSlug     = errors.New("event slug already in use")
	ErrAlreadyRegistered = errors.New("email already registered for this event")
	ErrFull              = errors.New("event is at capacity")
	ErrClosed            = errors.New("event has already started")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(dto EventDTO) (*models.EventModel, error) {
	if taken, err := s.slugTaken(dto.Slug, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateSlug
	}

	event := models.EventModel{
		Title:       dto.Title,
		Slug:        dto.Slug,
		Description: dto.Description,
		Location:    dto.Location,
		StartsAt:    dto.StartsAt,
		Capacity:    dto.Capacity,
		IsPublished: dto.Published(),
	}
	if dto.EndsAt != nil {
		event.EndsAt = *dto.EndsAt
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *Service) Update(id string, dto EventDTO) (*models.EventModel, error) {
	event, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if taken, err := s.slugTaken(dto.Slug, id); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateSlug
	}

	updates := map[string]any{
		"title":        dto.Title,
		"slug":         dto.Slug,
		"description":  dto.Description,
		"location":     dto.Location,
		"starts_at":    dto.StartsAt,
		"capacity":     dto.Capacity,
		"is_published": dto.Published(),
	}
	if dto.EndsAt != nil {
		updates["ends_at"] = *dto.EndsAt
	}
	if err := s.db.Model(event).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *Service) Get(id string) (*models.EventModel, error) {
	var event models.EventModel
	if err := s.db.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (s *Service) GetBySlug(slug string, publishedOnly bool) (*models.EventModel, error) {
	query := s.db.Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var event models.EventModel
	if err := query.First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// List returns events ordered by start time. Public listings only see
// published, not-yet-finished events.
func (s *Service) List(includeDrafts bool) ([]models.EventModel, error) {
	query := s.db.Model(&models.EventModel{}).Order("starts_at ASC")
	if !includeDrafts {
		query = query.Where("is_published = ?", true)
	}
	var events []models.EventModel
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Service) Delete(id string) error {
	event, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.EventRegistrationModel{}, "event_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
}

// Register adds one attendee. Registration closes when the event starts,
// capacity (when set) is enforced, and an email may register only once.
func (s *Service) Register(eventID string, dto RegisterDTO) (*models.EventRegistrationModel, error) {
	event, err := s.Get(eventID)
	if err != nil {
		return nil, err
	}
	if time.Now().After(event.StartsAt) {
		return nil, ErrClosed
	}

	var reg *models.EventRegistrationModel
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.EventRegistrationModel{}).
			Where("event_id = ? AND email = ?", eventID, dto.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyRegistered
		}

		if event.Capacity > 0 {
			if err := tx.Model(&models.EventRegistrationModel{}).
				Where("event_id = ?", eventID).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(event.Capacity) {
				return ErrFull
			}
		}

		reg = &models.EventRegistrationModel{
			EventID: eventID,
			Name:    dto.Name,
			Email:   dto.Email,
		}
		return tx.Create(reg).Error
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Registrations lists attendees of one event, oldest first.
func (s *Service) Registrations(eventID string) ([]models.EventRegistrationModel, error) {
	if _, err := s.Get(eventID); err != nil {
		return nil, err
	}
	var regs []models.EventRegistrationModel
	if err := s.db.Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

// RegistrationCount reports how many attendees an event has.
func (s *Service) RegistrationCount(eventID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.EventRegistrationModel{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (s *Service) slugTaken(slug, excludeID string) (bool, error) {
	query := s.db.Model(&models.EventModel{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
