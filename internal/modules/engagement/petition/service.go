package petition

import (
	"errors"

	"github.com/agorahq/core/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("petition not found")
	ErrDuplicateSlug = errors.New("petition slug already in use")
	ErrAlreadySigned = errors.New("email already signed this petition")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(dto PetitionDTO) (*models.PetitionModel, error) {
	if taken, err := s.slugTaken(dto.Slug, ""); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateSlug
	}

	petition := models.PetitionModel{
		Title:       dto.Title,
		Slug:        dto.Slug,
		Description: dto.Description,
		Goal:        dto.Goal,
		IsPublished: dto.Published(),
	}
	if err := s.db.Create(&petition).Error; err != nil {
		return nil, err
	}
	return &petition, nil
}

func (s *Service) Update(id string, dto PetitionDTO) (*models.PetitionModel, error) {
	petition, err := s.Get(id)
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
		"goal":         dto.Goal,
		"is_published": dto.Published(),
	}
	if err := s.db.Model(petition).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *Service) Get(id string) (*models.PetitionModel, error) {
	var petition models.PetitionModel
	if err := s.db.First(&petition, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &petition, nil
}

func (s *Service) GetBySlug(slug string, publishedOnly bool) (*models.PetitionModel, error) {
	query := s.db.Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var petition models.PetitionModel
	if err := query.First(&petition).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &petition, nil
}

func (s *Service) List(includeDrafts bool) ([]models.PetitionModel, error) {
	query := s.db.Model(&models.PetitionModel{}).Order("created_at DESC")
	if !includeDrafts {
		query = query.Where("is_published = ?", true)
	}
	var petitions []models.PetitionModel
	if err := query.Find(&petitions).Error; err != nil {
		return nil, err
	}
	return petitions, nil
}

func (s *Service) Delete(id string) error {
	petition, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PetitionSignatureModel{}, "petition_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(petition).Error
	})
}

// Sign records one signature. An email may sign a given petition once.
func (s *Service) Sign(petitionID string, dto SignDTO) (*models.PetitionSignatureModel, error) {
	if _, err := s.Get(petitionID); err != nil {
		return nil, err
	}

	var sig *models.PetitionSignatureModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PetitionSignatureModel{}).
			Where("petition_id = ? AND email = ?", petitionID, dto.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadySigned
		}

		sig = &models.PetitionSignatureModel{
			PetitionID: petitionID,
			Name:       dto.Name,
			Email:      dto.Email,
			Public:     dto.Public,
		}
		return tx.Create(sig).Error
	})
	if err != nil {
		return nil, err
	}
	return sig, nil
}

// SignatureCount reports the number of signatures for a petition.
func (s *Service) SignatureCount(petitionID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.PetitionSignatureModel{}).
		Where("petition_id = ?", petitionID).
		Count(&count).Error
	return count, err
}

// PublicSignatures lists only the names that consented to being shown.
func (s *Service) PublicSignatures(petitionID string) ([]string, error) {
	var sigs []models.PetitionSignatureModel
	if err := s.db.Where("petition_id = ? AND public = ?", petitionID, true).
		Order("created_at ASC").
		Find(&sigs).Error; err != nil {
		return nil, err
	}
	names := make([]string, 0, len(sigs))
	for _, sig := range sigs {
		names = append(names, sig.Name)
	}
	return names, nil
}

// Signatures lists every signature for the back-office.
func (s *Service) Signatures(petitionID string) ([]models.PetitionSignatureModel, error) {
	if _, err := s.Get(petitionID); err != nil {
		return nil, err
	}
	var sigs []models.PetitionSignatureModel
	if err := s.db.Where("petition_id = ?", petitionID).
		Order("created_at ASC").
		Find(&sigs).Error; err != nil {
		return nil, err
	}
	return sigs, nil
}

func (s *Service) slugTaken(slug, excludeID string) (bool, error) {
	query := s.db.Model(&models.PetitionModel{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
