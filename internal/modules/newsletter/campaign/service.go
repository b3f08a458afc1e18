package campaign

import (
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/agorahq/core/internal/config"
	"github.com/agorahq/core/internal/models"
	"github.com/agorahq/core/internal/pkg/mail"
	"github.com/agorahq/core/internal/pkg/markdown"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("campaign not found")
	ErrAlreadySent    = errors.New("campaign has already been sent")
	ErrSendInProgress = errors.New("campaign send is in progress")
	ErrNoRecipients   = errors.New("campaign resolved to zero recipients")
	ErrNotDraft       = errors.New("only draft campaigns can be edited")
)

// Mailer sends one rendered campaign email. *mail.Sender satisfies it; tests
// substitute a recording fake.
type Mailer interface {
	SendCampaign(to string, data mail.CampaignData) error
}

type Service struct {
	db     *gorm.DB
	mailer Mailer
	cfg    *config.AppConfig
	log    *zap.Logger
}

func NewService(db *gorm.DB, mailer Mailer, cfg *config.AppConfig, log *zap.Logger) *Service {
	return &Service{db: db, mailer: mailer, cfg: cfg, log: log}
}

// Create stores a new draft.
func (s *Service) Create(dto CampaignDTO) (*models.CampaignModel, error) {
	campaign := models.CampaignModel{
		Subject:          dto.Subject,
		Content:          dto.Content,
		Recipients:       dto.Recipients,
		TestEmail:        dto.TestEmail,
		SelectedCategory: dto.SelectedCategory,
		SelectedIDs:      dto.SelectedIDs,
		Status:           models.CampaignDraft,
	}
	if err := s.db.Create(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// Update rewrites a draft. Campaigns that left the draft state are immutable.
func (s *Service) Update(id string, dto CampaignDTO) (*models.CampaignModel, error) {
	campaign, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if campaign.Status != models.CampaignDraft {
		return nil, ErrNotDraft
	}

	updates := map[string]any{
		"subject":           dto.Subject,
		"content":           dto.Content,
		"recipients":        dto.Recipients,
		"test_email":        dto.TestEmail,
		"selected_category": dto.SelectedCategory,
		"selected_ids":      models.StringArray(dto.SelectedIDs),
	}
	if err := s.db.Model(campaign).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *Service) Get(id string) (*models.CampaignModel, error) {
	var campaign models.CampaignModel
	if err := s.db.First(&campaign, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// List returns campaigns newest first, optionally filtered by status.
func (s *Service) List(status string) ([]models.CampaignModel, error) {
	query := s.db.Model(&models.CampaignModel{}).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var campaigns []models.CampaignModel
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// Delete removes a draft. Sent campaigns stay for the send history.
func (s *Service) Delete(id string) error {
	campaign, err := s.Get(id)
	if err != nil {
		return err
	}
	if campaign.Status != models.CampaignDraft {
		return ErrNotDraft
	}
	return s.db.Delete(campaign).Error
}

// Send resolves the recipient list and dispatches the campaign. The call is
// synchronous; on return the campaign carries its final status and counts.
// A campaign that resolved to nobody stays in draft.
func (s *Service) Send(id string) (*models.CampaignModel, error) {
	campaign, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	switch campaign.Status {
	case models.CampaignSending:
		return nil, ErrSendInProgress
	case models.CampaignSent:
		return nil, ErrAlreadySent
	}

	recipients, err := resolveRecipients(s.db, campaign)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	body, err := markdown.Render(campaign.Content)
	if err != nil {
		return nil, fmt.Errorf("content rendering failed: %w", err)
	}

	if err := s.db.Model(campaign).Update("status", models.CampaignSending).Error; err != nil {
		return nil, err
	}

	sent, failed := 0, 0
	for _, recipient := range recipients {
		data := mail.CampaignData{
			SiteName: s.cfg.SiteName,
			Subject:  campaign.Subject,
			Body:     template.HTML(body),
		}
		if recipient.Token != "" {
			data.UnsubscribeURL = fmt.Sprintf("%s/api/v1/subscribers/unsubscribe?token=%s",
				s.cfg.ServerURL, recipient.Token)
		}
		if err := s.mailer.SendCampaign(recipient.Email, data); err != nil {
			failed++
			s.log.Warn("campaign mail failed",
				zap.String("campaign", campaign.ID),
				zap.String("email", recipient.Email),
				zap.Error(err))
			continue
		}
		sent++
	}

	status := models.CampaignSent
	if sent == 0 {
		status = models.CampaignFailed
	}
	now := time.Now()
	updates := map[string]any{
		"status":       status,
		"sent_count":   sent,
		"failed_count": failed,
		"sent_at":      &now,
	}
	if err := s.db.Model(campaign).Updates(updates).Error; err != nil {
		return nil, err
	}

	campaign.Status = status
	campaign.SentCount = sent
	campaign.FailedCount = failed
	campaign.SentAt = &now
	return campaign, nil
}

// PreviewRecipients reports who a campaign would reach without sending it.
func (s *Service) PreviewRecipients(id string) ([]Recipient, error) {
	campaign, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return resolveRecipients(s.db, campaign)
}
