package campaign

import (
	"strings"
	"time"

	"github.com/agorahq/core/internal/models"
	"github.com/agorahq/core/internal/pkg/validate"
)

const (
	subjectMinLen = 5
	subjectMaxLen = 200
	contentMinLen = 10
	contentMaxLen = 50000
)

var recipientModes = []string{
	models.RecipientsTest,
	models.RecipientsAll,
	models.RecipientsCategory,
	models.RecipientsList,
}

// CampaignDTO creates or updates a campaign draft. Each recipient mode has a
// companion field that must be present for that mode and is ignored for the
// others.
type CampaignDTO struct {
	Subject          string   `json:"subject"`
	Content          string   `json:"content"`
	Recipients       string   `json:"recipients"`
	TestEmail        string   `json:"test_email"`
	SelectedCategory string   `json:"selected_category"`
	SelectedIDs      []string `json:"selected_ids"`
}

func (d *CampaignDTO) Normalize() {
	d.Subject = strings.TrimSpace(d.Subject)
	d.Recipients = strings.ToLower(strings.TrimSpace(d.Recipients))
	d.TestEmail = validate.NormalizeEmail(d.TestEmail)
	d.SelectedCategory = strings.ToUpper(strings.TrimSpace(d.SelectedCategory))
	ids := make([]string, 0, len(d.SelectedIDs))
	for _, id := range d.SelectedIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	d.SelectedIDs = ids
}

func (d CampaignDTO) Validate() validate.FieldErrors {
	errs := validate.FieldErrors{}

	if n := validate.RuneLen(d.Subject); n < subjectMinLen || n > subjectMaxLen {
		errs.Add("subject", "must be between 5 and 200 characters")
	}
	if n := validate.RuneLen(d.Content); n < contentMinLen || n > contentMaxLen {
		errs.Add("content", "must be between 10 and 50000 characters")
	}

	switch d.Recipients {
	case models.RecipientsTest:
		if !validate.IsEmail(d.TestEmail) {
			errs.Add("test_email", "a valid test email is required for test sends")
		}
	case models.RecipientsAll:
		// No companion field.
	case models.RecipientsCategory:
		if !containsString(models.NewsletterCategories, d.SelectedCategory) {
			errs.Add("selected_category", "must be one of: "+strings.Join(models.NewsletterCategories, ", "))
		}
	case models.RecipientsList:
		if len(d.SelectedIDs) == 0 {
			errs.Add("selected_ids", "at least one subscriber id is required for list sends")
		}
	default:
		errs.Add("recipients", "must be one of: "+strings.Join(recipientModes, ", "))
	}

	return errs
}

func containsString(set []string, v string) bool {
	for _, item := range set {
		if item == v {
			return true
		}
	}
	return false
}

// campaignResponse is the API shape for a campaign.
type campaignResponse struct {
	ID               string     `json:"id"`
	Subject          string     `json:"subject"`
	Content          string     `json:"content"`
	Recipients       string     `json:"recipients"`
	TestEmail        string     `json:"test_email,omitempty"`
	SelectedCategory string     `json:"selected_category,omitempty"`
	SelectedIDs      []string   `json:"selected_ids,omitempty"`
	Status           string     `json:"status"`
	SentCount        int        `json:"sent_count"`
	FailedCount      int        `json:"failed_count"`
	SentAt           *time.Time `json:"sent_at"`
	Created          time.Time  `json:"created"`
}

func toResponse(m *models.CampaignModel) campaignResponse {
	return campaignResponse{
		ID:               m.ID,
		Subject:          m.Subject,
		Content:          m.Content,
		Recipients:       m.Recipients,
		TestEmail:        m.TestEmail,
		SelectedCategory: m.SelectedCategory,
		SelectedIDs:      m.SelectedIDs,
		Status:           m.Status,
		SentCount:        m.SentCount,
		FailedCount:      m.FailedCount,
		SentAt:           m.SentAt,
		Created:          m.CreatedAt,
	}
}
