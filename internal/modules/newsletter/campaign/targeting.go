package campaign

import (
	"github.com/agorahq/core/internal/models"
	"gorm.io/gorm"
)

// Recipient is one resolved campaign target.
type Recipient struct {
	Email string
	Name  string
	Token string
}

// Target is the typed recipient selection of a validated campaign. Only the
// companion field of the active mode is ever read, which keeps the
// "missing companion" bug class confined to DTO validation.
type Target struct {
	Mode      string
	TestEmail string
	Category  string
	IDs       []string
}

func targetOf(campaign *models.CampaignModel) Target {
	return Target{
		Mode:      campaign.Recipients,
		TestEmail: campaign.TestEmail,
		Category:  campaign.SelectedCategory,
		IDs:       campaign.SelectedIDs,
	}
}

// resolve turns the target into the concrete recipient list. Inactive
// subscribers never make it into the result; the test mode bypasses the
// store entirely. Category matching runs in Go because the categories
// column is JSON and must behave identically on every backend.
func (t Target) resolve(db *gorm.DB) ([]Recipient, error) {
	if t.Mode == models.RecipientsTest {
		return []Recipient{{Email: t.TestEmail, Name: "Teszt"}}, nil
	}

	query := db.Model(&models.SubscriberModel{}).Where("active = ?", true)
	if t.Mode == models.RecipientsList {
		if len(t.IDs) == 0 {
			return nil, nil
		}
		// Stale ids simply fail to match; the send proceeds with the rest.
		query = query.Where("id IN ?", t.IDs)
	}

	var subs []models.SubscriberModel
	if err := query.Find(&subs).Error; err != nil {
		return nil, err
	}

	recipients := make([]Recipient, 0, len(subs))
	for _, sub := range subs {
		if t.Mode == models.RecipientsCategory && !sub.Categories.Contains(t.Category) {
			continue
		}
		recipients = append(recipients, Recipient{
			Email: sub.Email,
			Name:  sub.Name,
			Token: sub.Token,
		})
	}
	return recipients, nil
}

func resolveRecipients(db *gorm.DB, campaign *models.CampaignModel) ([]Recipient, error) {
	return targetOf(campaign).resolve(db)
}
