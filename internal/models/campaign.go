package models

import "time"

// Campaign recipient-selection modes.
const (
	RecipientsTest     = "test"
	RecipientsAll      = "all"
	RecipientsCategory = "category"
	RecipientsList     = "list"
)

// Campaign send statuses.
const (
	CampaignDraft   = "draft"
	CampaignSending = "sending"
	CampaignSent    = "sent"
	CampaignFailed  = "failed"
)

// CampaignModel is a single newsletter send operation. The recipient mode's
// companion field (TestEmail / SelectedCategory / SelectedIDs) is validated
// before the campaign reaches the dispatcher.
type CampaignModel struct {
	Base
	Subject          string      `json:"subject"           gorm:"not null"`
	Content          string      `json:"content"           gorm:"type:longtext;not null"` // markdown source
	Recipients       string      `json:"recipients"        gorm:"index"`
	TestEmail        string      `json:"test_email"`
	SelectedCategory string      `json:"selected_category"`
	SelectedIDs      StringArray `json:"selected_ids"      gorm:"type:json"`
	Status           string      `json:"status"            gorm:"default:draft;index"`
	SentCount        int         `json:"sent_count"        gorm:"default:0"`
	FailedCount      int         `json:"failed_count"      gorm:"default:0"`
	SentAt           *time.Time  `json:"sent_at"`
}

func (CampaignModel) TableName() string { return "campaigns" }
