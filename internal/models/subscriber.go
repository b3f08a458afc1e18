package models

// Newsletter categories form a closed set. Adding one requires updating both
// the validation layer and the targeting queries that consume this list.
const (
	CategoryPolicy    = "SZAKPOLITIKA"
	CategoryDistrict  = "VALASZTOKERULET"
	CategoryGames     = "JATEKOSITAS"
	CategoryEUAffairs = "EUUGYEK"
)

// NewsletterCategories lists every valid category tag.
var NewsletterCategories = []string{
	CategoryPolicy,
	CategoryDistrict,
	CategoryGames,
	CategoryEUAffairs,
}

// Signup sources form a closed set as well.
const (
	SourceContactForm = "contact-form"
	SourcePopup       = "popup"
	SourceFooter      = "footer"
	SourceOther       = "other"
)

// SubscriberSources lists every valid signup source tag.
var SubscriberSources = []string{
	SourceContactForm,
	SourcePopup,
	SourceFooter,
	SourceOther,
}

// SubscriberModel is a newsletter subscriber. Email is stored
// lowercase-trimmed and unique; records are deactivated, never deleted, on
// unsubscribe. Categories stays non-empty while the subscriber is active.
type SubscriberModel struct {
	Base
	Email      string      `json:"email"       gorm:"uniqueIndex;not null"`
	Name       string      `json:"name"        gorm:"not null"`
	Categories StringArray `json:"categories"  gorm:"type:json"`
	Active     bool        `json:"active"      gorm:"index"`
	Source     string      `json:"source"      gorm:"default:contact-form"`
	Token      string      `json:"-"           gorm:"type:char(64);uniqueIndex"`
}

func (SubscriberModel) TableName() string { return "subscribers" }
