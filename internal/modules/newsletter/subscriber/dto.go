package subscriber

import (
	"strings"
	"time"

	"github.com/agorahq/core/internal/models"
	"github.com/agorahq/core/internal/pkg/validate"
)

const (
	nameMinLen    = 2
	nameMaxLen    = 100
	emailMaxLen   = 254
	maxCategories = 4
	tokenLen      = 64
)

// SubscribeDTO is the public subscribe request body.
type SubscribeDTO struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Categories []string `json:"categories"`
	Source     string   `json:"source"`
}

// Normalize trims the name, lowercases the email, uppercases category tags
// and applies the default source. Call before Validate.
func (d *SubscribeDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = validate.NormalizeEmail(d.Email)
	for i, cat := range d.Categories {
		d.Categories[i] = strings.ToUpper(strings.TrimSpace(cat))
	}
	d.Source = strings.ToLower(strings.TrimSpace(d.Source))
	if d.Source == "" {
		d.Source = models.SourceContactForm
	}
}

// Validate checks the structural rules and reports every violated field.
// The name is stored as-is; escaping it is the renderer's concern.
func (d SubscribeDTO) Validate() validate.FieldErrors {
	errs := validate.FieldErrors{}

	if n := validate.RuneLen(d.Name); n < nameMinLen || n > nameMaxLen {
		errs.Add("name", "must be between 2 and 100 characters")
	}
	if len(d.Email) > emailMaxLen {
		errs.Add("email", "must not exceed 254 characters")
	} else if !validate.IsEmail(d.Email) {
		errs.Add("email", "must be a valid email address")
	}

	validateCategories(errs, d.Categories)

	if !contains(models.SubscriberSources, d.Source) {
		errs.Add("source", "must be one of: "+strings.Join(models.SubscriberSources, ", "))
	}

	return errs
}

// UpdatePreferencesDTO replaces a subscriber's category set and optionally
// flips the active flag (re-subscribe / deactivate).
type UpdatePreferencesDTO struct {
	Categories []string `json:"categories"`
	Active     *bool    `json:"active"`
}

func (d *UpdatePreferencesDTO) Normalize() {
	for i, cat := range d.Categories {
		d.Categories[i] = strings.ToUpper(strings.TrimSpace(cat))
	}
}

func (d UpdatePreferencesDTO) Validate() validate.FieldErrors {
	errs := validate.FieldErrors{}
	validateCategories(errs, d.Categories)
	return errs
}

// UnsubscribeDTO accepts either an email or an opaque 64-character token.
type UnsubscribeDTO struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

func (d *UnsubscribeDTO) Normalize() {
	d.Email = validate.NormalizeEmail(d.Email)
	d.Token = strings.TrimSpace(d.Token)
}

func (d UnsubscribeDTO) Validate() validate.FieldErrors {
	errs := validate.FieldErrors{}
	if d.Email == "" && d.Token == "" {
		errs.Add("email", "either email or token is required")
		return errs
	}
	if d.Token != "" && len(d.Token) != tokenLen {
		errs.Add("token", "must be exactly 64 characters")
	}
	if d.Email != "" && !validate.IsEmail(d.Email) {
		errs.Add("email", "must be a valid email address")
	}
	return errs
}

func validateCategories(errs validate.FieldErrors, categories []string) {
	if len(categories) == 0 {
		errs.Add("categories", "at least one category is required")
		return
	}
	if len(categories) > maxCategories {
		errs.Add("categories", "at most 4 categories are allowed")
		return
	}
	seen := make(map[string]bool, len(categories))
	for _, cat := range categories {
		if !contains(models.NewsletterCategories, cat) {
			errs.Add("categories", "unknown category: "+cat)
			return
		}
		if seen[cat] {
			errs.Add("categories", "categories must be distinct")
			return
		}
		seen[cat] = true
	}
}

func contains(set []string, v string) bool {
	for _, item := range set {
		if item == v {
			return true
		}
	}
	return false
}

// subscriberResponse is the API shape for a subscriber.
type subscriberResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Categories []string   `json:"categories"`
	Active     bool       `json:"active"`
	Source     string     `json:"source"`
	Created    time.Time  `json:"created"`
	Modified   *time.Time `json:"modified"`
}

func toResponse(s *models.SubscriberModel) subscriberResponse {
	categories := s.Categories
	if categories == nil {
		categories = []string{}
	}
	var modified *time.Time
	if !s.UpdatedAt.IsZero() {
		modifiedAt := s.UpdatedAt
		modified = &modifiedAt
	}
	return subscriberResponse{
		ID:         s.ID,
		Email:      s.Email,
		Name:       s.Name,
		Categories: categories,
		Active:     s.Active,
		Source:     s.Source,
		Created:    s.CreatedAt,
		Modified:   modified,
	}
}
