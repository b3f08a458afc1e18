package event

import (
	"strings"
	"time"

	"github.com/agorahq/core/internal/pkg/validate"
)

// EventDTO creates or updates an event.
type EventDTO struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Slug        string     `json:"slug" binding:"required,min=1,max=120"`
	Description string     `json:"description"`
	Location    string     `json:"location" binding:"max=300"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	Capacity    int        `json:"capacity" binding:"min=0"` // 0 means unlimited
	IsPublished *bool      `json:"is_published"`
}

func (d *EventDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Slug = strings.ToLower(strings.TrimSpace(d.Slug))
	d.Location = strings.TrimSpace(d.Location)
}

func (d EventDTO) Published() bool {
	return d.IsPublished != nil && *d.IsPublished
}

// RegisterDTO is the public event registration body.
type RegisterDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (d *RegisterDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = validate.NormalizeEmail(d.Email)
}

func (d RegisterDTO) Validate() validate.FieldErrors {
	errs := validate.FieldErrors{}
	if n := validate.RuneLen(d.Name); n < 2 || n > 100 {
		errs.Add("name", "must be between 2 and 100 characters")
	}
	if !validate.IsEmail(d.Email) {
		errs.Add("email", "must be a valid email address")
	}
	return errs
}
