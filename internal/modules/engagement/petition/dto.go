package petition

import (
	"strings"

	"github.com/agorahq/core/internal/pkg/validate"
)

// PetitionDTO creates or updates a petition.
type PetitionDTO struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Slug        string `json:"slug" binding:"required,min=1,max=120"`
	Description string `json:"description"`
	Goal        int    `json:"goal" binding:"min=1"`
	IsPublished *bool  `json:"is_published"`
}

func (d *PetitionDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Slug = strings.ToLower(strings.TrimSpace(d.Slug))
}

func (d PetitionDTO) Published() bool {
	return d.IsPublished != nil && *d.IsPublished
}

// SignDTO is the public signature body. Public controls whether the name may
// appear in the published signature list.
type SignDTO struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Public bool   `json:"public"`
}

func (d *SignDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = validate.NormalizeEmail(d.Email)
}

func (d SignDTO) Validate() validate.FieldErrors {
	errs := validate.FieldErrors{}
	if n := validate.RuneLen(d.Name); n < 2 || n > 100 {
		errs.Add("name", "must be between 2 and 100 characters")
	}
	if !validate.IsEmail(d.Email) {
		errs.Add("email", "must be a valid email address")
	}
	return errs
}

// progressResponse is the public progress payload.
type progressResponse struct {
	Signatures int64   `json:"signatures"`
	Goal       int     `json:"goal"`
	Percent    float64 `json:"percent"`
}

func progressOf(signatures int64, goal int) progressResponse {
	percent := 0.0
	if goal > 0 {
		percent = float64(signatures) / float64(goal) * 100
		if percent > 100 {
			percent = 100
		}
	}
	return progressResponse{Signatures: signatures, Goal: goal, Percent: percent}
}
