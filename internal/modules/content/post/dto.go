package post

import "strings"

// PostDTO creates or updates a post. Text is markdown source.
type PostDTO struct {
	Title       string   `json:"title" binding:"required,min=1,max=200"`
	Slug        string   `json:"slug" binding:"required,min=1,max=120"`
	Text        string   `json:"text" binding:"required"`
	Summary     string   `json:"summary" binding:"max=500"`
	CategoryID  string   `json:"category_id" binding:"required"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"is_published"`
}

func (d *PostDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Slug = strings.ToLower(strings.TrimSpace(d.Slug))
	tags := make([]string, 0, len(d.Tags))
	for _, tag := range d.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	d.Tags = tags
}

func (d PostDTO) Published() bool {
	return d.IsPublished != nil && *d.IsPublished
}
