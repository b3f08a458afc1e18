package category

// CategoryDTO creates or updates a content category.
type CategoryDTO struct {
	Name string `json:"name" binding:"required,min=1,max=60"`
	Slug string `json:"slug" binding:"required,min=1,max=80"`
}
