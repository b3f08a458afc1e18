package models

// CategoryModel represents a news post category.
type CategoryModel struct {
	Base
	Name string `json:"name"  gorm:"uniqueIndex;not null"`
	Slug string `json:"slug"  gorm:"uniqueIndex;not null"`

	Posts []PostModel `json:"posts,omitempty" gorm:"foreignKey:CategoryID"`
}

func (CategoryModel) TableName() string { return "categories" }
