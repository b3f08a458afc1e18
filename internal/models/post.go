package models

// PostModel is a news post.
type PostModel struct {
	Base
	Slug        string         `json:"slug"         gorm:"uniqueIndex;not null"`
	Title       string         `json:"title"        gorm:"not null"`
	Text        string         `json:"text"         gorm:"type:longtext"`
	Summary     string         `json:"summary"`
	CategoryID  string         `json:"category_id"  gorm:"not null;index"`
	Category    *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	IsPublished bool           `json:"is_published" gorm:"default:false;index"`
	Tags        StringArray    `json:"tags"         gorm:"type:json"`
	ReadCount   int            `json:"read"         gorm:"column:read_count;default:0"`
}

func (PostModel) TableName() string { return "posts" }
