package models

// PetitionModel is a petition collecting signatures toward a goal.
type PetitionModel struct {
	Base
	Title       string `json:"title"        gorm:"not null"`
	Slug        string `json:"slug"         gorm:"uniqueIndex;not null"`
	Description string `json:"description"  gorm:"type:longtext"`
	Goal        int    `json:"goal"         gorm:"default:100"`
	IsPublished bool   `json:"is_published" gorm:"default:false;index"`

	Signatures []PetitionSignatureModel `json:"signatures,omitempty" gorm:"foreignKey:PetitionID"`
}

func (PetitionModel) TableName() string { return "petitions" }

// PetitionSignatureModel is one signature. An email may sign a petition once.
type PetitionSignatureModel struct {
	Base
	PetitionID string `json:"petition_id" gorm:"index;not null;uniqueIndex:uniq_petition_email,priority:1"`
	Name       string `json:"name"        gorm:"not null"`
	Email      string `json:"email"       gorm:"not null;uniqueIndex:uniq_petition_email,priority:2"`
	Public     bool   `json:"public"      gorm:"default:false"` // consent to appear in the public list
}

func (PetitionSignatureModel) TableName() string { return "petition_signatures" }
