package models

import "time"

// EventModel is a campaign event citizens can register for.
type EventModel struct {
	Base
	Title       string    `json:"title"        gorm:"not null"`
	Slug        string    `json:"slug"         gorm:"uniqueIndex;not null"`
	Description string    `json:"description"  gorm:"type:longtext"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"    gorm:"index"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    int       `json:"capacity"     gorm:"default:0"` // 0 = unlimited
	IsPublished bool      `json:"is_published" gorm:"default:false;index"`

	Registrations []EventRegistrationModel `json:"registrations,omitempty" gorm:"foreignKey:EventID"`
}

func (EventModel) TableName() string { return "events" }

// EventRegistrationModel is one attendee registration. An email may register
// for an event only once.
type EventRegistrationModel struct {
	Base
	EventID string `json:"event_id" gorm:"index;not null;uniqueIndex:uniq_event_email,priority:1"`
	Name    string `json:"name"     gorm:"not null"`
	Email   string `json:"email"    gorm:"not null;uniqueIndex:uniq_event_email,priority:2"`
}

func (EventRegistrationModel) TableName() string { return "event_registrations" }
