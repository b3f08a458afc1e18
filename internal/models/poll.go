package models

import "time"

// PollModel is a public opinion poll.
type PollModel struct {
	Base
	Question    string     `json:"question"     gorm:"not null"`
	IsPublished bool       `json:"is_published" gorm:"default:false;index"`
	ClosesAt    *time.Time `json:"closes_at"`

	Options []PollOptionModel `json:"options,omitempty" gorm:"foreignKey:PollID"`
}

func (PollModel) TableName() string { return "polls" }

// PollOptionModel is one selectable answer of a poll.
type PollOptionModel struct {
	Base
	PollID   string `json:"poll_id"  gorm:"index;not null"`
	Label    string `json:"label"    gorm:"not null"`
	Position int    `json:"position" gorm:"default:0"`
}

func (PollOptionModel) TableName() string { return "poll_options" }

// PollVoteModel is one cast vote. The voter hash (derived from the request
// identity) may vote once per poll.
type PollVoteModel struct {
	Base
	PollID    string `json:"poll_id"    gorm:"index;not null;uniqueIndex:uniq_poll_voter,priority:1"`
	OptionID  string `json:"option_id"  gorm:"index;not null"`
	VoterHash string `json:"-"          gorm:"not null;uniqueIndex:uniq_poll_voter,priority:2"`
}

func (PollVoteModel) TableName() string { return "poll_votes" }
