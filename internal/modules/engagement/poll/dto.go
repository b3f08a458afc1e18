package poll

import (
	"strings"
	"time"
)

// PollDTO creates or updates a poll with its options.
type PollDTO struct {
	Question    string     `json:"question" binding:"required,min=5,max=300"`
	Options     []string   `json:"options" binding:"required,min=2,max=10,dive,required,max=120"`
	ClosesAt    *time.Time `json:"closes_at"`
	IsPublished *bool      `json:"is_published"`
}

func (d *PollDTO) Normalize() {
	d.Question = strings.TrimSpace(d.Question)
	for i, opt := range d.Options {
		d.Options[i] = strings.TrimSpace(opt)
	}
}

func (d PollDTO) Published() bool {
	return d.IsPublished != nil && *d.IsPublished
}

// VoteDTO casts one vote.
type VoteDTO struct {
	OptionID string `json:"option_id" binding:"required"`
}

// optionResult is one option with its tally.
type optionResult struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Votes   int64   `json:"votes"`
	Percent float64 `json:"percent"`
}

// pollResults is the public results payload.
type pollResults struct {
	PollID     string         `json:"poll_id"`
	Question   string         `json:"question"`
	TotalVotes int64          `json:"total_votes"`
	Closed     bool           `json:"closed"`
	Options    []optionResult `json:"options"`
}
