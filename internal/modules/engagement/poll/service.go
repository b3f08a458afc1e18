package poll

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/agorahq/core/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("poll not found")
	ErrUnknownOption = errors.New("option does not belong to this poll")
	ErrAlreadyVoted  = errors.New("this voter already voted on this poll")
	ErrClosed        = errors.New("poll is closed")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(dto PollDTO) (*models.PollModel, error) {
	poll := models.PollModel{
		Question:    dto.Question,
		ClosesAt:    dto.ClosesAt,
		IsPublished: dto.Published(),
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&poll).Error; err != nil {
			return err
		}
		for i, label := range dto.Options {
			option := models.PollOptionModel{
				PollID:   poll.ID,
				Label:    label,
				Position: i,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(poll.ID)
}

// Update rewrites the poll. Replacing the options wipes existing votes, so
// options are only replaced when the option list actually changed.
func (s *Service) Update(id string, dto PollDTO) (*models.PollModel, error) {
	poll, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"question":     dto.Question,
			"closes_at":    dto.ClosesAt,
			"is_published": dto.Published(),
		}
		if err := tx.Model(&models.PollModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if sameOptions(poll.Options, dto.Options) {
			return nil
		}
		if err := tx.Delete(&models.PollVoteModel{}, "poll_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.PollOptionModel{}, "poll_id = ?", id).Error; err != nil {
			return err
		}
		for i, label := range dto.Options {
			option := models.PollOptionModel{PollID: id, Label: label, Position: i}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *Service) Get(id string) (*models.PollModel, error) {
	var poll models.PollModel
	if err := s.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&poll, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &poll, nil
}

func (s *Service) List(includeDrafts bool) ([]models.PollModel, error) {
	query := s.db.Model(&models.PollModel{}).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC")
	if !includeDrafts {
		query = query.Where("is_published = ?", true)
	}
	var polls []models.PollModel
	if err := query.Find(&polls).Error; err != nil {
		return nil, err
	}
	return polls, nil
}

func (s *Service) Delete(id string) error {
	poll, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PollVoteModel{}, "poll_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.PollOptionModel{}, "poll_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(poll).Error
	})
}

// Vote casts one vote per voter hash per poll.
func (s *Service) Vote(pollID, optionID, voterHash string) error {
	poll, err := s.Get(pollID)
	if err != nil {
		return err
	}
	if poll.ClosesAt != nil && time.Now().After(*poll.ClosesAt) {
		return ErrClosed
	}

	valid := false
	for _, option := range poll.Options {
		if option.ID == optionID {
			valid = true
			break
		}
	}
	if !valid {
		return ErrUnknownOption
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PollVoteModel{}).
			Where("poll_id = ? AND voter_hash = ?", pollID, voterHash).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyVoted
		}

		vote := models.PollVoteModel{
			PollID:    pollID,
			OptionID:  optionID,
			VoterHash: voterHash,
		}
		return tx.Create(&vote).Error
	})
}

// Results tallies the votes per option.
func (s *Service) Results(pollID string) (*pollResults, error) {
	poll, err := s.Get(pollID)
	if err != nil {
		return nil, err
	}

	var votes []models.PollVoteModel
	if err := s.db.Find(&votes, "poll_id = ?", pollID).Error; err != nil {
		return nil, err
	}

	tally := make(map[string]int64, len(poll.Options))
	for _, vote := range votes {
		tally[vote.OptionID]++
	}

	total := int64(len(votes))
	results := pollResults{
		PollID:     poll.ID,
		Question:   poll.Question,
		TotalVotes: total,
		Closed:     poll.ClosesAt != nil && time.Now().After(*poll.ClosesAt),
		Options:    make([]optionResult, 0, len(poll.Options)),
	}
	for _, option := range poll.Options {
		count := tally[option.ID]
		percent := 0.0
		if total > 0 {
			percent = float64(count) / float64(total) * 100
		}
		results.Options = append(results.Options, optionResult{
			ID:      option.ID,
			Label:   option.Label,
			Votes:   count,
			Percent: percent,
		})
	}
	return &results, nil
}

// VoterHash derives the once-per-poll voter identity from the request. The
// hash keeps raw addresses out of the vote table.
func VoterHash(ip, userAgent string) string {
	sum := sha256.Sum256([]byte(ip + "|" + userAgent))
	return hex.EncodeToString(sum[:])
}

func sameOptions(existing []models.PollOptionModel, labels []string) bool {
	if len(existing) != len(labels) {
		return false
	}
	for i, option := range existing {
		if option.Label != labels[i] {
			return false
		}
	}
	return true
}
