package auth

import (
	"errors"
	"time"

	"github.com/agorahq/core/internal/models"
	"github.com/agorahq/core/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAlreadyInitialized = errors.New("an account already exists")
	ErrBadCredentials     = errors.New("invalid username or password")
	ErrNotFound           = errors.New("user not found")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Setup creates the first admin account. Refuses once any user exists.
func (s *Service) Setup(dto SetupDTO) (*models.UserModel, error) {
	var count int64
	if err := s.db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyInitialized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.UserModel{
		Username: dto.Username,
		Name:     dto.Name,
		Password: string(hash),
		Mail:     validate.NormalizeEmail(dto.Mail),
		Role:     models.RoleAdmin,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and records the login. Unknown user and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(dto LoginDTO, ip string) (*models.UserModel, error) {
	var user models.UserModel
	if err := s.db.First(&user, "username = ?", dto.Username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(dto.Password)) != nil {
		return nil, ErrBadCredentials
	}

	now := time.Now()
	if err := s.db.Model(&user).Updates(map[string]any{
		"last_login_time": &now,
		"last_login_ip":   ip,
	}).Error; err != nil {
		return nil, err
	}
	user.LastLoginTime = &now
	user.LastLoginIP = ip
	return &user, nil
}

// Get fetches one user by ID.
func (s *Service) Get(id string) (*models.UserModel, error) {
	var user models.UserModel
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Initialized reports whether setup has already run.
func (s *Service) Initialized() (bool, error) {
	var count int64
	if err := s.db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
