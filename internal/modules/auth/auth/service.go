package auth

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/modules/auth/session"
	"github.com/tiendita/pos-core/internal/pkg/jwt"
)

var (
	errAuthUserNotFound   = errors.New("user not found")
	errAuthWrongPassword  = errors.New("wrong password")
	errAuthUserDisabled   = errors.New("user is disabled")
	errAlreadyInitialized = errors.New("an admin account already exists")
)

type Service struct {
	db       *gorm.DB
	sessions *session.Service
}

func NewService(db *gorm.DB, sessions *session.Service) *Service {
	return &Service{db: db, sessions: sessions}
}

// Login verifies credentials, opens a login session and returns a JWT bound
// to it. Failed attempts sleep 3 seconds to slow brute force.
func (s *Service) Login(username, password, ip, ua string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			time.Sleep(3 * time.Second)
			return "", nil, errAuthUserNotFound
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		time.Sleep(3 * time.Second)
		return "", nil, errAuthWrongPassword
	}
	if !u.IsActive {
		return "", nil, errAuthUserDisabled
	}

	row, err := s.sessions.Create(u.ID, ua, ip)
	if err != nil {
		return "", nil, err
	}
	token, err := jwt.Sign(u.ID, row.ID, s.sessions.TTL())
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	})
	u.LastLoginTime = &now
	u.LastLoginIP = ip
	return token, &u, nil
}

// Logout revokes the session the token is bound to.
func (s *Service) Logout(sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Deactivate(sessionID)
}

// Setup creates the first admin account. It only works on an empty users
// table; everyone after that is created through user management.
func (s *Service) Setup(dto *SetupDTO) (*models.UserModel, error) {
	var count int64
	if err := s.db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errAlreadyInitialized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	name := dto.Name
	if name == "" {
		name = dto.Username
	}
	u := models.UserModel{
		Username: dto.Username,
		Password: string(hash),
		Name:     name,
		Role:     "admin",
		IsActive: true,
	}
	return &u, s.db.Create(&u).Error
}

// Profile loads the signed-in user together with the role's permissions.
func (s *Service) Profile(userID string) (*models.UserModel, []string, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	var role models.RoleModel
	if err := s.db.First(&role, "name = ?", u.Role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &u, nil, nil
		}
		return nil, nil, err
	}
	return &u, role.Permissions, nil
}
