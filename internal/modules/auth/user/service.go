package user

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tiendita/pos-core/internal/models"
	"github.com/tiendita/pos-core/internal/modules/auth/session"
	"github.com/tiendita/pos-core/internal/pkg/pagination"
	"github.com/tiendita/pos-core/internal/pkg/response"
)

var (
	errUserNotFound      = errors.New("user not found")
	errUsernameTaken     = errors.New("username already taken")
	errRoleNotFound      = errors.New("role not found")
	errRoleInUse         = errors.New("role is assigned to users")
	errWrongOldPassword  = errors.New("old password does not match")
	errLastAdminDisabled = errors.New("cannot disable the last admin")
)

type Service struct {
	db       *gorm.DB
	sessions *session.Service
}

func NewService(db *gorm.DB, sessions *session.Service) *Service {
	return &Service{db: db, sessions: sessions}
}

func (s *Service) List(q pagination.Query) ([]models.UserModel, response.Pagination, error) {
	var rows []models.UserModel
	meta, err := pagination.Paginate(
		s.db.Model(&models.UserModel{}).Order("created_at ASC"), q, &rows)
	return rows, meta, err
}

func (s *Service) Get(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) Create(dto *CreateUserDTO) (*models.UserModel, error) {
	if err := s.roleExists(dto.Role); err != nil {
		return nil, err
	}
	var count int64
	if err := s.db.Model(&models.UserModel{}).Where("username = ?", dto.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errUsernameTaken
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
		Role:     dto.Role,
		IsActive: true,
	}
	return &u, s.db.Create(&u).Error
}

func (s *Service) Update(id string, dto *UpdateUserDTO) (*models.UserModel, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errUserNotFound
	}
	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Role != nil {
		if err := s.roleExists(*dto.Role); err != nil {
			return nil, err
		}
		u.Role = *dto.Role
	}
	if dto.IsActive != nil {
		if !*dto.IsActive {
			if err := s.guardLastAdmin(u); err != nil {
				return nil, err
			}
		}
		u.IsActive = *dto.IsActive
	}
	if err := s.db.Save(u).Error; err != nil {
		return nil, err
	}
	// a disabled account must not keep working through live sessions
	if dto.IsActive != nil && !*dto.IsActive {
		if _, err := s.sessions.DeactivateAllForUser(id); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// ChangePassword verifies the old password, stores the new hash and revokes
// every live session of the user. The caller signs in again.
func (s *Service) ChangePassword(id, oldPassword, newPassword string) error {
	u, err := s.Get(id)
	if err != nil {
		return err
	}
	if u == nil {
		return errUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPassword)); err != nil {
		return errWrongOldPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.db.Model(u).Update("password", string(hash)).Error; err != nil {
		return err
	}
	_, err = s.sessions.DeactivateAllForUser(id)
	return err
}

// ResetPassword sets a new password without the old one. Admin only; live
// sessions are revoked like a regular change.
func (s *Service) ResetPassword(id, newPassword string) error {
	u, err := s.Get(id)
	if err != nil {
		return err
	}
	if u == nil {
		return errUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.db.Model(u).Update("password", string(hash)).Error; err != nil {
		return err
	}
	_, err = s.sessions.DeactivateAllForUser(id)
	return err
}

func (s *Service) Delete(id string) error {
	u, err := s.Get(id)
	if err != nil {
		return err
	}
	if u == nil {
		return errUserNotFound
	}
	if err := s.guardLastAdmin(u); err != nil {
		return err
	}
	if _, err := s.sessions.DeactivateAllForUser(id); err != nil {
		return err
	}
	return s.db.Delete(u).Error
}

func (s *Service) ListRoles() ([]models.RoleModel, error) {
	var rows []models.RoleModel
	return rows, s.db.Order("name ASC").Find(&rows).Error
}

func (s *Service) CreateRole(dto *RoleDTO) (*models.RoleModel, error) {
	var count int64
	if err := s.db.Model(&models.RoleModel{}).Where("name = ?", dto.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("role already exists")
	}
	role := models.RoleModel{
		Name:        dto.Name,
		Description: dto.Description,
		Permissions: dto.Permissions,
	}
	return &role, s.db.Create(&role).Error
}

func (s *Service) UpdateRole(name string, dto *RoleDTO) (*models.RoleModel, error) {
	var role models.RoleModel
	if err := s.db.First(&role, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errRoleNotFound
		}
		return nil, err
	}
	role.Description = dto.Description
	role.Permissions = dto.Permissions
	return &role, s.db.Save(&role).Error
}

func (s *Service) DeleteRole(name string) error {
	var assigned int64
	if err := s.db.Model(&models.UserModel{}).Where("role = ?", name).Count(&assigned).Error; err != nil {
		return err
	}
	if assigned > 0 {
		return errRoleInUse
	}
	result := s.db.Where("name = ?", name).Delete(&models.RoleModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errRoleNotFound
	}
	return nil
}

func (s *Service) roleExists(name string) error {
	var count int64
	if err := s.db.Model(&models.RoleModel{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errRoleNotFound
	}
	return nil
}

func (s *Service) guardLastAdmin(u *models.UserModel) error {
	if u.Role != "admin" {
		return nil
	}
	var admins int64
	err := s.db.Model(&models.UserModel{}).
		Where("role = ? AND is_active = ? AND id <> ?", "admin", true, u.ID).
		Count(&admins).Error
	if err != nil {
		return err
	}
	if admins == 0 {
		return errLastAdminDisabled
	}
	return nil
}
