package repositories

import (
	"errors"
	"time"

	"conduit-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository's *OrNone lookups return (nil, nil) on a miss.
type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	GetByIDOrNone(db *gorm.DB, id uint) (*models.User, error)
	GetByIDs(db *gorm.DB, ids []uint) ([]models.User, error)
	GetByUsernameOrNone(db *gorm.DB, username string) (*models.User, error)
	GetByEmailOrNone(db *gorm.DB, email string) (*models.User, error)
	Update(db *gorm.DB, id uint, changes models.UserChanges) (*models.User, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func (r *userRepository) GetByIDOrNone(db *gorm.DB, id uint) (*models.User, error) {
	return r.takeOrNone(db.Where("id = ?", id))
}

func (r *userRepository) GetByIDs(db *gorm.DB, ids []uint) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := db.Where("id IN ?", ids).Order("id").Find(&users).Error
	return users, err
}

func (r *userRepository) GetByUsernameOrNone(db *gorm.DB, username string) (*models.User, error) {
	return r.takeOrNone(db.Where("username = ?", username))
}

func (r *userRepository) GetByEmailOrNone(db *gorm.DB, email string) (*models.User, error) {
	return r.takeOrNone(db.Where("email = ?", email))
}

// Update writes only the non-nil fields and returns the stored row.
func (r *userRepository) Update(db *gorm.DB, id uint, changes models.UserChanges) (*models.User, error) {
	values := map[string]interface{}{"updated_at": time.Now()}
	if changes.Username != nil {
		values["username"] = *changes.Username
	}
	if changes.Email != nil {
		values["email"] = *changes.Email
	}
	if changes.PasswordHash != nil {
		values["password_hash"] = *changes.PasswordHash
	}
	if changes.Bio != nil {
		values["bio"] = *changes.Bio
	}
	if changes.ImageURL != nil {
		values["image_url"] = *changes.ImageURL
	}

	var user models.User
	result := db.Model(&user).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrUserNotFound
	}
	return &user, nil
}

func (r *userRepository) takeOrNone(query *gorm.DB) (*models.User, error) {
	var user models.User
	err := query.Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
