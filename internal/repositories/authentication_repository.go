package repositories

import (
	"errors"
	"time"

	"marketChat/internal/errs"
	"marketChat/internal/models"
	"marketChat/internal/utils"

	"gorm.io/gorm"
)

type AuthenticationRepository struct {
	db *gorm.DB
}

func NewAuthenticationRepository(db *gorm.DB) *AuthenticationRepository {
	return &AuthenticationRepository{
		db: db,
	}
}

func (ar *AuthenticationRepository) CreateUser(user *models.User) (*models.User, []error) {
	var errorList []error
	result := ar.db.Create(user)
	if result.Error != nil {
		errorList = append(errorList, result.Error)
		return nil, errorList
	}
	if result.RowsAffected == 0 {
		errorList = append(errorList, errs.ErrUserNotFound)
		return nil, errorList
	}
	return user, nil
}

func (ar *AuthenticationRepository) CheckIfUserExists(email string) *models.User {
	var user models.User
	result := ar.db.Where("email = ?", email).First(&user)
	if result.Error == nil && result.RowsAffected > 0 {
		return &user
	}
	return nil
}

func (ar *AuthenticationRepository) Login(login *models.LoginRequestBody) (*models.User, []error) {
	var errorList []error
	user := ar.CheckIfUserExists(login.Email)
	if user == nil {
		errorList = append(errorList, errs.ErrUserNotFound)
		return nil, errorList
	}
	if err := utils.CompareHashAndPassword(user.PasswordHash, login.Password); err != nil {
		errorList = append(errorList, errs.ErrWrongPassword)
		return nil, errorList
	}
	return user, nil
}

// GetUserById is the directory lookup the messaging path depends on:
// counterpart existence plus the AllowMessages preference.
func (ar *AuthenticationRepository) GetUserById(userID uint) (*models.User, error) {
	var user models.User
	err := ar.db.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (ar *AuthenticationRepository) GetUsers(page, size int) ([]models.User, int64, []error) {
	var errorList []error
	var users []models.User
	var total int64

	transactionErr := ar.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Scopes(utils.Paginate(page, size)).
			Order("id ASC").
			Find(&users).Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.User{}).
			Count(&total).Error; err != nil {
			return err
		}
		return nil
	})
	if transactionErr != nil {
		errorList = append(errorList, transactionErr)
		return nil, 0, errorList
	}

	return users, total, nil
}

func (ar *AuthenticationRepository) SetUserOnlineStatus(userID uint, isOnline bool) (bool, *time.Time, error) {
	now := time.Now()
	err := ar.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_online": isOnline,
			"last_seen": now,
		}).Error
	if err != nil {
		return false, nil, err
	}
	return isOnline, &now, nil
}

func (ar *AuthenticationRepository) SetAllowMessages(userID uint, allow bool) error {
	result := ar.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("allow_messages", allow)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}
