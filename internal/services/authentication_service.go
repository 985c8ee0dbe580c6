package services

import (
	"time"

	"marketChat/configs"
	"marketChat/internal/errs"
	"marketChat/internal/models"
	"marketChat/internal/repositories"
	"marketChat/internal/utils"
	"marketChat/internal/validators"
)

type AuthenticationService struct {
	authRepo *repositories.AuthenticationRepository
	config   *configs.Config
}

func NewAuthenticationService(
	authRepo *repositories.AuthenticationRepository,
	config *configs.Config,
) *AuthenticationService {
	return &AuthenticationService{
		authRepo: authRepo,
		config:   config,
	}
}

func (as *AuthenticationService) Register(user *models.User) (*models.User, []error) {
	var errors []error
	if as.CheckIfUserExists(user.Email) {
		errors = append(errors, errs.ErrUserAlreadyExists)
		return nil, errors
	}
	validationErrs := validators.ValidateUser(user)
	if len(validationErrs) > 0 {
		errors = append(errors, validationErrs...)
		return nil, errors
	}
	password, err := utils.HashPassword(user.Password)
	if err != nil {
		errors = append(errors, err)
		return nil, errors
	}
	user.PasswordHash = password
	user.AllowMessages = true
	return as.authRepo.CreateUser(user)
}

func (as *AuthenticationService) Login(loginData *models.LoginRequestBody) (*models.LoginResponse, []error) {
	var errors []error

	user, loginErrs := as.authRepo.Login(loginData)
	if len(loginErrs) > 0 {
		errors = append(errors, loginErrs...)
		return nil, errors
	}

	expirationHours := as.config.Viper.GetInt("jwt.expiration_hours")
	token, jwtErr := utils.CreateJwtToken(
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		utils.GetJwtKey(),
		time.Now().Add(time.Duration(expirationHours)*time.Hour),
	)
	if jwtErr != nil {
		errors = append(errors, jwtErr)
		return nil, errors
	}

	return &models.LoginResponse{
		User:  user.ToProfileResponse(),
		Token: token,
	}, nil
}

func (as *AuthenticationService) CheckIfUserExists(email string) bool {
	return as.authRepo.CheckIfUserExists(email) != nil
}

func (as *AuthenticationService) GetUserById(userID uint) (*models.User, error) {
	return as.authRepo.GetUserById(userID)
}

func (as *AuthenticationService) GetAllUsersWithPagination(page, size int) (*models.GetUsersResponse, []error) {
	users, total, getErrs := as.authRepo.GetUsers(page, size)
	if len(getErrs) > 0 {
		return nil, getErrs
	}

	userResponses := make([]models.UserResponse, 0, len(users))
	for _, user := range users {
		userResponses = append(userResponses, *user.ToUserResponse())
	}

	return &models.GetUsersResponse{
		Users: userResponses,
		Page:  page,
		Size:  size,
		Total: total,
	}, nil
}

func (as *AuthenticationService) SetUserOnlineStatus(userID uint, isOnline bool) (bool, *time.Time, error) {
	return as.authRepo.SetUserOnlineStatus(userID, isOnline)
}

func (as *AuthenticationService) SetAllowMessages(userID uint, allow bool) error {
	return as.authRepo.SetAllowMessages(userID, allow)
}
