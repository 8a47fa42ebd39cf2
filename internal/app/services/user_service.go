package services

import (
	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/infrastructures"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewUserService(db *gorm.DB, validator *infrastructures.Validator) *UserService {
	return &UserService{
		db:        db,
		validator: validator,
	}
}

func (s *UserService) GetUser(userId string) (*models.User, error) {
	userUUID, err := uuid.Parse(userId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid user ID format")
	}

	var user models.User
	err = s.db.Where("id = ?", userUUID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("User not found").WithCode(errors.CodeUserNotFound)
		}
		return nil, errors.NewInternalServerError(err, "Failed to get user")
	}

	return &user, nil
}

func (s *UserService) GetUsers(pagination *models.PaginationRequest, role *models.UserRole) (*models.Pagination[[]models.User], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.User{})
	if role != nil {
		countQuery = countQuery.Where("role = ?", *role)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count users")
	}

	query := s.db.Order("created_at DESC").Limit(pagination.Limit).Offset(offset)
	if role != nil {
		query = query.Where("role = ?", *role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get users")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.User]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      users,
	}, nil
}

func (s *UserService) UpdateUser(userId string, req *models.UserUpdateRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.GetUser(userId)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Address != nil {
		user.Address = req.Address
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update user")
	}

	return user, nil
}

func (s *UserService) DeleteUser(userId string) error {
	user, err := s.GetUser(userId)
	if err != nil {
		return err
	}

	if err := s.db.Delete(user).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to delete user")
	}

	return nil
}
