package service

import (
	"context"
	"errors"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/validation"

	"gorm.io/gorm"
)

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error)
	Create(ctx context.Context, in dto.CreateUserDTO) (*dto.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	UpdateByUsername(ctx context.Context, username string, in dto.UpdateUserDTO) (*dto.UserResponse, error)
	DeleteByUsername(ctx context.Context, username string) error
	GetMe(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, userID string, in dto.UpdateUserDTO) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.UserResponse], error) {
	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.UserFromModel(u))
	}
	return dto.NewPaginated(resp, int(total), page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, in dto.CreateUserDTO) (*dto.UserResponse, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, err
	}

	role := models.Role(in.Role)
	if in.Role == "" {
		role = models.RoleUser
	}

	user := models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			_, lookupErr := s.userRepo.FindByEmail(ctx, in.Email)
			switch {
			case lookupErr == nil:
				return nil, ErrEmailTaken
			case errors.Is(lookupErr, gorm.ErrRecordNotFound):
				return nil, ErrUsernameTaken
			default:
				return nil, lookupErr
			}
		}
		return nil, err
	}

	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := dto.UserFromModel(*user)
	return &resp, nil
}

func (s *userService) UpdateByUsername(ctx context.Context, username string, in dto.UpdateUserDTO) (*dto.UserResponse, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, user, in, true)
}

func (s *userService) DeleteByUsername(ctx context.Context, username string) error {
	if err := s.userRepo.Delete(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) GetMe(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := dto.UserFromModel(*user)
	return &resp, nil
}

// UpdateMe applies a partial self-update. The caller's role is never
// touched, whatever the payload says.
func (s *userService) UpdateMe(ctx context.Context, userID string, in dto.UpdateUserDTO) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.applyUpdate(ctx, user, in, false)
}

func (s *userService) applyUpdate(ctx context.Context, user *models.User, in dto.UpdateUserDTO, allowRole bool) (*dto.UserResponse, error) {
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil && allowRole {
		user.Role = models.Role(*in.Role)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	resp := dto.UserFromModel(*user)
	return &resp, nil
}

func (s *userService) findByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
