package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	authz "github.com/yigit/bazaar/internal/app/auth"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
	"github.com/yigit/bazaar/internal/pkg/auth"
	"github.com/yigit/bazaar/internal/pkg/cache"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
	"github.com/yigit/bazaar/internal/pkg/validation"
)

// UserService handles accounts, credentials, roles and account removal
type UserService struct {
	users       UserStore
	ads         AdStore
	questions   QuestionStore
	answers     AnswerStore
	tx          Transactor
	storage     filestorage.FileStorage
	jwtService  *auth.JWTService
	bounds      *boundsCache
	adsFolder   string
	imageFolder string
	logger      zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	users UserStore,
	ads AdStore,
	questions QuestionStore,
	answers AnswerStore,
	tx Transactor,
	storage filestorage.FileStorage,
	jwtService *auth.JWTService,
	store cache.Store,
	opts Options,
	logger zerolog.Logger,
) *UserService {
	opts = opts.withDefaults()
	return &UserService{
		users:       users,
		ads:         ads,
		questions:   questions,
		answers:     answers,
		tx:          tx,
		storage:     storage,
		jwtService:  jwtService,
		bounds:      newBoundsCache(store, opts.BoundsTTL, logger),
		adsFolder:   opts.AdsFolder,
		imageFolder: opts.UserImagesFolder,
		logger:      logger,
	}
}

func emailInUseError() error {
	return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email already in use")
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string) error {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return emailInUseError()
	}
	return nil
}

// storeImage moves a staged profile picture to <imageFolder>/<userID><ext>.
func (s *UserService) storeImage(ctx context.Context, userID uuid.UUID, image filestorage.StagedFile) (string, error) {
	name := userID.String() + fileExt(image.OriginalName)
	return s.storage.MoveFile(ctx, image, s.imageFolder, name)
}

// Register creates an account. The profile image is mandatory.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest, image *filestorage.StagedFile) (*dto.UserResponse, error) {
	if image != nil {
		defer s.storage.Discard(*image)
	}

	firstName := validation.NewStringValidation("firstName", req.FirstName).WithMaxLength(validation.NameMaxLength)
	lastName := validation.NewStringValidation("lastName", req.LastName).WithMaxLength(validation.NameMaxLength)
	email := validation.NewStringValidation("email", req.Email).WithPattern(validation.CompiledPatterns.Email)
	for _, v := range []*validation.StringValidation{firstName, lastName, email} {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	if req.Password == "" {
		return nil, apperrors.NewFieldError("password", "password is required")
	}
	if req.Role == nil {
		return nil, apperrors.NewFieldError("role", "role is required")
	}
	role, err := models.ParseRole(*req.Role)
	if err != nil {
		return nil, apperrors.NewFieldError("role", "role must be 0 (BUYER), 1 (SELLER) or 2 (ADMINISTRATOR)")
	}
	if image == nil {
		return nil, apperrors.NewFieldError("image", "image is required")
	}

	if err := s.ensureEmailFree(ctx, email.Trimmed()); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:        uuid.New(),
		FirstName: firstName.Trimmed(),
		LastName:  lastName.Trimmed(),
		Email:     email.Trimmed(),
		Password:  hashed,
		Role:      role,
	}

	imagePath, err := s.storeImage(ctx, user.ID, *image)
	if err != nil {
		return nil, fmt.Errorf("error storing profile image: %w", err)
	}
	user.ImagePath = &imagePath

	if err := s.users.Create(ctx, user); err != nil {
		if delErr := s.storage.DeleteFile(context.Background(), imagePath); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", imagePath).Msg("Failed to remove image of failed registration")
		}
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID.String()).Str("role", role.String()).Msg("User registered")
	resp := dto.NewUserResponse(user, s.storage.PublicURL)
	return &resp, nil
}

// Login verifies credentials and issues an access token
func (s *UserService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	invalid := apperrors.NewUnauthorizedError(apperrors.ErrInvalidCredentials, "Invalid email or password")

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Debug().Str("userID", user.ID.String()).Msg("Password mismatch on login")
		return nil, invalid
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.LoginResponse{
		User:      dto.NewUserResponse(user, s.storage.PublicURL),
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
	}, nil
}

// GetByID returns the reduced view of a user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user, s.storage.PublicURL)
	return &resp, nil
}

// GetByEmail returns the user registered with exactly this email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	v := validation.NewStringValidation("email", email)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, v.Trimmed())
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user, s.storage.PublicURL)
	return &resp, nil
}

// List returns every user
func (s *UserService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return dto.NewUserListResponse(users, s.storage.PublicURL), nil
}

// SearchByEmail returns users whose email contains fragment, ignoring case
func (s *UserService) SearchByEmail(ctx context.Context, fragment string) ([]dto.UserResponse, error) {
	v := validation.NewStringValidation("wantedEmail", fragment)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	users, err := s.users.SearchByEmail(ctx, v.Trimmed())
	if err != nil {
		return nil, fmt.Errorf("error searching users: %w", err)
	}
	return dto.NewUserListResponse(users, s.storage.PublicURL), nil
}

// Update changes profile fields of id. The role is not editable here.
func (s *UserService) Update(ctx context.Context, actorID, id uuid.UUID, req dto.UpdateUserRequest, image *filestorage.StagedFile) (*dto.UserResponse, error) {
	if image != nil {
		defer s.storage.Discard(*image)
	}

	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ResourceUser, user.ID, authz.ActionUpdate); err != nil {
		return nil, err
	}

	changed := false
	if req.FirstName != nil {
		if v := validation.NewStringValidation("firstName", *req.FirstName).WithMaxLength(validation.NameMaxLength); v.Valid() && v.Trimmed() != user.FirstName {
			user.FirstName = v.Trimmed()
			changed = true
		}
	}
	if req.LastName != nil {
		if v := validation.NewStringValidation("lastName", *req.LastName).WithMaxLength(validation.NameMaxLength); v.Valid() && v.Trimmed() != user.LastName {
			user.LastName = v.Trimmed()
			changed = true
		}
	}
	if req.Email != nil {
		v := validation.NewStringValidation("email", *req.Email).WithPattern(validation.CompiledPatterns.Email)
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if v.Trimmed() != user.Email {
			if err := s.ensureEmailFree(ctx, v.Trimmed()); err != nil {
				return nil, err
			}
			user.Email = v.Trimmed()
			changed = true
		}
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.Password = hashed
		changed = true
	}

	var oldImage, newImage string
	if image != nil {
		stored, err := s.storeImage(ctx, user.ID, *image)
		if err != nil {
			return nil, fmt.Errorf("error storing profile image: %w", err)
		}
		if user.ImagePath != nil && *user.ImagePath != stored {
			oldImage = *user.ImagePath
		}
		newImage = stored
		user.ImagePath = &stored
		changed = true
	}

	if !changed {
		return nil, apperrors.NewCustomError(apperrors.ErrNoUpdates, "No updates provided")
	}

	if err := s.users.Update(ctx, user); err != nil {
		if newImage != "" && oldImage != "" {
			if delErr := s.storage.DeleteFile(context.Background(), newImage); delErr != nil {
				s.logger.Warn().Err(delErr).Str("path", newImage).Msg("Failed to remove image of failed update")
			}
		}
		return nil, err
	}

	if oldImage != "" {
		if err := s.storage.DeleteFile(ctx, oldImage); err != nil {
			s.logger.Warn().Err(err).Str("path", oldImage).Msg("Failed to remove replaced profile image")
		}
	}

	resp := dto.NewUserResponse(user, s.storage.PublicURL)
	return &resp, nil
}

// DeleteByID removes a user and everything they own
func (s *UserService) DeleteByID(ctx context.Context, actorID, id uuid.UUID) error {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return err
	}
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, actor, target)
}

// DeleteByEmail removes the user registered with email and everything they own
func (s *UserService) DeleteByEmail(ctx context.Context, actorID uuid.UUID, email string) error {
	v := validation.NewStringValidation("email", email)
	if err := v.Validate(); err != nil {
		return err
	}
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return err
	}
	target, err := s.users.GetByEmail(ctx, v.Trimmed())
	if err != nil {
		return err
	}
	return s.delete(ctx, actor, target)
}

func (s *UserService) delete(ctx context.Context, actor authz.Actor, target *models.User) error {
	if err := authz.Authorize(actor, authz.ResourceUser, target.ID, authz.ActionDelete); err != nil {
		return err
	}

	var adIDs []uuid.UUID
	c := newCascade("delete-user", s.tx, s.logger).
		Store("delete-own-answers", byUser(s.answers.DeleteByUser, target.ID)).
		Store("delete-answers-on-own-questions", byUser(s.answers.DeleteOnQuestionsOf, target.ID)).
		Store("delete-questions", byUser(s.questions.DeleteByUser, target.ID)).
		Store("collect-ads", func(ctx context.Context) (err error) {
			adIDs, err = s.ads.IDsByUser(ctx, target.ID)
			return err
		}).
		Store("delete-ads", byUser(s.ads.DeleteByUser, target.ID)).
		Store("delete-user-row", func(ctx context.Context) error {
			return s.users.Delete(ctx, target.ID)
		}).
		AfterCommit("delete-ad-folders", func(ctx context.Context) error {
			return s.deleteAdFolders(ctx, adIDs)
		}).
		AfterCommit("delete-profile-image", func(ctx context.Context) error {
			if target.ImagePath == nil {
				return nil
			}
			return s.storage.DeleteFile(ctx, *target.ImagePath)
		}).
		AfterCommit("invalidate-search-bounds", s.bounds.invalidate)

	if err := c.Run(ctx); err != nil {
		return err
	}

	s.logger.Info().Str("userID", target.ID.String()).Str("by", actor.ID.String()).Int("ads", len(adIDs)).Msg("User deleted")
	return nil
}

func (s *UserService) deleteAdFolders(ctx context.Context, ids []uuid.UUID) error {
	var errs []error
	for _, id := range ids {
		if err := s.storage.DeleteFolder(ctx, filestorage.Join(s.adsFolder, id.String())); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// byUser adapts a bulk delete to a cascade step
func byUser(fn func(context.Context, uuid.UUID) (int64, error), userID uuid.UUID) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := fn(ctx, userID)
		return err
	}
}

// Promote moves a user one tier up
func (s *UserService) Promote(ctx context.Context, actorID, id uuid.UUID) (*dto.UserResponse, error) {
	return s.changeRole(ctx, actorID, id, models.Role.Next, "User is already an administrator")
}

// Demote moves a user one tier down. A seller demoted to buyer loses every ad.
func (s *UserService) Demote(ctx context.Context, actorID, id uuid.UUID) (*dto.UserResponse, error) {
	return s.changeRole(ctx, actorID, id, models.Role.Previous, "User is already a buyer")
}

func (s *UserService) changeRole(
	ctx context.Context,
	actorID, id uuid.UUID,
	step func(models.Role) (models.Role, bool),
	boundaryMsg string,
) (*dto.UserResponse, error) {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ResourceUser, user.ID, authz.ActionChangeRole); err != nil {
		return nil, err
	}

	if !user.Role.Valid() {
		clamped := user.Role.Clamp()
		if err := s.users.UpdateRole(ctx, user.ID, clamped); err != nil {
			return nil, fmt.Errorf("error repairing role: %w", err)
		}
		s.logger.Warn().Str("userID", user.ID.String()).Int("stored", int(user.Role)).Str("clamped", clamped.String()).Msg("Repaired out-of-range role")
		return nil, apperrors.NewResourceNotFoundError(apperrors.ErrRoleOutOfRange, "Role out of range")
	}

	next, ok := step(user.Role)
	if !ok {
		return nil, apperrors.NewValidationError(boundaryMsg)
	}

	var adIDs []uuid.UUID
	c := newCascade("change-role", s.tx, s.logger).
		Store("update-role", func(ctx context.Context) error {
			return s.users.UpdateRole(ctx, user.ID, next)
		})
	if user.Role.CanOwnAds() && !next.CanOwnAds() {
		c.Store("collect-ads", func(ctx context.Context) (err error) {
			adIDs, err = s.ads.IDsByUser(ctx, user.ID)
			return err
		}).
			Store("delete-ads", byUser(s.ads.DeleteByUser, user.ID)).
			AfterCommit("delete-ad-folders", func(ctx context.Context) error {
				return s.deleteAdFolders(ctx, adIDs)
			}).
			AfterCommit("invalidate-search-bounds", s.bounds.invalidate)
	}
	if err := c.Run(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID.String()).Str("from", user.Role.String()).Str("to", next.String()).Msg("User role changed")
	user.Role = next
	resp := dto.NewUserResponse(user, s.storage.PublicURL)
	return &resp, nil
}
