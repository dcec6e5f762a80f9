package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/app/models/dto"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
	"github.com/yigit/bazaar/internal/pkg/filestorage"
)

func strPtr(v string) *string { return &v }

func registerRequest(email string, role models.Role) dto.RegisterRequest {
	return dto.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "s3cret",
		Role:      intPtr(int(role)),
	}
}

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)
	image := staged("avatar.PNG")

	got, err := env.users.Register(context.Background(), registerRequest(" ada@example.com ", models.RoleSeller), &image)
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, models.RoleSeller, got.Role)
	require.NotNil(t, got.ImagePath)
	assert.Equal(t, "userImages/"+got.ID.String()+".png", *got.ImagePath)
	assert.True(t, env.storage.has(*got.ImagePath))
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, "/userImages/"+got.ID.String()+".png", *got.ImageURL)
	assert.True(t, env.db.hasUser(got.ID))
	assert.Equal(t, 1, env.storage.discardCount())
}

func TestUserService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *dto.RegisterRequest)
		noImage bool
		wantMsg string
	}{
		{name: "missing first name", mutate: func(r *dto.RegisterRequest) { r.FirstName = " " }, wantMsg: "firstName is required"},
		{name: "malformed email", mutate: func(r *dto.RegisterRequest) { r.Email = "ada" }, wantMsg: "email is malformed"},
		{name: "missing password", mutate: func(r *dto.RegisterRequest) { r.Password = "" }, wantMsg: "password is required"},
		{name: "missing role", mutate: func(r *dto.RegisterRequest) { r.Role = nil }, wantMsg: "role is required"},
		{name: "role out of range", mutate: func(r *dto.RegisterRequest) { r.Role = intPtr(3) }, wantMsg: "role must be 0 (BUYER), 1 (SELLER) or 2 (ADMINISTRATOR)"},
		{name: "missing image", mutate: func(*dto.RegisterRequest) {}, noImage: true, wantMsg: "image is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := registerRequest("ada@example.com", models.RoleBuyer)
			tt.mutate(&req)

			var image *filestorage.StagedFile
			if !tt.noImage {
				img := staged("avatar.png")
				image = &img
			}

			_, err := env.users.Register(context.Background(), req, image)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Empty(t, env.storage.filesUnder("userImages"))
		})
	}
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "ada@example.com", models.RoleBuyer)
	image := staged("avatar.png")

	_, err := env.users.Register(context.Background(), registerRequest("ada@example.com", models.RoleBuyer), &image)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.Equal(t, "Email already in use", err.Error())
	assert.Equal(t, 1, env.storage.discardCount(), "the staged image is discarded")
	assert.Len(t, env.storage.filesUnder("userImages"), 1, "only the seeded image remains")
}

func TestUserService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "ada@example.com", models.RoleSeller)

	got, err := env.users.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.Token)
	assert.Equal(t, "Bearer", got.TokenType)
	assert.Equal(t, int64(3600), got.ExpiresIn)
	assert.Equal(t, user.ID, got.User.ID)

	for _, req := range []dto.LoginRequest{
		{Email: "ada@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "password"},
	} {
		_, err := env.users.Login(ctx, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		assert.Equal(t, "Invalid email or password", err.Error())
	}
}

func TestUserService_Lookups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "Ada@Example.com", models.RoleBuyer)
	env.seedUser(t, "grace@navy.mil", models.RoleSeller)

	all, err := env.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := env.users.SearchByEmail(ctx, "example")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ada@Example.com", found[0].Email)

	_, err = env.users.SearchByEmail(ctx, " ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = env.users.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = env.users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ada := env.seedUser(t, "ada@example.com", models.RoleBuyer)
	env.seedUser(t, "taken@example.com", models.RoleBuyer)
	other := env.seedUser(t, "other@example.com", models.RoleBuyer)

	t.Run("email in use", func(t *testing.T) {
		_, err := env.users.Update(ctx, ada.ID, ada.ID, dto.UpdateUserRequest{Email: strPtr("taken@example.com")}, nil)
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("nothing changes", func(t *testing.T) {
		_, err := env.users.Update(ctx, ada.ID, ada.ID, dto.UpdateUserRequest{
			FirstName: strPtr("First"),
			LastName:  strPtr("  "),
			Email:     strPtr("ada@example.com"),
		}, nil)
		assert.ErrorIs(t, err, apperrors.ErrNoUpdates)
	})

	t.Run("another user is forbidden", func(t *testing.T) {
		_, err := env.users.Update(ctx, other.ID, ada.ID, dto.UpdateUserRequest{FirstName: strPtr("Eve")}, nil)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("image replacement removes the old file", func(t *testing.T) {
		oldImage := *ada.ImagePath
		image := staged("new.jpg")

		got, err := env.users.Update(ctx, ada.ID, ada.ID, dto.UpdateUserRequest{FirstName: strPtr(" Augusta ")}, &image)
		require.NoError(t, err)
		assert.Equal(t, "Augusta", got.FirstName)
		require.NotNil(t, got.ImagePath)
		assert.Equal(t, "userImages/"+ada.ID.String()+".jpg", *got.ImagePath)
		assert.True(t, env.storage.has(*got.ImagePath))
		assert.False(t, env.storage.has(oldImage))
	})

	t.Run("password change allows the new login", func(t *testing.T) {
		_, err := env.users.Update(ctx, ada.ID, ada.ID, dto.UpdateUserRequest{Password: strPtr("n3w")}, nil)
		require.NoError(t, err)
		_, err = env.users.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "n3w"})
		assert.NoError(t, err)
	})
}

func TestUserService_RoleChanges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", models.RoleAdministrator)
	buyer := env.seedUser(t, "buyer@example.com", models.RoleBuyer)
	seller := env.seedUser(t, "seller@example.com", models.RoleSeller)

	t.Run("only administrators", func(t *testing.T) {
		_, err := env.users.Promote(ctx, seller.ID, buyer.ID)
		require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		assert.Equal(t, "Only administrators can change user roles", err.Error())
	})

	t.Run("boundaries", func(t *testing.T) {
		_, err := env.users.Promote(ctx, admin.ID, admin.ID)
		require.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Equal(t, "User is already an administrator", err.Error())

		_, err = env.users.Demote(ctx, admin.ID, buyer.ID)
		require.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Equal(t, "User is already a buyer", err.Error())
	})

	t.Run("promote one tier", func(t *testing.T) {
		got, err := env.users.Promote(ctx, admin.ID, buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleSeller, got.Role)
		assert.Equal(t, models.RoleSeller, env.db.storedRole(buyer.ID))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.users.Promote(ctx, admin.ID, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("unknown user is reported before the permission check", func(t *testing.T) {
		_, err := env.users.Promote(ctx, seller.ID, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		assert.NotErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestUserService_DemoteSellerRemovesAds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", models.RoleAdministrator)
	seller := env.seedUser(t, "seller@example.com", models.RoleSeller)
	other := env.seedUser(t, "other@example.com", models.RoleSeller)
	ad1 := env.seedAd(t, seller.ID, "Izmir", 100, 10, models.AdTypeSelling)
	ad2 := env.seedAd(t, seller.ID, "Ankara", 200, 20, models.AdTypeRenting)
	kept := env.seedAd(t, other.ID, "Bursa", 300, 30, models.AdTypeSelling)
	env.cache.entries[SearchParamsCacheKey] = []byte(`{"count":3}`)

	got, err := env.users.Demote(ctx, admin.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuyer, got.Role)

	assert.Equal(t, 1, env.db.countAds())
	assert.Empty(t, env.storage.filesUnder("ads-pictures/"+ad1.ID.String()))
	assert.Empty(t, env.storage.filesUnder("ads-pictures/"+ad2.ID.String()))
	assert.NotEmpty(t, env.storage.filesUnder("ads-pictures/"+kept.ID.String()))
	assert.False(t, env.cache.cached(SearchParamsCacheKey))
}

func TestUserService_DemoteAdministratorKeepsAds(t *testing.T) {
	env := newTestEnv(t)
	root := env.seedUser(t, "root@example.com", models.RoleAdministrator)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdministrator)
	env.seedAd(t, admin.ID, "Izmir", 100, 10, models.AdTypeSelling)

	got, err := env.users.Demote(context.Background(), root.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, got.Role)
	assert.Equal(t, 1, env.db.countAds())
}

func TestUserService_RoleOutOfRangeIsRepaired(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", models.RoleAdministrator)
	broken := env.seedUser(t, "broken@example.com", models.Role(7))

	_, err := env.users.Promote(context.Background(), admin.ID, broken.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRoleOutOfRange)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, models.RoleAdministrator, env.db.storedRole(broken.ID))
}

func TestUserService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	target := env.seedUser(t, "target@example.com", models.RoleSeller)
	other := env.seedUser(t, "other@example.com", models.RoleBuyer)

	ad := env.seedAd(t, target.ID, "Izmir", 100, 10, models.AdTypeSelling)
	own := env.seedQuestion(t, target.ID, "Target asks")
	env.seedAnswer(t, other.ID, own.ID, "Other replies to target")
	foreign := env.seedQuestion(t, other.ID, "Other asks")
	env.seedAnswer(t, target.ID, foreign.ID, "Target replies")
	survivor := env.seedAnswer(t, other.ID, foreign.ID, "Other replies to self")
	env.cache.entries[SearchParamsCacheKey] = []byte(`{"count":1}`)

	require.NoError(t, env.users.DeleteByID(ctx, target.ID, target.ID))

	assert.False(t, env.db.hasUser(target.ID))
	assert.True(t, env.db.hasUser(other.ID))
	assert.Zero(t, env.db.countAds())
	assert.Equal(t, 1, env.db.countQuestions())
	assert.Equal(t, 1, env.db.countAnswers())

	q, err := env.questions.GetByID(ctx, foreign.ID)
	require.NoError(t, err)
	require.Len(t, *q.Answers, 1)
	assert.Equal(t, survivor.ID, (*q.Answers)[0].ID)

	assert.Empty(t, env.storage.filesUnder("ads-pictures/"+ad.ID.String()))
	assert.False(t, env.storage.has(*target.ImagePath))
	assert.False(t, env.cache.cached(SearchParamsCacheKey))
}

func TestUserService_DeleteRollsBack(t *testing.T) {
	env := newTestEnv(t)
	target := env.seedUser(t, "target@example.com", models.RoleSeller)
	other := env.seedUser(t, "other@example.com", models.RoleBuyer)
	ad := env.seedAd(t, target.ID, "Izmir", 100, 10, models.AdTypeSelling)
	q := env.seedQuestion(t, target.ID, "Target asks")
	env.seedAnswer(t, other.ID, q.ID, "Reply")
	env.cache.entries[SearchParamsCacheKey] = []byte(`{"count":1}`)
	env.db.failOn("users.Delete", errors.New("deadlock detected"))

	err := env.users.DeleteByID(context.Background(), target.ID, target.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete-user-row")

	assert.True(t, env.db.hasUser(target.ID))
	assert.Equal(t, 1, env.db.countAds())
	assert.Equal(t, 1, env.db.countQuestions())
	assert.Equal(t, 1, env.db.countAnswers())
	assert.NotEmpty(t, env.storage.filesUnder("ads-pictures/"+ad.ID.String()), "file cleanup is skipped")
	assert.True(t, env.storage.has(*target.ImagePath))
	assert.True(t, env.cache.cached(SearchParamsCacheKey))
}

func TestUserService_DeleteAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedUser(t, "admin@example.com", models.RoleAdministrator)
	a := env.seedUser(t, "a@example.com", models.RoleBuyer)
	b := env.seedUser(t, "b@example.com", models.RoleBuyer)

	err := env.users.DeleteByID(ctx, a.ID, b.ID)
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Equal(t, "You don't have permission to delete this user", err.Error())

	require.NoError(t, env.users.DeleteByEmail(ctx, admin.ID, "b@example.com"))
	assert.False(t, env.db.hasUser(b.ID))

	err = env.users.DeleteByEmail(ctx, admin.ID, "b@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
