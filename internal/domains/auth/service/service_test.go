package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"rento/config"
	"rento/infras/jwt"
	jwtMocks "rento/infras/jwt/mocks"
	"rento/infras/otel/mocks"
	"rento/internal/domains/auth/model/dto"
	"rento/internal/domains/auth/service"
	userMocks "rento/internal/domains/user/mocks"
	userModel "rento/internal/domains/user/model"
	"rento/shared/constant"
	gDto "rento/shared/dto"
	"rento/shared/failure"
	gModel "rento/shared/model"
	"rento/shared/password"
	"rento/shared/timezone"
)

// passwordHash is the bcrypt hash of "password".
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

func stringPtr(s string) *string {
	return &s
}

func validUser() userModel.User {
	return userModel.User{
		ID:         "user-id-123",
		Email:      "test@example.com",
		Password:   passwordHash,
		Level:      constant.RoleUser,
		FullName:   stringPtr("Test User"),
		IsVerified: true,
		Active:     true,
		Metadata:   gModel.NewMetadata(constant.ContextGuest, timezone.Now()),
	}
}

func newService(t *testing.T) (service.Auth, *userMocks.MockUser, *jwtMocks.MockJWT) {
	ctrl := gomock.NewController(t)

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	return service.New(mockUserRepo, &config.Config{}, mocks.NewOtel(), mockJWT), mockUserRepo, mockJWT
}

func TestAuthService_Register(t *testing.T) {
	svc, mockUserRepo, _ := newService(t)

	tests := []struct {
		name      string
		req       dto.RegisterRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "successful registration",
			req:  dto.RegisterRequest{Email: "New@Example.com", Password: "secret123"},
			setupMock: func() {
				mockUserRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (bool, error) {
						_, args := filter.GetWhereClause()
						assert.Equal(t, "new@example.com", args[userModel.FieldEmail])

						return false, nil
					})

				mockUserRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user userModel.User) error {
						assert.NoError(t, password.Verify("secret123", user.Password))
						assert.Equal(t, constant.RoleUser, user.Level)

						return nil
					})
			},
		},
		{
			name: "email already registered",
			req:  dto.RegisterRequest{Email: "test@example.com", Password: "secret123"},
			setupMock: func() {
				mockUserRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "concurrent registration hits unique constraint",
			req:  dto.RegisterRequest{Email: "test@example.com", Password: "secret123"},
			setupMock: func() {
				mockUserRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockUserRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: "23505", Constraint: userModel.EmailConstraint})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "insert error",
			req:  dto.RegisterRequest{Email: "test@example.com", Password: "secret123"},
			setupMock: func() {
				mockUserRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockUserRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Register(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, "new@example.com", res.Email)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, mockUserRepo, mockJWT := newService(t)
	user := validUser()

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), user.ID, user.Email, user.Level).
					Return(&jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil)

				mockUserRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "last login update failure does not block login",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), user.ID, user.Email, user.Level).
					Return(&jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil)

				mockUserRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@example.com", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "wrongpassword"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "inactive user",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func() {
				inactive := user
				inactive.Active = false

				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token generation error",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), user.ID, user.Email, user.Level).
					Return(nil, errors.New("token generation failed"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "access-token", result.AccessToken)
			assert.Equal(t, "refresh-token", result.RefreshToken)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	svc, _, mockJWT := newService(t)

	mockJWT.EXPECT().
		RefreshTokens(gomock.Any(), "valid-refresh-token").
		Return(&jwt.TokenPair{AccessToken: "new-access-token", RefreshToken: "new-refresh-token"}, nil)

	result, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "valid-refresh-token"})
	assert.NoError(t, err)
	assert.Equal(t, "new-access-token", result.AccessToken)

	mockJWT.EXPECT().
		RefreshTokens(gomock.Any(), "invalid-refresh-token").
		Return(nil, jwt.ErrInvalidToken)

	_, err = svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "invalid-refresh-token"})
	assert.True(t, failure.Is(err, http.StatusUnauthorized))
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, mockUserRepo, _ := newService(t)
	user := validUser()

	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		actorID   string
		setupMock func()
		wantCode  int
	}{
		{
			name:    "successful password change",
			req:     dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			actorID: user.ID,
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				mockUserRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						hash, _ := fields[userModel.FieldPassword].(string)
						assert.NoError(t, password.Verify("newpassword123", hash))
						assert.Equal(t, user.ID, fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name:    "user not found",
			req:     dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			actorID: "nonexistent-id",
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:    "wrong current password",
			req:     dto.ChangePasswordRequest{CurrentPassword: "wrongpassword", NewPassword: "newpassword123"},
			actorID: user.ID,
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:    "update password error",
			req:     dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			actorID: user.ID,
			setupMock: func() {
				mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				mockUserRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.ChangePassword(context.Background(), tt.req, tt.actorID)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc, mockUserRepo, _ := newService(t)

	mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validUser(), nil)

	res, err := svc.CurrentUser(context.Background(), "user-id-123")
	assert.NoError(t, err)
	assert.Equal(t, dto.CurrentUserResponse{ID: "user-id-123", Email: "test@example.com", Level: constant.RoleUser}, res)
}
