package authenticating

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	repomocks "github.com/vfg2006/profit-guardian/infrastructure/repository/mocks"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
)

func authConfig() *config.Config {
	return &config.Config{
		Auth: config.Auth{
			Secret:           "segredo-de-teste",
			OperatorUsername: "operator",
		},
	}
}

func hashedUser(t *testing.T, password string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)

	return &domain.User{
		ID:           "USR001",
		Username:     "operator",
		PasswordHash: string(hash),
	}
}

func TestService_Login(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		password    string
		setupMock   func(t *testing.T, repo *repomocks.MockUserRepository)
		expectedErr error
	}{
		{
			name:     "credenciais validas retornam token assinado",
			username: "operator",
			password: "senha-correta",
			setupMock: func(t *testing.T, repo *repomocks.MockUserRepository) {
				repo.EXPECT().GetByUsername("operator").Return(hashedUser(t, "senha-correta"), nil).Times(1)
			},
		},
		{
			name:        "usuario e senha vazios sao rejeitados",
			username:    "",
			password:    "",
			setupMock:   func(t *testing.T, repo *repomocks.MockUserRepository) {},
			expectedErr: ErrMissingRequiredData,
		},
		{
			name:     "usuario inexistente é rejeitado",
			username: "intruso",
			password: "qualquer",
			setupMock: func(t *testing.T, repo *repomocks.MockUserRepository) {
				repo.EXPECT().GetByUsername("intruso").Return(nil, nil).Times(1)
			},
			expectedErr: ErrUserNotFound,
		},
		{
			name:     "senha incorreta é rejeitada",
			username: "operator",
			password: "senha-errada",
			setupMock: func(t *testing.T, repo *repomocks.MockUserRepository) {
				repo.EXPECT().GetByUsername("operator").Return(hashedUser(t, "senha-correta"), nil).Times(1)
			},
			expectedErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repomocks.NewMockUserRepository(ctrl)
			tt.setupMock(t, repo)

			service := NewService(repo, authConfig())

			token, err := service.Login(tt.username, tt.password)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Empty(t, token)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, token)
		})
	}
}

func TestService_ValidateToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repomocks.NewMockUserRepository(ctrl)
	repo.EXPECT().GetByUsername("operator").Return(hashedUser(t, "senha-correta"), nil).Times(1)

	service := NewService(repo, authConfig())

	token, err := service.Login("operator", "senha-correta")
	assert.NoError(t, err)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "operator", claims.Username)

	_, err = service.ValidateToken("token-qualquer")
	assert.Error(t, err)
}

func TestService_ValidateToken_SegredoErrado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := repomocks.NewMockUserRepository(ctrl)
	repo.EXPECT().GetByUsername("operator").Return(hashedUser(t, "senha-correta"), nil).Times(1)

	issuer := NewService(repo, authConfig())
	token, err := issuer.Login("operator", "senha-correta")
	assert.NoError(t, err)

	otherCfg := authConfig()
	otherCfg.Auth.Secret = "outro-segredo"
	validator := NewService(repomocks.NewMockUserRepository(ctrl), otherCfg)

	_, err = validator.ValidateToken(token)
	assert.Error(t, err)
}

func TestService_EnsureOperator(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		setupMock func(repo *repomocks.MockUserRepository)
	}{
		{
			name: "operador ausente é criado a partir da configuração",
			cfg: &config.Config{
				Auth: config.Auth{
					OperatorUsername:     "operator",
					OperatorPasswordHash: "$2a$10$hashqualquer",
				},
			},
			setupMock: func(repo *repomocks.MockUserRepository) {
				repo.EXPECT().GetByUsername("operator").Return(nil, nil).Times(1)
				repo.EXPECT().Create(gomock.Any()).Return(nil).Times(1)
			},
		},
		{
			name: "operador existente não é recriado",
			cfg: &config.Config{
				Auth: config.Auth{
					OperatorUsername:     "operator",
					OperatorPasswordHash: "$2a$10$hashqualquer",
				},
			},
			setupMock: func(repo *repomocks.MockUserRepository) {
				repo.EXPECT().GetByUsername("operator").Return(&domain.User{ID: "USR001", Username: "operator"}, nil).Times(1)
			},
		},
		{
			name:      "configuração sem operador não toca o banco",
			cfg:       &config.Config{},
			setupMock: func(repo *repomocks.MockUserRepository) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := repomocks.NewMockUserRepository(ctrl)
			tt.setupMock(repo)

			service := NewService(repo, tt.cfg)

			assert.NoError(t, service.EnsureOperator())
		})
	}
}

func TestIsCredentialsError(t *testing.T) {
	assert.True(t, IsCredentialsError(NewAuthError(ErrInvalidCredentials, "AUTH_001", "Senha incorreta")))
	assert.True(t, IsCredentialsError(NewAuthError(ErrUserNotFound, "AUTH_003", "")))
	assert.False(t, IsCredentialsError(errors.New("erro qualquer")))
}
