package authenticating

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-guardian/infrastructure/repository"
	"github.com/vfg2006/profit-guardian/internal/config"
	"github.com/vfg2006/profit-guardian/internal/domain"
	"github.com/vfg2006/profit-guardian/pkg/apiErrors"
	"github.com/vfg2006/profit-guardian/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

// Authenticator autentica operadores da API e valida seus tokens
type Authenticator interface {
	Login(username, password string) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
	EnsureOperator() error
}

type Service struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewService(userRepo repository.UserRepository, cfg *config.Config) Authenticator {
	return &Service{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// EnsureOperator garante que o operador configurado exista no banco. Roda na
// subida da aplicação; se o usuário já existe nada muda.
func (s *Service) EnsureOperator() error {
	if s.cfg.Auth.OperatorUsername == "" || s.cfg.Auth.OperatorPasswordHash == "" {
		return nil
	}

	existing, err := s.userRepo.GetByUsername(s.cfg.Auth.OperatorUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	id, err := utils.GenerateID()
	if err != nil {
		return fmt.Errorf("erro ao gerar identificador do operador: %w", err)
	}

	if err := s.userRepo.Create(&domain.User{
		ID:           id,
		Username:     s.cfg.Auth.OperatorUsername,
		PasswordHash: s.cfg.Auth.OperatorPasswordHash,
	}); err != nil {
		return err
	}

	logrus.WithField("username", s.cfg.Auth.OperatorUsername).Info("operador criado a partir da configuração")

	return nil
}

func (s *Service) Login(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Usuário e senha são obrigatórios")
	}

	username = strings.TrimSpace(strings.ToLower(username))

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário no banco de dados")
	}

	if user == nil {
		return "", NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "Usuário não encontrado")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Senha incorreta")
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	return token, nil
}

func (s *Service) generateJWT(user *domain.User) (string, error) {
	claims := domain.Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Auth.Secret))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Auth.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
