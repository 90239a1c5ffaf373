package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/enablehub/enable-api/internal/domain/customer"
	"github.com/enablehub/enable-api/internal/pkg/jwt"
	"github.com/enablehub/enable-api/internal/pkg/password"
)

// CustomerStore is the slice of the customer repository auth needs
type CustomerStore interface {
	GetByCode(ctx context.Context, code string) (*customer.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
}

// Service handles authentication. Refresh tokens live in Redis as
// hash(token) -> "role:subjectID"; without Redis, login still works but
// refresh is disabled.
type Service struct {
	customers  CustomerStore
	admins     AdminRepository
	jwtService *jwt.Service
	redis      *redis.Client // nil if Redis disabled
}

// NewService creates auth service
func NewService(customers CustomerStore, admins AdminRepository, jwtService *jwt.Service, redisClient *redis.Client) *Service {
	return &Service{
		customers:  customers,
		admins:     admins,
		jwtService: jwtService,
		redis:      redisClient,
	}
}

// LoginCustomer authenticates a customer by code and password
func (s *Service) LoginCustomer(ctx context.Context, req *CustomerLoginRequest) (*AuthResponse, error) {
	c, err := s.customers.GetByCode(ctx, req.CustomerCode)
	if err != nil || c == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, c.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, c.ID, c.Name, jwt.RoleCustomer, c.CreatedAt)
}

// LoginAdmin authenticates a team member by email and password
func (s *Service) LoginAdmin(ctx context.Context, req *AdminLoginRequest) (*AuthResponse, error) {
	a, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil || a == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, a.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, a.ID, a.Name, jwt.RoleAdmin, a.CreatedAt)
}

// Refresh rotates a refresh token and issues a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	if err := s.checkRefreshToken(ctx, refreshHash); err != nil {
		return nil, err
	}

	// Token rotation: the presented token is burned before new ones go out
	_ = s.deleteRefreshToken(ctx, refreshHash)

	switch claims.Role {
	case jwt.RoleAdmin:
		a, err := s.admins.GetByID(ctx, claims.SubjectID)
		if err != nil || a == nil {
			return nil, ErrAccountNotFound
		}
		return s.generateTokens(ctx, a.ID, a.Name, jwt.RoleAdmin, a.CreatedAt)
	default:
		c, err := s.customers.GetByID(ctx, claims.SubjectID)
		if err != nil || c == nil {
			return nil, ErrAccountNotFound
		}
		return s.generateTokens(ctx, c.ID, c.Name, jwt.RoleCustomer, c.CreatedAt)
	}
}

// Logout invalidates a refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.deleteRefreshToken(ctx, jwt.HashRefreshToken(refreshToken))
}

func (s *Service) generateTokens(ctx context.Context, subjectID uuid.UUID, name, role string, createdAt time.Time) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(subjectID, role)
	if err != nil {
		return nil, err
	}

	refreshToken, _, _, err := s.jwtService.GenerateRefreshToken(subjectID, role)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, jwt.HashRefreshToken(refreshToken), subjectID); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Account: AccountResponse{
			ID:        subjectID,
			Name:      name,
			Role:      role,
			CreatedAt: createdAt,
		},
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
		},
	}, nil
}

// Redis helpers (handle nil redis gracefully)
func (s *Service) storeRefreshToken(ctx context.Context, tokenHash string, subjectID uuid.UUID) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Set(ctx, "refresh:"+tokenHash, subjectID.String(), s.jwtService.GetRefreshTTL()).Err()
}

func (s *Service) checkRefreshToken(ctx context.Context, tokenHash string) error {
	if s.redis == nil {
		return ErrInvalidRefreshToken
	}
	if err := s.redis.Get(ctx, "refresh:"+tokenHash).Err(); err != nil {
		return ErrInvalidRefreshToken
	}
	return nil
}

func (s *Service) deleteRefreshToken(ctx context.Context, tokenHash string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, "refresh:"+tokenHash).Err()
}
