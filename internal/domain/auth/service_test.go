package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/enablehub/enable-api/internal/domain/customer"
	"github.com/enablehub/enable-api/internal/pkg/jwt"
	"github.com/enablehub/enable-api/internal/pkg/password"
)

type stubCustomerStore struct {
	byCode map[string]*customer.Customer
	byID   map[uuid.UUID]*customer.Customer
}

func newStubCustomerStore() *stubCustomerStore {
	return &stubCustomerStore{
		byCode: make(map[string]*customer.Customer),
		byID:   make(map[uuid.UUID]*customer.Customer),
	}
}

func (s *stubCustomerStore) add(c *customer.Customer) {
	s.byCode[c.CustomerCode] = c
	s.byID[c.ID] = c
}

func (s *stubCustomerStore) GetByCode(_ context.Context, code string) (*customer.Customer, error) {
	c, ok := s.byCode[code]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

func (s *stubCustomerStore) GetByID(_ context.Context, id uuid.UUID) (*customer.Customer, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

type stubAdminRepo struct {
	byEmail map[string]*Admin
}

func (s *stubAdminRepo) GetByEmail(_ context.Context, email string) (*Admin, error) {
	a, ok := s.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

func (s *stubAdminRepo) GetByID(_ context.Context, id uuid.UUID) (*Admin, error) {
	for _, a := range s.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, ErrAccountNotFound
}

func testService(t *testing.T) (*Service, *stubCustomerStore, *stubAdminRepo) {
	t.Helper()
	customers := newStubCustomerStore()
	admins := &stubAdminRepo{byEmail: make(map[string]*Admin)}
	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(customers, admins, jwtSvc, nil), customers, admins
}

func seedCustomer(t *testing.T, store *stubCustomerStore, code, plaintext string) *customer.Customer {
	t.Helper()
	hash, err := password.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	c := &customer.Customer{
		ID:           uuid.New(),
		Name:         "Maria Schulz",
		Company:      "Schulz Logistik GmbH",
		Email:        "maria@schulz-logistik.de",
		CustomerCode: code,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	store.add(c)
	return c
}

func TestCustomerLogin(t *testing.T) {
	svc, customers, _ := testService(t)
	c := seedCustomer(t, customers, "SCHULZ-001", "geheim123!")

	resp, err := svc.LoginCustomer(context.Background(), &CustomerLoginRequest{
		CustomerCode: "SCHULZ-001",
		Password:     "geheim123!",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Account.ID != c.ID || resp.Account.Role != jwt.RoleCustomer {
		t.Fatalf("unexpected account: %+v", resp.Account)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
}

func TestCustomerLoginWrongPassword(t *testing.T) {
	svc, customers, _ := testService(t)
	seedCustomer(t, customers, "SCHULZ-001", "geheim123!")

	_, err := svc.LoginCustomer(context.Background(), &CustomerLoginRequest{
		CustomerCode: "SCHULZ-001",
		Password:     "falsch",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCustomerLoginUnknownCode(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.LoginCustomer(context.Background(), &CustomerLoginRequest{
		CustomerCode: "UNBEKANNT",
		Password:     "egal",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	svc, _, admins := testService(t)

	hash, err := password.Hash("admin-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admins.byEmail["team@enablehub.de"] = &Admin{
		ID:           uuid.New(),
		Name:         "EnableHub Team",
		Email:        "team@enablehub.de",
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	resp, err := svc.LoginAdmin(context.Background(), &AdminLoginRequest{
		Email:    "team@enablehub.de",
		Password: "admin-pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Account.Role != jwt.RoleAdmin {
		t.Fatalf("expected admin role, got %q", resp.Account.Role)
	}
}

func TestRefreshWithoutRedisIsRejected(t *testing.T) {
	svc, customers, _ := testService(t)
	seedCustomer(t, customers, "SCHULZ-001", "geheim123!")

	resp, err := svc.LoginCustomer(context.Background(), &CustomerLoginRequest{
		CustomerCode: "SCHULZ-001",
		Password:     "geheim123!",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No Redis means no stored token to match against
	_, err = svc.Refresh(context.Background(), resp.Tokens.RefreshToken)
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRefreshEmptyToken(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.Refresh(context.Background(), "")
	if !errors.Is(err, ErrRefreshTokenRequired) {
		t.Fatalf("expected ErrRefreshTokenRequired, got %v", err)
	}
}

func TestLogoutWithoutTokenIsNoOp(t *testing.T) {
	svc, _, _ := testService(t)

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
