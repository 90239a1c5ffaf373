package customer

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/enablehub/enable-api/internal/pkg/credentials"
	"github.com/enablehub/enable-api/internal/pkg/password"
)

// WelcomeWriter appends the welcome inbox entry on customer creation.
// Implemented by the message service; may be nil in tests.
type WelcomeWriter interface {
	SendSystem(ctx context.Context, customerID uuid.UUID, subject, content string) error
}

// Service handles customer business logic
type Service struct {
	repo    Repository
	welcome WelcomeWriter
}

// NewService creates customer service
func NewService(repo Repository, welcome WelcomeWriter) *Service {
	return &Service{repo: repo, welcome: welcome}
}

// CreatedCustomer bundles a new customer with its one-time plaintext credentials.
type CreatedCustomer struct {
	Customer   *Customer   `json:"customer"`
	Membership *Membership `json:"membership"`
	Password   string      `json:"password"`
	PIN        string      `json:"pin"`
}

// Create creates a customer together with its membership, issues the initial
// password and PIN, and writes the welcome message.
func (s *Service) Create(ctx context.Context, req *CreateCustomerRequest) (*CreatedCustomer, error) {
	pin, err := credentials.GenerateUniquePin(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	plaintext, err := credentials.GeneratePassword(credentials.DefaultPasswordLength)
	if err != nil {
		return nil, err
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Customer{
		ID:           uuid.New(),
		Name:         req.Name,
		Company:      req.Company,
		Email:        req.Email,
		CustomerCode: pin,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Phone != "" {
		c.Phone = sql.NullString{String: req.Phone, Valid: true}
	}
	if req.Advisor != "" {
		c.Advisor = sql.NullString{String: req.Advisor, Valid: true}
	}

	periodStart := now
	if req.PeriodStart != "" {
		if t, err := parseDate(req.PeriodStart); err == nil {
			periodStart = t
		}
	}
	periodEnd := periodStart.AddDate(0, 1, 0)
	if req.PeriodEnd != "" {
		if t, err := parseDate(req.PeriodEnd); err == nil {
			periodEnd = t
		}
	}

	m := &Membership{
		ID:              uuid.New(),
		CustomerID:      c.ID,
		Tier:            Tier(req.Tier),
		MonthlyPoints:   req.MonthlyPoints,
		UsedPoints:      0,
		RemainingPoints: req.MonthlyPoints,
		MonthlyPrice:    req.MonthlyPrice,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		UpdatedAt:       now,
	}
	if req.ContractStart != nil {
		if t, err := parseDate(*req.ContractStart); err == nil {
			m.ContractStart = sql.NullTime{Time: t, Valid: true}
		}
	}
	if req.ContractEnd != nil {
		if t, err := parseDate(*req.ContractEnd); err == nil {
			m.ContractEnd = sql.NullTime{Time: t, Valid: true}
		}
	}

	if err := s.repo.Create(ctx, c, m); err != nil {
		return nil, err
	}

	// Welcome message is best-effort; the account exists either way.
	if s.welcome != nil {
		if err := s.welcome.SendSystem(ctx, c.ID,
			"Willkommen bei EnableHub",
			"Ihr Zugang wurde eingerichtet. Ihr Kundencode lautet "+pin+".",
		); err != nil {
			log.Warn().Err(err).Str("customer_id", c.ID.String()).Msg("welcome message not written")
		}
	}

	log.Info().
		Str("customer_id", c.ID.String()).
		Str("tier", req.Tier).
		Float64("monthly_points", req.MonthlyPoints).
		Msg("customer created")

	return &CreatedCustomer{Customer: c, Membership: m, Password: plaintext, PIN: pin}, nil
}

// Get returns a customer with its membership
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	m, err := s.repo.GetMembership(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CustomerResponse{Customer: c, Membership: m}, nil
}

// List returns customers with total count
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Customer, int, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.List(ctx, limit, offset)
}

// Update applies only the provided fields
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateCustomerRequest) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Company != nil {
		c.Company = *req.Company
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = sql.NullString{String: *req.Phone, Valid: *req.Phone != ""}
	}
	if req.Advisor != nil {
		c.Advisor = sql.NullString{String: *req.Advisor, Valid: *req.Advisor != ""}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateMembership applies an admin edit of the allowance and counters.
// Counter edits here are deliberate overrides; the ledger keeps them in sync
// otherwise.
func (s *Service) UpdateMembership(ctx context.Context, customerID uuid.UUID, req *UpdateMembershipRequest) (*Membership, error) {
	m, err := s.repo.GetMembership(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}

	if req.Tier != nil {
		m.Tier = Tier(*req.Tier)
	}
	if req.MonthlyPoints != nil {
		m.MonthlyPoints = *req.MonthlyPoints
	}
	if req.UsedPoints != nil {
		m.UsedPoints = *req.UsedPoints
	}
	if req.RemainingPoints != nil {
		m.RemainingPoints = *req.RemainingPoints
	}
	if req.MonthlyPrice != nil {
		m.MonthlyPrice = *req.MonthlyPrice
	}
	if req.PeriodStart != nil {
		if t, err := parseDate(*req.PeriodStart); err == nil {
			m.PeriodStart = t
		}
	}
	if req.PeriodEnd != nil {
		if t, err := parseDate(*req.PeriodEnd); err == nil {
			m.PeriodEnd = t
		}
	}
	if req.ContractStart != nil {
		if t, err := parseDate(*req.ContractStart); err == nil {
			m.ContractStart = sql.NullTime{Time: t, Valid: true}
		}
	}
	if req.ContractEnd != nil {
		if t, err := parseDate(*req.ContractEnd); err == nil {
			m.ContractEnd = sql.NullTime{Time: t, Valid: true}
		}
	}
	if req.CarriedOverMonth1 != nil {
		m.CarriedOverMonth1 = *req.CarriedOverMonth1
	}
	if req.CarriedOverMonth2 != nil {
		m.CarriedOverMonth2 = *req.CarriedOverMonth2
	}
	if req.CarriedOverMonth3 != nil {
		m.CarriedOverMonth3 = *req.CarriedOverMonth3
	}

	if err := s.repo.UpdateMembership(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// IssueCredential regenerates a password or customer code PIN.
// The plaintext value is returned once and never stored.
func (s *Service) IssueCredential(ctx context.Context, id uuid.UUID, credType string) (*IssueCredentialResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	switch credType {
	case "password":
		plaintext, err := credentials.GeneratePassword(credentials.DefaultPasswordLength)
		if err != nil {
			return nil, err
		}
		hash, err := password.Hash(plaintext)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SetPasswordHash(ctx, id, hash); err != nil {
			return nil, err
		}
		log.Info().Str("customer_id", id.String()).Msg("password regenerated")
		return &IssueCredentialResponse{
			Success: true,
			Type:    "password",
			Value:   plaintext,
			Message: "Neues Passwort wurde generiert",
		}, nil

	case "pin":
		pin, err := credentials.GenerateUniquePin(ctx, s.repo)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SetCustomerCode(ctx, id, pin); err != nil {
			return nil, err
		}
		log.Info().Str("customer_id", id.String()).Msg("customer code regenerated")
		return &IssueCredentialResponse{
			Success: true,
			Type:    "pin",
			Value:   pin,
			Message: "Neuer Kundencode wurde generiert",
		}, nil
	}

	return nil, ErrInvalidCredentialType
}

// Delete removes a customer and its dependent records
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
