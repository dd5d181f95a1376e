package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tokoshop/internal/apperror"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// RegisterCustomerInput is the sign-up payload.
type RegisterCustomerInput struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Address  string `json:"address" validate:"omitempty,max=500"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	customers     repositories.CustomerRepository
	staff         repositories.StaffRepository
	denylist      repositories.TokenDenylist
	jwtSecret     []byte
	tokenDuration time.Duration // Duration for which JWT is valid
	now           func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	customers repositories.CustomerRepository,
	staff repositories.StaffRepository,
	denylist repositories.TokenDenylist,
	jwtSecret string,
	tokenDuration time.Duration,
) *AuthService {
	return &AuthService{
		customers:     customers,
		staff:         staff,
		denylist:      denylist,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// TokenDuration is how long issued tokens stay valid.
func (s *AuthService) TokenDuration() time.Duration {
	return s.tokenDuration
}

// NormalizeEmail lower-cases and trims an address before lookups and inserts.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// RegisterCustomer creates a customer account with a hashed password.
func (s *AuthService) RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (*models.Customer, error) {
	email := NormalizeEmail(in.Email)
	existing, err := s.customers.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperror.Conflict("email '%s' already registered", email)
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		FullName: strings.TrimSpace(in.FullName),
		Email:    email,
		Password: hashed,
		Phone:    in.Phone,
		Address:  in.Address,
		RoleID:   models.RoleCustomer,
		IsActive: true,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("email '%s' already registered", email).Wrap(err)
		}
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}
	return customer, nil
}

// LoginCustomer authenticates a customer and returns a signed token.
func (s *AuthService) LoginCustomer(ctx context.Context, email, password string) (string, *models.Customer, error) {
	customer, err := s.customers.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Don't reveal whether the email exists
			return "", nil, apperror.Unauthorized("invalid credentials")
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(password)); err != nil {
		return "", nil, apperror.Unauthorized("invalid credentials")
	}
	if !customer.IsActive {
		return "", nil, apperror.Forbidden("account is disabled")
	}

	token, err := s.IssueToken(customer.ID, customer.RoleID, KindCustomer)
	if err != nil {
		return "", nil, err
	}
	now := s.now()
	if err := s.customers.TouchLastLogin(ctx, customer.ID, now); err != nil {
		log.Printf("Warning: %v", err)
	}
	customer.LastLoginAt = &now
	return token, customer, nil
}

// LoginStaff authenticates a staff account and returns a signed token.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (string, *models.Staff, error) {
	staff, err := s.staff.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, apperror.Unauthorized("invalid credentials")
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)); err != nil {
		return "", nil, apperror.Unauthorized("invalid credentials")
	}
	if !staff.IsActive {
		return "", nil, apperror.Forbidden("account is disabled")
	}

	token, err := s.IssueToken(staff.ID, staff.RoleID, KindStaff)
	if err != nil {
		return "", nil, err
	}
	now := s.now()
	if err := s.staff.TouchLastLogin(ctx, staff.ID, now); err != nil {
		log.Printf("Warning: %v", err)
	}
	staff.LastLoginAt = &now
	return token, staff, nil
}

// IssueToken signs a token for the given account.
func (s *AuthService) IssueToken(subject string, roleID uint, kind AccountKind) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     subject,
		"role_id": roleID,
		"kind":    string(kind),
		"exp":     now.Add(s.tokenDuration).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and verifies a token and checks it has not been logged out.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperror.Unauthorized("invalid token").Wrap(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperror.Unauthorized("invalid token")
	}
	principal, err := principalFromClaims(claims)
	if err != nil {
		return nil, apperror.Unauthorized("invalid token").Wrap(err)
	}

	revoked, err := s.denylist.IsRevoked(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperror.Unauthorized("token has been revoked")
	}
	return principal, nil
}

func principalFromClaims(claims jwt.MapClaims) (*Principal, error) {
	sub, _ := claims["sub"].(string)
	kind, _ := claims["kind"].(string)
	roleID, okRole := claims["role_id"].(float64)
	exp, okExp := claims["exp"].(float64)
	if sub == "" || !okRole || !okExp {
		return nil, errors.New("missing claims")
	}
	if kind != string(KindCustomer) && kind != string(KindStaff) {
		return nil, fmt.Errorf("unknown account kind %q", kind)
	}
	return &Principal{
		ID:        sub,
		RoleID:    uint(roleID),
		Kind:      AccountKind(kind),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

// Logout denylists the token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, tokenString string, p *Principal) error {
	return s.denylist.Revoke(ctx, tokenString, p.ExpiresAt.Sub(s.now()))
}

// CurrentAccount loads the customer or staff record behind p.
func (s *AuthService) CurrentAccount(ctx context.Context, p *Principal) (any, error) {
	var (
		account any
		err     error
	)
	if p.IsStaff() {
		account, err = s.staff.GetByID(ctx, p.ID)
	} else {
		account, err = s.customers.GetByID(ctx, p.ID)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.Unauthorized("account no longer exists")
	}
	return account, err
}
