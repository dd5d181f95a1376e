package services_test

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"tokoshop/internal/apperror"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
	"tokoshop/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func newAuthService() (*services.AuthService, *MockCustomerRepository, *MockStaffRepository, *MockTokenDenylist) {
	customers := new(MockCustomerRepository)
	staff := new(MockStaffRepository)
	denylist := new(MockTokenDenylist)
	return services.NewAuthService(customers, staff, denylist, testJWTSecret, time.Hour), customers, staff, denylist
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_RegisterCustomer(t *testing.T) {
	ctx := context.Background()
	authService, customers, _, _ := newAuthService()

	customers.On("GetByEmail", ctx, "new@example.com").Return(nil, repositories.ErrNotFound).Once()
	customers.On("Create", ctx, mock.AnythingOfType("*models.Customer")).Return(nil).Once()

	customer, err := authService.RegisterCustomer(ctx, services.RegisterCustomerInput{
		FullName: " New Customer ",
		Email:    "New@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", customer.Email)
	assert.Equal(t, "New Customer", customer.FullName)
	assert.Equal(t, uint(models.RoleCustomer), customer.RoleID)
	assert.True(t, customer.IsActive)
	assert.NotEqual(t, "password123", customer.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte("password123")))
	customers.AssertExpectations(t)
}

func TestAuthService_RegisterCustomer_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	authService, customers, _, _ := newAuthService()

	customers.On("GetByEmail", ctx, "taken@example.com").Return(&models.Customer{Email: "taken@example.com"}, nil).Once()

	_, err := authService.RegisterCustomer(ctx, services.RegisterCustomerInput{
		FullName: "Someone",
		Email:    "taken@example.com",
		Password: "password123",
	})
	assert.Error(t, err)
	assert.Equal(t, 409, apperror.StatusOf(err))
	customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_RegisterCustomer_UniqueViolation(t *testing.T) {
	ctx := context.Background()
	authService, customers, _, _ := newAuthService()

	customers.On("GetByEmail", ctx, "race@example.com").Return(nil, repositories.ErrNotFound).Once()
	customers.On("Create", ctx, mock.AnythingOfType("*models.Customer")).Return(repositories.ErrDuplicate).Once()

	_, err := authService.RegisterCustomer(ctx, services.RegisterCustomerInput{
		FullName: "Racer",
		Email:    "race@example.com",
		Password: "password123",
	})
	assert.Equal(t, 409, apperror.StatusOf(err))
}

func TestAuthService_LoginCustomer(t *testing.T) {
	ctx := context.Background()
	authService, customers, _, denylist := newAuthService()

	customer := &models.Customer{FullName: "Buyer", Email: "buyer@example.com", Password: hashed(t, "secret123"), RoleID: models.RoleCustomer, IsActive: true}
	customer.ID = "cust-1"
	customers.On("GetByEmail", ctx, "buyer@example.com").Return(customer, nil)
	customers.On("TouchLastLogin", ctx, "cust-1", mock.AnythingOfType("time.Time")).Return(nil)
	denylist.On("IsRevoked", ctx, mock.AnythingOfType("string")).Return(false, nil)

	t.Run("valid credentials", func(t *testing.T) {
		token, account, err := authService.LoginCustomer(ctx, "Buyer@example.com", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotNil(t, account.LastLoginAt)

		principal, err := authService.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "cust-1", principal.ID)
		assert.Equal(t, services.KindCustomer, principal.Kind)
		assert.False(t, principal.IsStaff())
		assert.True(t, principal.Owns("cust-1"))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := authService.LoginCustomer(ctx, "buyer@example.com", "nope")
		assert.Equal(t, 401, apperror.StatusOf(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		customers.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repositories.ErrNotFound).Once()
		_, _, err := authService.LoginCustomer(ctx, "ghost@example.com", "secret123")
		assert.Equal(t, 401, apperror.StatusOf(err))
	})
}

func TestAuthService_LoginCustomer_Disabled(t *testing.T) {
	ctx := context.Background()
	authService, customers, _, _ := newAuthService()

	customer := &models.Customer{Email: "off@example.com", Password: hashed(t, "secret123"), IsActive: false}
	customers.On("GetByEmail", ctx, "off@example.com").Return(customer, nil)

	_, _, err := authService.LoginCustomer(ctx, "off@example.com", "secret123")
	assert.Equal(t, 403, apperror.StatusOf(err))
	customers.AssertNotCalled(t, "TouchLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_LoginStaff(t *testing.T) {
	ctx := context.Background()
	authService, _, staff, denylist := newAuthService()

	admin := &models.Staff{Email: "admin@example.com", Password: hashed(t, "admin123"), RoleID: models.RoleAdmin, IsActive: true}
	admin.ID = "staff-1"
	staff.On("GetByEmail", ctx, "admin@example.com").Return(admin, nil)
	staff.On("TouchLastLogin", ctx, "staff-1", mock.AnythingOfType("time.Time")).Return(nil)
	denylist.On("IsRevoked", ctx, mock.AnythingOfType("string")).Return(false, nil)

	token, _, err := authService.LoginStaff(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)

	principal, err := authService.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, principal.IsStaff())
	assert.True(t, principal.IsAdmin())
	assert.False(t, principal.Owns("staff-1"))
}

func TestAuthService_ValidateToken(t *testing.T) {
	ctx := context.Background()
	authService, _, _, denylist := newAuthService()

	t.Run("wrong secret", func(t *testing.T) {
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "cust-1", "role_id": 3, "kind": "customer", "exp": time.Now().Add(time.Hour).Unix(),
		})
		tokenString, err := forged.SignedString([]byte("another_secret"))
		require.NoError(t, err)

		_, err = authService.ValidateToken(ctx, tokenString)
		assert.Equal(t, 401, apperror.StatusOf(err))
	})

	t.Run("expired", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "cust-1", "role_id": 3, "kind": "customer", "exp": time.Now().Add(-time.Minute).Unix(),
		})
		tokenString, err := expired.SignedString([]byte(testJWTSecret))
		require.NoError(t, err)

		_, err = authService.ValidateToken(ctx, tokenString)
		assert.Equal(t, 401, apperror.StatusOf(err))
	})

	t.Run("unknown kind", func(t *testing.T) {
		odd := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "x", "role_id": 3, "kind": "robot", "exp": time.Now().Add(time.Hour).Unix(),
		})
		tokenString, err := odd.SignedString([]byte(testJWTSecret))
		require.NoError(t, err)

		_, err = authService.ValidateToken(ctx, tokenString)
		assert.Equal(t, 401, apperror.StatusOf(err))
	})

	t.Run("revoked", func(t *testing.T) {
		tokenString, err := authService.IssueToken("cust-1", models.RoleCustomer, services.KindCustomer)
		require.NoError(t, err)
		denylist.On("IsRevoked", ctx, tokenString).Return(true, nil).Once()

		_, err = authService.ValidateToken(ctx, tokenString)
		assert.Equal(t, 401, apperror.StatusOf(err))
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	authService, _, _, denylist := newAuthService()

	tokenString, err := authService.IssueToken("cust-1", models.RoleCustomer, services.KindCustomer)
	require.NoError(t, err)
	denylist.On("IsRevoked", ctx, tokenString).Return(false, nil).Once()
	principal, err := authService.ValidateToken(ctx, tokenString)
	require.NoError(t, err)

	denylist.On("Revoke", ctx, tokenString, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= time.Hour
	})).Return(nil).Once()

	require.NoError(t, authService.Logout(ctx, tokenString, principal))
	denylist.AssertExpectations(t)
}

func TestAuthService_CurrentAccount(t *testing.T) {
	ctx := context.Background()
	authService, customers, staff, _ := newAuthService()

	customer := &models.Customer{Email: "buyer@example.com"}
	customers.On("GetByID", ctx, "cust-1").Return(customer, nil).Once()
	account, err := authService.CurrentAccount(ctx, &services.Principal{ID: "cust-1", Kind: services.KindCustomer})
	require.NoError(t, err)
	assert.Same(t, customer, account)

	staff.On("GetByID", ctx, "gone").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.CurrentAccount(ctx, &services.Principal{ID: "gone", Kind: services.KindStaff})
	assert.Equal(t, 401, apperror.StatusOf(err))
}

func TestAuthService_TokenDuration(t *testing.T) {
	authService, _, _, _ := newAuthService()
	assert.Equal(t, time.Hour, authService.TokenDuration())

	token, err := authService.IssueToken("cust-1", models.RoleCustomer, services.KindCustomer)
	require.NoError(t, err)
	parsed, _, err := new(jwt.Parser).ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	exp := int64(parsed.Claims.(jwt.MapClaims)["exp"].(float64))
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), exp, 5)
}
