package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/edgehq/edge-backend-go/internal/domain/auth"
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/pkg/jwt"
	"github.com/edgehq/edge-backend-go/internal/pkg/oauth"
)

const (
	testSecret     = "test-secret-key-for-jwt"
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testPassword   = "password123"
)

type memEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *memEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	r.employees[emp.ID] = emp
	return emp, nil
}

func (r *memEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *memEmployeeRepo) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *memEmployeeRepo) List(context.Context, bool) ([]employee.Employee, error) { return nil, nil }
func (r *memEmployeeRepo) ListByManager(context.Context, string) ([]employee.Employee, error) {
	return nil, nil
}
func (r *memEmployeeRepo) Update(context.Context, employee.Employee) error { return nil }
func (r *memEmployeeRepo) Deactivate(context.Context, string) error        { return nil }

// fakeGoogleService returns canned user info so the OAuth path is testable
// without hitting Google.
type fakeGoogleService struct {
	info        oauth.GoogleInformation
	exchangeErr error
}

func (g *fakeGoogleService) GenerateState() string { return "state" }
func (g *fakeGoogleService) RedirectURL(state string) string {
	return "https://accounts.example/" + state
}

func (g *fakeGoogleService) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if g.exchangeErr != nil {
		return nil, g.exchangeErr
	}
	return &oauth2.Token{AccessToken: "ya29." + code}, nil
}

func (g *fakeGoogleService) UserInfo(context.Context, *oauth2.Token) (oauth.GoogleInformation, error) {
	return g.info, nil
}

func seedEmployee(t *testing.T, active bool) (employee.Employee, *memEmployeeRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	emp := employee.Employee{
		ID:           "emp-1",
		FullName:     "Jamie Park",
		Email:        "jamie@edge.test",
		PasswordHash: &hashStr,
		Role:         employee.RoleEmployee,
		IsActive:     active,
	}
	return emp, &memEmployeeRepo{employees: map[string]employee.Employee{emp.ID: emp}}
}

func newTestAuthService(repo *memEmployeeRepo, google oauth.GoogleService) *AuthService {
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	if google == nil {
		google = &fakeGoogleService{}
	}
	return NewAuthService(repo, jwtService, google)
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	_, repo := seedEmployee(t, true)
	svc := newTestAuthService(repo, nil)

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "jamie@edge.test", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.ExpiresAt, int64(0))
	assert.Equal(t, "emp-1", resp.Employee.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	_, repo := seedEmployee(t, true)
	svc := newTestAuthService(repo, nil)

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "jamie@edge.test", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	_, repo := seedEmployee(t, true)
	svc := newTestAuthService(repo, nil)

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "nobody@edge.test", Password: testPassword})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	ctx := context.Background()
	_, repo := seedEmployee(t, false)
	svc := newTestAuthService(repo, nil)

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "jamie@edge.test", Password: testPassword})
	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestAuthService_Login_OAuthOnlyAccount(t *testing.T) {
	ctx := context.Background()
	emp, repo := seedEmployee(t, true)
	emp.PasswordHash = nil
	repo.employees[emp.ID] = emp
	svc := newTestAuthService(repo, nil)

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "jamie@edge.test", Password: testPassword})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_LoginWithGoogle_Success(t *testing.T) {
	ctx := context.Background()
	_, repo := seedEmployee(t, true)
	google := &fakeGoogleService{info: oauth.GoogleInformation{
		GoogleID:      "g-123",
		Email:         "jamie@edge.test",
		VerifiedEmail: true,
	}}
	svc := newTestAuthService(repo, google)

	resp, err := svc.LoginWithGoogle(ctx, "auth-code")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "emp-1", resp.Employee.ID)
}

func TestAuthService_LoginWithGoogle_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	_, repo := seedEmployee(t, true)
	google := &fakeGoogleService{info: oauth.GoogleInformation{
		Email:         "stranger@gmail.test",
		VerifiedEmail: true,
	}}
	svc := newTestAuthService(repo, google)

	// No account auto-provisioning on first OAuth login.
	_, err := svc.LoginWithGoogle(ctx, "auth-code")
	assert.ErrorIs(t, err, auth.ErrOAuthEmailUnknown)
}

func TestAuthService_LoginWithGoogle_UnverifiedEmail(t *testing.T) {
	ctx := context.Background()
	_, repo := seedEmployee(t, true)
	google := &fakeGoogleService{info: oauth.GoogleInformation{
		Email:         "jamie@edge.test",
		VerifiedEmail: false,
	}}
	svc := newTestAuthService(repo, google)

	_, err := svc.LoginWithGoogle(ctx, "auth-code")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_LoginWithGoogle_ExchangeFailure(t *testing.T) {
	ctx := context.Background()
	_, repo := seedEmployee(t, true)
	google := &fakeGoogleService{exchangeErr: errors.New("code already redeemed")}
	svc := newTestAuthService(repo, google)

	_, err := svc.LoginWithGoogle(ctx, "stale-code")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	ctx := context.Background()
	_, repo := seedEmployee(t, true)
	svc := newTestAuthService(repo, nil)

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "jamie@edge.test", Password: testPassword})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// The old refresh token was revoked by the exchange.
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	ctx := context.Background()
	_, repo := seedEmployee(t, true)
	svc := newTestAuthService(repo, nil)

	_, err := svc.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	ctx := context.Background()
	_, repo := seedEmployee(t, true)
	svc := newTestAuthService(repo, nil)

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "jamie@edge.test", Password: testPassword})
	require.NoError(t, err)

	// An access token is not acceptable on the refresh endpoint.
	_, err = svc.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	ctx := context.Background()
	_, repo := seedEmployee(t, true)
	svc := newTestAuthService(repo, nil)

	login, err := svc.Login(ctx, auth.LoginRequest{Email: "jamie@edge.test", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}
