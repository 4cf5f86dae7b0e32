package auth

import (
	"testing"
	"time"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/config"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService() *Service {
	return NewService(nil, &config.Config{
		JWT: config.JWTConfig{
			Secret:    []byte("unit-test-secret"),
			ExpiresIn: time.Hour,
		},
	})
}

func TestTokenRoundTrip(t *testing.T) {
	s := testService()
	user := &models.User{ID: 7, FullName: "Bhavna Rao", Email: "bhavna@example.com", Role: "user"}

	token, err := s.generateToken(user)
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, float64(7), (*claims)["user_id"])
	assert.Equal(t, "Bhavna Rao", (*claims)["full_name"])
	assert.Equal(t, "user", (*claims)["role"])
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	s := testService()
	token, err := s.generateToken(&models.User{ID: 1, FullName: "Aarav", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = s.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestValidateRegistrationRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     models.RegisterRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  models.RegisterRequest{FullName: "Aarav Shah", Email: "aarav@example.com", Password: "longenough"},
		},
		{
			name:    "missing fields",
			req:     models.RegisterRequest{Email: "aarav@example.com"},
			wantErr: true,
		},
		{
			name:    "bad email",
			req:     models.RegisterRequest{FullName: "Aarav Shah", Email: "not-an-email", Password: "longenough"},
			wantErr: true,
		},
		{
			name:    "short password",
			req:     models.RegisterRequest{FullName: "Aarav Shah", Email: "aarav@example.com", Password: "short"},
			wantErr: true,
		},
		{
			name:    "name too short",
			req:     models.RegisterRequest{FullName: "Aa", Email: "aarav@example.com", Password: "longenough"},
			wantErr: true,
		},
	}

	s := testService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.validateRegistrationRequest(&tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
