package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flickit-platform/assessment-api/internal/models"
)

type fakeUsers struct {
	byEmail map[string]*models.User
	err     error
	lookups []string
}

func (f *fakeUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.lookups = append(f.lookups, email)
	if f.err != nil {
		return nil, f.err
	}
	return f.byEmail[strings.ToLower(email)], nil
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*models.User{
		"active@example.com":   {ID: 1, Email: "active@example.com", IsActive: true},
		"inactive@example.com": {ID: 2, Email: "inactive@example.com", IsActive: false},
	}}
}

func TestAccessGrantValidator(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantID  int64
		wantErr string
	}{
		{name: "active account", email: "active@example.com", wantID: 1},
		{name: "surrounding spaces are trimmed", email: "  active@example.com ", wantID: 1},
		{name: "inactive account", email: "inactive@example.com", wantErr: "Invalid input."},
		{name: "no account", email: "nobody@example.com", wantErr: "Invalid input."},
		{name: "malformed email", email: "not-an-email", wantErr: "Enter a valid email address."},
		{name: "missing email", email: "", wantErr: "This field is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewAccessGrantValidator(newFakeUsers())

			user, err := v.Validate(context.Background(), EmailInput{Email: tt.email})

			if tt.wantErr != "" {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantErr, ve.Message)
				assert.Equal(t, "email", ve.Field)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, user.ID)
		})
	}
}

func TestInviteValidator(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "unregistered address", email: "new@example.com"},
		{name: "active account", email: "active@example.com", wantErr: true},
		{name: "inactive account still blocks", email: "inactive@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewInviteValidator(newFakeUsers())

			err := v.Validate(context.Background(), EmailInput{Email: tt.email})

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "An account exists with this email", ve.Message)
		})
	}
}

func TestValidators_LookupErrorsPassThrough(t *testing.T) {
	users := newFakeUsers()
	users.err = errors.New("connection refused")

	_, grantErr := NewAccessGrantValidator(users).Validate(context.Background(), EmailInput{Email: "active@example.com"})
	inviteErr := NewInviteValidator(users).Validate(context.Background(), EmailInput{Email: "new@example.com"})

	for _, err := range []error{grantErr, inviteErr} {
		require.Error(t, err)
		assert.ErrorIs(t, err, users.err)
		assert.False(t, IsValidationError(err))
	}
}

func TestValidators_MalformedEmailSkipsLookup(t *testing.T) {
	users := newFakeUsers()

	err := NewInviteValidator(users).Validate(context.Background(), EmailInput{Email: "@@"})

	assert.True(t, IsValidationError(err))
	assert.Empty(t, users.lookups)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		limit     string
		offset    string
		want      Pagination
		wantField string
	}{
		{name: "defaults", want: Pagination{Limit: DefaultLimit}},
		{name: "explicit window", limit: "50", offset: "100", want: Pagination{Limit: 50, Offset: 100}},
		{name: "upper bound", limit: "100", want: Pagination{Limit: MaxLimit}},
		{name: "limit too large", limit: "101", wantField: "limit"},
		{name: "limit zero", limit: "0", wantField: "limit"},
		{name: "negative offset", offset: "-1", wantField: "offset"},
		{name: "non numeric limit", limit: "ten", wantField: "limit"},
		{name: "non numeric offset", offset: "x", wantField: "offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePagination(tt.limit, tt.offset)

			if tt.wantField != "" {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantField, ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "email: Invalid input.", (&ValidationError{Field: "email", Message: "Invalid input."}).Error())
	assert.Equal(t, "Invalid input.", (&ValidationError{Message: "Invalid input."}).Error())
}
