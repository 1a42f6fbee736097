package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/domain/shared"
)

func errCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Ana Torres ", " Ana@Example.COM ", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "Ana Torres", u.Name)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)
	assert.True(t, u.IsActive())
	assert.False(t, u.IsAdmin())
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong-pass"))
	assert.NotContains(t, u.PasswordHash, "s3cret")
}

func TestNewUser_Validation(t *testing.T) {
	tests := []struct {
		name, user, email, password, code string
	}{
		{"empty name", "", "a@b.co", "password1", "INVALID_NAME"},
		{"bad email", "Ana", "not-an-email", "password1", "INVALID_EMAIL"},
		{"short password", "Ana", "a@b.co", "short", "INVALID_PASSWORD"},
		{"long password", "Ana", "a@b.co", strings.Repeat("p", 73), "INVALID_PASSWORD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.user, tt.email, tt.password)
			assert.Equal(t, tt.code, errCode(err))
		})
	}
}

func TestUser_RoleAndStatus(t *testing.T) {
	u := &User{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Role: RoleUser, Status: UserStatusActive}

	require.NoError(t, u.ChangeRole(RoleAdmin))
	assert.True(t, u.IsAdmin())
	assert.Equal(t, "INVALID_ROLE", errCode(u.ChangeRole("owner")))

	require.NoError(t, u.Disable())
	assert.False(t, u.IsActive())
	assert.Error(t, u.Disable())
	require.NoError(t, u.Enable())
	assert.Error(t, u.Enable())

	u.RecordLogin()
	assert.NotNil(t, u.LastLoginAt)
}

func TestTeamMember(t *testing.T) {
	m, err := NewTeamMember(TeamMemberProfile{
		Name:     "Luis",
		Position: "Lead Guide",
		Email:    "LUIS@tourbook.io",
		Socials:  map[string]string{"Instagram": "https://instagram.com/luis", "website": " "},
		Active:   true,
	}, 3)
	require.NoError(t, err)
	assert.Equal(t, "luis@tourbook.io", m.Email)
	assert.Equal(t, map[string]string{"instagram": "https://instagram.com/luis"}, m.Socials)
	assert.Equal(t, 3, m.DisplayOrder)

	err = m.Update(TeamMemberProfile{Name: "Luis", Position: "Guide", Socials: map[string]string{"myspace": "x"}})
	assert.Equal(t, "INVALID_SOCIAL", errCode(err))

	_, err = NewTeamMember(TeamMemberProfile{Name: "Luis"}, 0)
	assert.Equal(t, "INVALID_POSITION", errCode(err))
}
