package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_RegisteredType(t *testing.T) {
	r := New(
		Definition{Name: "goal", Table: "goals", IDKind: IDServerGenerated, SoftDelete: true, HasUpdatedAt: true},
	)

	def, err := r.Resolve("goal")
	require.NoError(t, err)
	assert.Equal(t, "goals", def.Table)
	assert.Equal(t, IDServerGenerated, def.IDKind)
	assert.True(t, def.SoftDelete)
}

func TestResolve_UnknownType(t *testing.T) {
	r := New(
		Definition{Name: "goal", Table: "goals"},
	)

	_, err := r.Resolve("note")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownObjectType))
	assert.Contains(t, err.Error(), `"note"`)
}

func TestNames_PreservesRegistrationOrder(t *testing.T) {
	r := New(
		Definition{Name: "task", Table: "tasks"},
		Definition{Name: "goal", Table: "goals"},
		Definition{Name: "project", Table: "projects"},
	)

	assert.Equal(t, []string{"task", "goal", "project"}, r.Names())
}

func TestNew_IgnoresDuplicateNames(t *testing.T) {
	r := New(
		Definition{Name: "goal", Table: "goals"},
		Definition{Name: "goal", Table: "other_goals"},
	)

	def, err := r.Resolve("goal")
	require.NoError(t, err)
	assert.Equal(t, "goals", def.Table)
	assert.Len(t, r.Names(), 1)
}

func TestDefault_AllSelfOSTypesRegistered(t *testing.T) {
	r := Default()

	expected := []string{
		"goal", "task", "project", "life_area",
		"onboarding_state", "personal_profile", "media_attachment",
	}
	assert.Equal(t, expected, r.Names())

	media, err := r.Resolve("media_attachment")
	require.NoError(t, err)
	assert.Equal(t, IDClientProvided, media.IDKind)

	profile, err := r.Resolve("personal_profile")
	require.NoError(t, err)
	assert.False(t, profile.SoftDelete)
}

func TestIDKind_String(t *testing.T) {
	assert.Equal(t, "server-generated", IDServerGenerated.String())
	assert.Equal(t, "client-provided", IDClientProvided.String())
	assert.Equal(t, "IDKind(7)", IDKind(7).String())
}
