package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/unitstat/internal/core/domain"
)

func TestManagementName_String(t *testing.T) {
	tests := []struct {
		name string
		in   domain.ManagementName
		want string
	}{
		{
			name: "leaf only",
			in: domain.ManagementName{
				Domain:     "java",
				Properties: []domain.Property{{Key: "name", Value: "String"}},
			},
			want: "java:name=String",
		},
		{
			name: "chained properties keep order",
			in: domain.ManagementName{
				Domain: "java",
				Properties: []domain.Property{
					{Key: "type", Value: "util"},
					{Key: "util", Value: "jar"},
					{Key: "name", Value: "Manifest"},
				},
			},
			want: "java:type=util,util=jar,name=Manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestNewLiteralManagementName(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		n := domain.NewLiteralManagementName("app:type=cache,name=users")
		assert.True(t, n.IsLiteral())
		assert.Equal(t, "app", n.Domain)
		assert.Equal(t, "app:type=cache,name=users", n.String())

		v, ok := n.Get("name")
		assert.True(t, ok)
		assert.Equal(t, "users", v)
	})

	t.Run("bare property is kept verbatim", func(t *testing.T) {
		n := domain.NewLiteralManagementName("java:String")
		assert.Equal(t, "java:String", n.String())
		_, ok := n.Get("name")
		assert.False(t, ok)
	})
}

func TestUnitRecord_IsDead(t *testing.T) {
	assert.True(t, domain.UnitRecord{Name: "a.B"}.IsDead())
	assert.False(t, domain.UnitRecord{Name: "a.B", LoadCount: 1}.IsDead())
}

func TestEntryKind_String(t *testing.T) {
	assert.Equal(t, "loose", domain.KindLoose.String())
	assert.Equal(t, "packaged", domain.KindPackaged.String())
	assert.Equal(t, "unknown", domain.EntryKind(9).String())
}

func TestRegistryState_String(t *testing.T) {
	assert.Equal(t, "STOPPED", domain.StateStopped.String())
	assert.Equal(t, "STARTING", domain.StateStarting.String())
	assert.Equal(t, "RUNNING", domain.StateRunning.String())
	assert.Equal(t, "STOPPING", domain.StateStopping.String())
}

func TestRegistrationHandle(t *testing.T) {
	name := domain.NewLiteralManagementName("app:name=x")
	h1 := domain.NewRegistrationHandle(name)
	h2 := domain.NewRegistrationHandle(name)

	assert.True(t, h1.Valid())
	assert.Equal(t, "app:name=x", h1.Name())
	assert.NotEqual(t, h1, h2, "each publication gets its own handle")
	assert.False(t, domain.RegistrationHandle{}.Valid())
}

func TestConflictPolicy_Valid(t *testing.T) {
	assert.True(t, domain.ConflictFail.Valid())
	assert.True(t, domain.ConflictWarn.Valid())
	assert.False(t, domain.ConflictPolicy("ignore").Valid())
}
