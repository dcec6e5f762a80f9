package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		raw     int
		want    Role
		wantErr bool
	}{
		{name: "buyer", raw: 0, want: RoleBuyer},
		{name: "seller", raw: 1, want: RoleSeller},
		{name: "administrator", raw: 2, want: RoleAdministrator},
		{name: "below range", raw: -1, wantErr: true},
		{name: "above range", raw: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_NextPrevious(t *testing.T) {
	next, ok := RoleBuyer.Next()
	assert.True(t, ok)
	assert.Equal(t, RoleSeller, next)

	next, ok = RoleSeller.Next()
	assert.True(t, ok)
	assert.Equal(t, RoleAdministrator, next)

	_, ok = RoleAdministrator.Next()
	assert.False(t, ok, "administrator is the ceiling")

	prev, ok := RoleAdministrator.Previous()
	assert.True(t, ok)
	assert.Equal(t, RoleSeller, prev)

	_, ok = RoleBuyer.Previous()
	assert.False(t, ok, "buyer is the floor")

	_, ok = Role(7).Next()
	assert.False(t, ok)
}

func TestRole_Clamp(t *testing.T) {
	assert.Equal(t, RoleBuyer, Role(-4).Clamp())
	assert.Equal(t, RoleAdministrator, Role(9).Clamp())
	assert.Equal(t, RoleSeller, RoleSeller.Clamp())
}

func TestRole_CompareAndOwnership(t *testing.T) {
	assert.Equal(t, -1, RoleBuyer.Compare(RoleSeller))
	assert.Equal(t, 0, RoleSeller.Compare(RoleSeller))
	assert.Equal(t, 1, RoleAdministrator.Compare(RoleBuyer))

	assert.False(t, RoleBuyer.CanOwnAds())
	assert.True(t, RoleSeller.CanOwnAds())
	assert.True(t, RoleAdministrator.CanOwnAds())
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "BUYER", RoleBuyer.String())
	assert.Equal(t, "ADMINISTRATOR", RoleAdministrator.String())
	assert.Equal(t, "Role(5)", Role(5).String())
}

func TestParseAdType(t *testing.T) {
	typ, ok := ParseAdType(0)
	assert.True(t, ok)
	assert.Equal(t, AdTypeSelling, typ)

	typ, ok = ParseAdType(1)
	assert.True(t, ok)
	assert.Equal(t, "RENTING", typ.String())

	_, ok = ParseAdType(2)
	assert.False(t, ok)
}

func TestAdBounds_HasData(t *testing.T) {
	assert.False(t, AdBounds{}.HasData())

	price := 10.0
	assert.True(t, AdBounds{MinPrice: &price, MaxPrice: &price, Count: 1}.HasData())
}
