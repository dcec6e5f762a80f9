package models

import "fmt"

// Role is the ordered permission tier of a user: BUYER < SELLER < ADMINISTRATOR.
type Role int

const (
	RoleBuyer         Role = 0
	RoleSeller        Role = 1
	RoleAdministrator Role = 2
)

const (
	minRole = RoleBuyer
	maxRole = RoleAdministrator
)

// ParseRole converts a raw integer into a Role, rejecting anything outside the tier range.
func ParseRole(v int) (Role, error) {
	r := Role(v)
	if !r.Valid() {
		return r, fmt.Errorf("role %d is outside [%d, %d]", v, minRole, maxRole)
	}
	return r, nil
}

// Valid reports whether r is one of the defined tiers.
func (r Role) Valid() bool {
	return r >= minRole && r <= maxRole
}

// Compare returns -1, 0 or 1 as r ranks below, equal to or above other.
func (r Role) Compare(other Role) int {
	switch {
	case r < other:
		return -1
	case r > other:
		return 1
	default:
		return 0
	}
}

// Next returns the tier above r. ok is false at the ceiling.
func (r Role) Next() (next Role, ok bool) {
	if !r.Valid() || r == maxRole {
		return r, false
	}
	return r + 1, true
}

// Previous returns the tier below r. ok is false at the floor.
func (r Role) Previous() (prev Role, ok bool) {
	if !r.Valid() || r == minRole {
		return r, false
	}
	return r - 1, true
}

// Clamp pulls a stored out-of-range value back into the tier range.
func (r Role) Clamp() Role {
	if r < minRole {
		return minRole
	}
	if r > maxRole {
		return maxRole
	}
	return r
}

// CanOwnAds reports whether users of this tier may hold listings.
func (r Role) CanOwnAds() bool {
	return r == RoleSeller || r == RoleAdministrator
}

func (r Role) String() string {
	switch r {
	case RoleBuyer:
		return "BUYER"
	case RoleSeller:
		return "SELLER"
	case RoleAdministrator:
		return "ADMINISTRATOR"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// AdType distinguishes listings for sale from listings for rent.
type AdType int

const (
	AdTypeSelling AdType = 0
	AdTypeRenting AdType = 1
)

// ParseAdType converts a raw integer into an AdType.
func ParseAdType(v int) (AdType, bool) {
	t := AdType(v)
	return t, t.Valid()
}

func (t AdType) Valid() bool {
	return t == AdTypeSelling || t == AdTypeRenting
}

func (t AdType) String() string {
	switch t {
	case AdTypeSelling:
		return "SELLING"
	case AdTypeRenting:
		return "RENTING"
	default:
		return fmt.Sprintf("AdType(%d)", int(t))
	}
}
