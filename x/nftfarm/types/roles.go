package types

// Role is a capability checked before a mutation.
type Role uint8

const (
	// RoleOperator may create pools and sweep unallocated funds and pool surplus.
	RoleOperator Role = iota + 1
	// RoleOwner is the highest privilege, it is the module authority and satisfies every role.
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOperator:
		return "operator"
	case RoleOwner:
		return "owner"
	default:
		return "unknown"
	}
}
