// Copyright (c) 2026 Ticketflow. All rights reserved.

package sec

// # User Roles

// Role represents the function a user performs inside their organization.
type Role string

const (
	// Files tickets and tracks their resolution
	RoleClient Role = "CLIENT"

	// Works assigned tickets through to resolution
	RoleDeveloper Role = "DEVELOPER"

	// Assigns tickets and oversees workload across developers
	RoleManager Role = "MANAGER"

	// Full organization administration
	RoleAdmin Role = "ADMIN"
)

// # Role Membership

// In reports whether the role is a member of the allowed set.
//
// Access decisions in this system are set-based, not hierarchical: a MANAGER
// is not a superset of a DEVELOPER. Views declare the exact roles they admit.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// Known reports whether the role is one of the defined values.
func (r Role) Known() bool {
	switch r {
	case RoleClient, RoleDeveloper, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// # Organization Plans

// Plan is the subscription tier of an organization. It gates premium views
// such as the AI chat assistant.
type Plan string

const (
	PlanBase    Plan = "BASE"
	PlanPremium Plan = "PREMIUM"
)
