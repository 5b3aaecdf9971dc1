// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package sec

// # User Roles

// Role represents the authorization level granted to an account.
//
// Roles are an explicit enumerated type with a typed allow-list per route —
// never runtime string membership tests over arbitrary input.
type Role string

const (
	// Unrestricted platform access
	RoleAdmin Role = "admin"

	// Can create and manage their own courses and lessons
	RoleInstructor Role = "instructor"

	// Default role for registered learners
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the known enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleInstructor:
		return 20
	case RoleStudent:
		return 10
	default:
		return 0
	}
}

// OneOf reports whether the role is a member of the allowed set.
func (r Role) OneOf(allowed ...Role) bool {
	for _, candidate := range allowed {
		if r == candidate {
			return true
		}
	}
	return false
}
