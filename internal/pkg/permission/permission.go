// Package permission implements capability checks over (resource, action)
// pairs. Permissions are stored as "resource:action" strings on roles;
// "resource:manage" implies every action on that resource, and "*:manage"
// implies everything.
package permission

import "strings"

// ActionManage implies every other action on its resource.
const ActionManage = "manage"

// ResourceAll is the wildcard resource used by the admin role.
const ResourceAll = "*"

// Resource names used across the application.
const (
	ResourceProducts   = "products"
	ResourceCategories = "categories"
	ResourceCustomers  = "customers"
	ResourceCheckouts  = "checkouts"
	ResourceRegisters  = "registers"
	ResourceSales      = "sales"
	ResourceUsers      = "users"
	ResourceSessions   = "sessions"
)

// Permission is one (resource, action) capability.
type Permission struct {
	Resource string
	Action   string
}

// Parse splits a "resource:action" string. Returns false for malformed input.
func Parse(s string) (Permission, bool) {
	resource, action, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || resource == "" || action == "" {
		return Permission{}, false
	}
	return Permission{Resource: resource, Action: action}, true
}

// String returns the canonical "resource:action" form.
func (p Permission) String() string {
	return p.Resource + ":" + p.Action
}

// Set is a collection of capabilities with implied-by-manage semantics.
type Set map[Permission]struct{}

// NewSet builds a Set from "resource:action" strings, skipping malformed ones.
func NewSet(perms []string) Set {
	set := make(Set, len(perms))
	for _, raw := range perms {
		if p, ok := Parse(raw); ok {
			set[p] = struct{}{}
		}
	}
	return set
}

// Can reports whether the set grants action on resource, either directly,
// via manage on the resource, or via the global wildcard.
func (s Set) Can(resource, action string) bool {
	if _, ok := s[Permission{Resource: resource, Action: action}]; ok {
		return true
	}
	if _, ok := s[Permission{Resource: resource, Action: ActionManage}]; ok {
		return true
	}
	_, ok := s[Permission{Resource: ResourceAll, Action: ActionManage}]
	return ok
}
