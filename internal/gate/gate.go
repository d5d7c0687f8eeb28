// Package gate is the central permission checkpoint for the back
// office. Employee roles carry a capability set (permission name ->
// bool); the gate resolves the employee profile for a user id and
// answers Can/Authorize questions against that set.
package gate

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned by Authorize when the user has no
// employee profile or the profile lacks the permission.
var ErrUnauthorized = errors.New("unauthorized")

// Profile is the resolved employee-side identity of a user.
type Profile interface {
	EmployeeID() uint
	RoleName() string
	HasPermission(name string) bool
}

// ProfileResolver resolves a user id to its employee profile.
// A nil profile with nil error means the user is not an employee.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID uint) (Profile, error)
}

// Gate answers permission questions for employee users.
type Gate struct {
	resolver ProfileResolver
}

// New creates a gate backed by the given resolver.
func New(resolver ProfileResolver) *Gate {
	return &Gate{resolver: resolver}
}

// Authorize returns nil when the user's employee profile grants the
// permission, ErrUnauthorized otherwise.
func (g *Gate) Authorize(ctx context.Context, userID uint, permission string) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	profile, err := g.resolver.Resolve(ctx, userID)
	if err != nil || profile == nil {
		return ErrUnauthorized
	}
	if !profile.HasPermission(permission) {
		return ErrUnauthorized
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate) Can(ctx context.Context, userID uint, permission string) bool {
	return g.Authorize(ctx, userID, permission) == nil
}

// Resolve exposes the underlying resolver, e.g. to load the profile for
// template rendering.
func (g *Gate) Resolve(ctx context.Context, userID uint) (Profile, error) {
	return g.resolver.Resolve(ctx, userID)
}
