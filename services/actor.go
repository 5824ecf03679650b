package services

import "github.com/mangrove-registry/models"

// Actor is the pre-authorized identity performing an operation. Services
// record the identity but never check the role; authorization happens in
// the caller.
type Actor struct {
	UserID *string
	Role   models.Role
}

// UserActor builds an actor for an authenticated user
func UserActor(userID string, role models.Role) Actor {
	return Actor{UserID: &userID, Role: role}
}

// SystemActor is used for actions without a human user
func SystemActor() Actor {
	return Actor{}
}

// ID returns the user id or an empty string for system actors
func (a Actor) ID() string {
	if a.UserID == nil {
		return ""
	}
	return *a.UserID
}
