package auth

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/app/models"
	"github.com/yigit/bazaar/internal/pkg/apperrors"
)

// Resource identifies the kind of entity an action targets
type Resource int

const (
	ResourceAd Resource = iota
	ResourceQuestion
	ResourceAnswer
	ResourceUser
)

func (r Resource) String() string {
	switch r {
	case ResourceAd:
		return "ad"
	case ResourceQuestion:
		return "question"
	case ResourceAnswer:
		return "answer"
	case ResourceUser:
		return "user"
	default:
		return fmt.Sprintf("Resource(%d)", int(r))
	}
}

// Action is the operation an actor wants to perform
type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionDelete
	ActionChangeRole
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionChangeRole:
		return "change the role of"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Actor is the acting user as currently stored, never as claimed by a token.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// ActorFromUser builds an Actor from a freshly loaded user
func ActorFromUser(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// IsAdmin reports whether the actor holds the administrator tier
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdministrator
}

// CanAct decides whether actor may perform action on a resource owned by ownerID.
// For ResourceUser the owner is the target user itself. ownerID is ignored for creation.
func CanAct(actor Actor, resource Resource, ownerID uuid.UUID, action Action) bool {
	switch action {
	case ActionCreate:
		switch resource {
		case ResourceAd:
			return actor.Role.CanOwnAds()
		case ResourceQuestion, ResourceAnswer:
			return true
		default:
			return false
		}
	case ActionUpdate, ActionDelete:
		return actor.IsAdmin() || actor.ID == ownerID
	case ActionChangeRole:
		return resource == ResourceUser && actor.IsAdmin()
	default:
		return false
	}
}

// Authorize is CanAct returning a Forbidden error on deny.
func Authorize(actor Actor, resource Resource, ownerID uuid.UUID, action Action) error {
	if CanAct(actor, resource, ownerID, action) {
		return nil
	}
	return apperrors.NewForbiddenError(deniedMessage(resource, action))
}

func deniedMessage(resource Resource, action Action) string {
	switch {
	case action == ActionCreate && resource == ResourceAd:
		return "Only sellers and administrators can create ads"
	case action == ActionChangeRole:
		return "Only administrators can change user roles"
	default:
		return fmt.Sprintf("You don't have permission to %s this %s", action, resource)
	}
}
