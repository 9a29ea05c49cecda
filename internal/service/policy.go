package service

// Actor is the identity a request acts as. UserID 0 means anonymous.
type Actor struct {
	UserID uint
}

// Anonymous is the actor of requests without credentials.
var Anonymous = Actor{}

// Authenticated reports whether the actor carries an identity.
func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

// Action is the operation being authorized.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Owned is implemented by resources that carry an owner.
type Owned interface {
	OwnerKey() uint
}

// Authorize decides whether actor may perform action on resource.
// Reads and creates only need an identity; updates and deletes on an owned
// resource additionally need the actor to be its owner. resource may be nil
// for list and create operations.
func Authorize(actor Actor, action Action, resource Owned) error {
	if !actor.Authenticated() {
		return ErrUnauthorized
	}

	switch action {
	case ActionRead, ActionCreate:
		return nil
	case ActionUpdate, ActionDelete:
		if resource == nil {
			return nil
		}
		if resource.OwnerKey() != actor.UserID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}
