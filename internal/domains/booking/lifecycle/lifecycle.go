// Package lifecycle holds the booking state machine. It performs no I/O: callers load the booking,
// ask Decide whether an intent is permitted and then persist the returned edge with a guarded write.
package lifecycle

import (
	"fmt"
	notificationModel "rento/internal/domains/notification/model"
	"rento/shared/constant"
	"rento/shared/failure"
	"slices"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

var Statuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Terminal statuses accept no further intents.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Active bookings still hold the item and are affected by a listing removal.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Intent string

const (
	IntentApprove  Intent = "approve"
	IntentReject   Intent = "reject"
	IntentCancel   Intent = "cancel"
	IntentComplete Intent = "complete"
)

func ParseIntent(value string) (Intent, error) {
	intent := Intent(value)
	if _, ok := edges[intent]; !ok {
		return "", failure.BadRequestFromString(fmt.Sprintf("unknown booking action %q", value)) // nolint:wrapcheck
	}

	return intent, nil
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleRenter Role = "renter"
	RoleSystem Role = "system"
)

// Parties are the two users a booking binds together.
type Parties struct {
	OwnerID  string
	RenterID string
}

// RoleOf resolves the role an actor plays on the booking. Background workers act as constant.ActorSystem.
func (p Parties) RoleOf(actorID string) (Role, bool) {
	switch {
	case actorID == "":
		return "", false
	case actorID == constant.ActorSystem:
		return RoleSystem, true
	case actorID == p.OwnerID:
		return RoleOwner, true
	case actorID == p.RenterID:
		return RoleRenter, true
	default:
		return "", false
	}
}

// Involves reports whether userID is the owner or the renter.
func (p Parties) Involves(userID string) bool {
	return userID != "" && (userID == p.OwnerID || userID == p.RenterID)
}

// Counterparty returns the other side of the booking for one of its parties.
func (p Parties) Counterparty(userID string) string {
	if userID == p.OwnerID {
		return p.RenterID
	}

	return p.OwnerID
}

func (p Parties) userFor(role Role) string {
	if role == RoleOwner {
		return p.OwnerID
	}

	return p.RenterID
}

type edge struct {
	from         Status
	to           Status
	allowed      []Role
	notification notificationModel.Type
	notify       Role
}

var edges = map[Intent]edge{
	IntentApprove: {
		from:         StatusPending,
		to:           StatusConfirmed,
		allowed:      []Role{RoleOwner},
		notification: notificationModel.TypeBookingApproved,
		notify:       RoleRenter,
	},
	IntentReject: {
		from:         StatusPending,
		to:           StatusCancelled,
		allowed:      []Role{RoleOwner},
		notification: notificationModel.TypeBookingRejected,
		notify:       RoleRenter,
	},
	IntentCancel: {
		from:         StatusPending,
		to:           StatusCancelled,
		allowed:      []Role{RoleRenter},
		notification: notificationModel.TypeBookingCancelled,
		notify:       RoleOwner,
	},
	IntentComplete: {
		from:         StatusConfirmed,
		to:           StatusCompleted,
		allowed:      []Role{RoleOwner, RoleSystem},
		notification: notificationModel.TypeBookingCompleted,
		notify:       RoleRenter,
	},
}

// Decision is a permitted transition together with the notification it triggers.
type Decision struct {
	Intent       Intent
	From         Status
	To           Status
	ActorRole    Role
	Notification notificationModel.Type
	RecipientID  string
}

// Decide checks an intent against the current status and the acting principal. Authorization is
// checked before the status so a stranger learns nothing about the booking.
func Decide(current Status, intent Intent, parties Parties, actorID string) (Decision, error) {
	e, ok := edges[intent]
	if !ok {
		return Decision{}, failure.BadRequestFromString(fmt.Sprintf("unknown booking action %q", intent)) // nolint:wrapcheck
	}

	role, ok := parties.RoleOf(actorID)
	if !ok {
		return Decision{}, failure.Forbidden("you are not a party to this booking") // nolint:wrapcheck
	}

	if !slices.Contains(e.allowed, role) {
		return Decision{}, failure.Forbidden(fmt.Sprintf("the %s of a booking cannot %s it", role, intent)) // nolint:wrapcheck
	}

	if current != e.from {
		return Decision{}, failure.InvalidTransition(fmt.Sprintf("cannot %s a booking that is %s", intent, current)) // nolint:wrapcheck
	}

	return Decision{
		Intent:       intent,
		From:         e.from,
		To:           e.to,
		ActorRole:    role,
		Notification: e.notification,
		RecipientID:  parties.userFor(e.notify),
	}, nil
}

// ResolveCancellation maps a withdrawal request onto an intent by the actor's role: the owner
// rejects, the renter cancels.
func ResolveCancellation(parties Parties, actorID string) (Intent, error) {
	role, ok := parties.RoleOf(actorID)

	switch {
	case ok && role == RoleOwner:
		return IntentReject, nil
	case ok && role == RoleRenter:
		return IntentCancel, nil
	default:
		return "", failure.Forbidden("you are not a party to this booking") // nolint:wrapcheck
	}
}
