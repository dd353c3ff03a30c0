package bookings

import (
	"strings"
	"time"

	"peershare-backend/internal/platform/apperr"
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// State scopes a booking listing query.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState parses the state query parameter; empty means ALL.
func ParseState(raw string) (State, error) {
	if raw == "" {
		return StateAll, nil
	}
	st := State(strings.ToUpper(raw))
	switch st {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return st, nil
	}
	return "", apperr.WrongArgument("unknown booking state %q", raw)
}

// Matches is the classification contract. The same instant is used for both
// bounds of CURRENT, so a booking is never both current and past within one
// call.
func (st State) Matches(b *Booking, now time.Time) bool {
	switch st {
	case StateCurrent:
		return !b.Start.After(now) && b.End.After(now) // start <= now < end
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return true
	}
}

// Booking is one row of the bookings table joined with its item and booker.
type Booking struct {
	ID         int64
	Start      time.Time
	End        time.Time
	ItemID     int64
	ItemName   string
	OwnerID    int64
	BookerID   int64
	BookerName string
	Status     Status
}
