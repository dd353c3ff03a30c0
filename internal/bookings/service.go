package bookings

import (
	"context"
	"database/sql"
	"time"

	"peershare-backend/internal/platform/apperr"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// ItemInfo is what booking creation needs to know about the item.
type ItemInfo struct {
	ID        int64
	Name      string
	OwnerID   int64
	Available bool
}

type store interface {
	GetByID(ctx context.Context, bookingID int64) (*Booking, error)
	Insert(ctx context.Context, b *Booking) (int64, error)
	UpdateStatus(ctx context.Context, bookingID int64, status Status) error
	ListByBooker(ctx context.Context, bookerID int64, st State, now time.Time) ([]Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, st State, now time.Time) ([]Booking, error)
	ItemInfo(ctx context.Context, itemID int64) (*ItemInfo, error)
	UserName(ctx context.Context, userID int64) (string, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
}

// Service implements booking creation, the approve/reject transition and
// the state-scoped listings.
type Service struct {
	store store
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

// Add creates a booking in WAITING state. The end must not precede the
// start; an end equal to the start is accepted.
func (s *Service) Add(ctx context.Context, bookerID int64, req CreateRequest) (*Response, error) {
	bookerName, err := s.store.UserName(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.ItemInfo(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if !item.Available {
		return nil, apperr.WrongArgument("item %d is not available for booking", item.ID)
	}
	if req.End.Before(req.Start) {
		return nil, apperr.WrongArgument("booking end must not precede its start")
	}

	b := &Booking{
		Start:      req.Start,
		End:        req.End,
		ItemID:     item.ID,
		ItemName:   item.Name,
		OwnerID:    item.OwnerID,
		BookerID:   bookerID,
		BookerName: bookerName,
		Status:     StatusWaiting,
	}
	id, err := s.store.Insert(ctx, b)
	if err != nil {
		return nil, err
	}
	b.ID = id
	return toResponse(b), nil
}

// SetStatus resolves the approve/reject decision. Only the item owner may
// decide. A terminal booking may be re-decided; concurrent decisions are
// last-write-wins.
func (s *Service) SetStatus(ctx context.Context, bookingID, userID int64, approved bool) (*Response, error) {
	b, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.WrongArgument("unknown user id %d", userID)
	}
	if b.OwnerID != userID {
		return nil, apperr.WrongArgument("only the item owner may decide a booking")
	}

	status := StatusRejected
	if approved {
		status = StatusApproved
	}
	if err := s.store.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}
	b.Status = status
	return toResponse(b), nil
}

// GetByID is visible to the booker and the item owner only.
func (s *Service) GetByID(ctx context.Context, bookingID, userID int64) (*Response, error) {
	b, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.BookerID != userID && b.OwnerID != userID {
		return nil, apperr.WrongArgument("booking is visible to its booker or the item owner only")
	}
	return toResponse(b), nil
}

// ListByBooker returns the caller's bookings scoped by state, ascending by
// end timestamp. One instant is captured per call and used for every bound.
func (s *Service) ListByBooker(ctx context.Context, bookerID int64, st State) ([]Response, error) {
	ok, err := s.store.UserExists(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.WrongArgument("unknown user id %d", bookerID)
	}

	list, err := s.store.ListByBooker(ctx, bookerID, st, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return toResponses(list), nil
}

// ListByOwner returns the bookings of every item the user owns, scoped by
// state. An unknown owner fails not-found, mirroring the booker/owner
// asymmetry of the original API.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64, st State) ([]Response, error) {
	ok, err := s.store.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("unknown user id %d", ownerID)
	}

	list, err := s.store.ListByOwner(ctx, ownerID, st, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return toResponses(list), nil
}
