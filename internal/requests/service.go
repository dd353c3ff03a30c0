package requests

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

type store interface {
	Insert(ctx context.Context, r *ItemRequest) (int64, error)
	GetByID(ctx context.Context, requestID int64) (*ItemRequest, error)
	ListAll(ctx context.Context) ([]ItemRequest, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]ItemRequest, error)
	ItemsByRequestIDs(ctx context.Context, requestIDs []int64) (map[int64][]RequestItem, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
}

// Service implements the item-request operations.
type Service struct {
	store store
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

func (s *Service) Add(ctx context.Context, requestorID int64, req CreateRequest) (*Response, error) {
	ok, err := s.store.UserExists(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("user with id %d not found", requestorID)
	}

	r := &ItemRequest{
		Description: req.Description,
		RequestorID: requestorID,
		CreateDate:  s.clock.Now(),
	}
	id, err := s.store.Insert(ctx, r)
	if err != nil {
		return nil, err
	}
	r.ID = id
	return toResponse(r, nil), nil
}

// GetAll lists every request ascending by creation date, items omitted.
func (s *Service) GetAll(ctx context.Context) ([]Response, error) {
	list, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Response, 0, len(list))
	for i := range list {
		out = append(out, *toResponse(&list[i], nil))
	}
	return out, nil
}

// GetByRequestor lists the caller's requests, each with the items created
// to satisfy it. The item lookup is batched over all request ids at once.
func (s *Service) GetByRequestor(ctx context.Context, requestorID int64) ([]Response, error) {
	list, err := s.store.ListByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}
	itemsByRequest, err := s.store.ItemsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Response, 0, len(list))
	for i := range list {
		out = append(out, *toResponse(&list[i], itemsByRequest[list[i].ID]))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, requestID int64) (*Response, error) {
	r, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	itemsByRequest, err := s.store.ItemsByRequestIDs(ctx, []int64{requestID})
	if err != nil {
		return nil, err
	}
	return toResponse(r, itemsByRequest[requestID]), nil
}
