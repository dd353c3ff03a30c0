package items

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"peershare-backend/internal/platform/apperr"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type store interface {
	GetByID(ctx context.Context, itemID int64) (*Item, error)
	Insert(ctx context.Context, it *Item) (int64, error)
	Update(ctx context.Context, it *Item) error
	Search(ctx context.Context, text string) ([]Item, error)
	OwnerView(ctx context.Context, ownerID int64, now time.Time) (*OwnerView, error)
	CommentsByItem(ctx context.Context, itemID int64) ([]Comment, error)
	HasApprovedPastBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
	InsertComment(ctx context.Context, cm *Comment) (int64, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	UserName(ctx context.Context, userID int64) (string, error)
}

// Service implements the item catalog operations.
type Service struct {
	store store
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

func (s *Service) Add(ctx context.Context, ownerID int64, req CreateRequest) (*Response, error) {
	ok, err := s.store.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("user with id %d not found", ownerID)
	}

	it := &Item{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	if req.Available != nil {
		it.Available = *req.Available
	}
	if req.RequestID != nil {
		it.RequestID = sql.NullInt64{Int64: *req.RequestID, Valid: true}
	}

	id, err := s.store.Insert(ctx, it)
	if err != nil {
		return nil, err
	}
	it.ID = id
	return toResponse(it), nil
}

// Update applies a partial update. Only the owner may change an item.
func (s *Service) Update(ctx context.Context, itemID, userID int64, req UpdateRequest) (*Response, error) {
	it, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != userID {
		return nil, apperr.AccessDenied("only the owner may update the item")
	}

	if v, ok := req.Name.Get(); ok {
		it.Name = v
	}
	if v, ok := req.Description.Get(); ok {
		it.Description = v
	}
	if v, ok := req.Available.Get(); ok {
		it.Available = v
	}

	if err := s.store.Update(ctx, it); err != nil {
		return nil, err
	}
	return toResponse(it), nil
}

func (s *Service) GetByID(ctx context.Context, itemID int64) (*Response, error) {
	it, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return toResponse(it), nil
}

// GetDetail returns the item with its comments. Booking dates are only
// computed on the owner listing, so they stay empty here.
func (s *Service) GetDetail(ctx context.Context, itemID int64) (*DatesResponse, error) {
	it, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.CommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return &DatesResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		Comments:    toCommentResponses(comments),
	}, nil
}

// ListByOwner returns every item of the owner enriched with its nearest
// past and upcoming booking window and its comments. The store fetches the
// three lookups batched; this is a single merge pass over the items.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]DatesResponse, error) {
	view, err := s.store.OwnerView(ctx, ownerID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	out := make([]DatesResponse, 0, len(view.Items))
	for i := range view.Items {
		it := &view.Items[i]
		res := DatesResponse{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Available:   it.Available,
			Comments:    toCommentResponses(view.Comments[it.ID]),
		}
		if d, ok := view.Last[it.ID]; ok {
			res.LastBooking = &BookingPeriod{Start: d.Start, End: d.End}
		}
		if d, ok := view.Next[it.ID]; ok {
			res.NextBooking = &BookingPeriod{Start: d.Start, End: d.End}
		}
		out = append(out, res)
	}
	return out, nil
}

// Search matches available items by case-insensitive substring on name or
// description. A blank query yields nothing rather than everything.
func (s *Service) Search(ctx context.Context, text string) ([]Response, error) {
	if strings.TrimSpace(text) == "" {
		return []Response{}, nil
	}

	found, err := s.store.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	out := make([]Response, 0, len(found))
	for i := range found {
		out = append(out, *toResponse(&found[i]))
	}
	return out, nil
}

// AddComment records a comment, gated on the author having an approved
// booking of the item that already ended.
func (s *Service) AddComment(ctx context.Context, itemID, authorID int64, req CommentCreateRequest) (*CommentResponse, error) {
	if _, err := s.store.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	authorName, err := s.store.UserName(ctx, authorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ok, err := s.store.HasApprovedPastBooking(ctx, itemID, authorID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.WrongArgument("no finished approved booking of item %d by user %d", itemID, authorID)
	}

	cm := &Comment{
		Text:       req.Text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: authorName,
		CreateDate: now,
	}
	id, err := s.store.InsertComment(ctx, cm)
	if err != nil {
		return nil, err
	}
	cm.ID = id

	res := toCommentResponse(cm)
	return &res, nil
}
