package users

import (
	"context"
	"database/sql"
)

type store interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
	Insert(ctx context.Context, u *User) (int64, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, userID int64) error
}

// Service implements the user directory operations.
type Service struct {
	store store
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*Response, error) {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(u), nil
}

func (s *Service) Add(ctx context.Context, req CreateRequest) (*Response, error) {
	u := &User{Name: req.Name, Email: req.Email}
	id, err := s.store.Insert(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	return toResponse(u), nil
}

// Update applies a partial update: only fields present in the request change.
func (s *Service) Update(ctx context.Context, userID int64, req UpdateRequest) (*Response, error) {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v, ok := req.Name.Get(); ok {
		u.Name = v
	}
	if v, ok := req.Email.Get(); ok {
		u.Email = v
	}

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return toResponse(u), nil
}

func (s *Service) Delete(ctx context.Context, userID int64) error {
	return s.store.Delete(ctx, userID)
}
