package requests

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"peershare-backend/internal/platform/apperr"
)

type Store struct {
	db *sql.DB
}

func NewStore(conn *sql.DB) *Store {
	return &Store{db: conn}
}

func (s *Store) Insert(ctx context.Context, r *ItemRequest) (int64, error) {
	const q = `
	INSERT INTO requests (description, requestor_id, create_date) VALUES (?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, r.Description, r.RequestorID, r.CreateDate)
	if err != nil {
		return 0, apperr.Internal("insert request: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Internal("insert request: %v", err)
	}
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, requestID int64) (*ItemRequest, error) {
	const q = `
	SELECT request_id, description, requestor_id, create_date
	FROM requests WHERE request_id = ?`
	var r ItemRequest
	err := s.db.QueryRowContext(ctx, q, requestID).Scan(&r.ID, &r.Description, &r.RequestorID, &r.CreateDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("request with id %d not found", requestID)
		}
		return nil, apperr.Internal("get request: %v", err)
	}
	return &r, nil
}

func (s *Store) ListAll(ctx context.Context) ([]ItemRequest, error) {
	const q = `
	SELECT request_id, description, requestor_id, create_date
	FROM requests ORDER BY create_date`
	return s.scanList(ctx, q)
}

func (s *Store) ListByRequestor(ctx context.Context, requestorID int64) ([]ItemRequest, error) {
	const q = `
	SELECT request_id, description, requestor_id, create_date
	FROM requests WHERE requestor_id = ? ORDER BY create_date`
	return s.scanList(ctx, q, requestorID)
}

// ItemsByRequestIDs resolves the items answering any of the given requests
// in one query, grouped by request id.
func (s *Store) ItemsByRequestIDs(ctx context.Context, requestIDs []int64) (map[int64][]RequestItem, error) {
	out := make(map[int64][]RequestItem, len(requestIDs))
	if len(requestIDs) == 0 {
		return out, nil
	}

	placeholders := strings.Repeat("?,", len(requestIDs))
	placeholders = placeholders[:len(placeholders)-1]
	q := `
	SELECT item_id, name, owner_id, request_id
	FROM items WHERE request_id IN (` + placeholders + `)`

	args := make([]any, 0, len(requestIDs))
	for _, id := range requestIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Internal("items by request ids: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it RequestItem
		if err := rows.Scan(&it.ID, &it.Name, &it.OwnerID, &it.RequestID); err != nil {
			return nil, apperr.Internal("items by request ids: %v", err)
		}
		out[it.RequestID] = append(out[it.RequestID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("items by request ids: %v", err)
	}
	return out, nil
}

func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = ?)`
	var ok bool
	if err := s.db.QueryRowContext(ctx, q, userID).Scan(&ok); err != nil {
		return false, apperr.Internal("check user: %v", err)
	}
	return ok, nil
}

func (s *Store) scanList(ctx context.Context, query string, args ...any) ([]ItemRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal("list requests: %v", err)
	}
	defer rows.Close()

	var out []ItemRequest
	for rows.Next() {
		var r ItemRequest
		if err := rows.Scan(&r.ID, &r.Description, &r.RequestorID, &r.CreateDate); err != nil {
			return nil, apperr.Internal("list requests: %v", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("list requests: %v", err)
	}
	return out, nil
}
