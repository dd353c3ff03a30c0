package bookings

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"peershare-backend/internal/platform/apperr"
	"peershare-backend/internal/platform/db"
)

type Store struct {
	db *sql.DB
}

func NewStore(conn *sql.DB) *Store {
	return &Store{db: conn}
}

const bookingColumns = `
	b.booking_id, b.start_date, b.end_date, b.status,
	b.item_id, i.name, i.owner_id,
	b.booker_id, u.name`

const bookingJoins = `
	FROM bookings b
	JOIN items i ON i.item_id = b.item_id
	JOIN users u ON u.user_id = b.booker_id`

func (s *Store) GetByID(ctx context.Context, bookingID int64) (*Booking, error) {
	q := `SELECT` + bookingColumns + bookingJoins + ` WHERE b.booking_id = ?`
	var b Booking
	err := s.db.QueryRowContext(ctx, q, bookingID).Scan(
		&b.ID, &b.Start, &b.End, &b.Status,
		&b.ItemID, &b.ItemName, &b.OwnerID,
		&b.BookerID, &b.BookerName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("booking with id %d not found", bookingID)
		}
		return nil, apperr.Internal("get booking: %v", err)
	}
	return &b, nil
}

// Insert re-checks availability inside the transaction so a concurrent
// owner update cannot slip a booking onto an item that just went
// unavailable.
func (s *Store) Insert(ctx context.Context, b *Booking) (int64, error) {
	var id int64
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		var available bool
		const checkQ = `SELECT available FROM items WHERE item_id = ? FOR UPDATE`
		if err := tx.QueryRowContext(ctx, checkQ, b.ItemID).Scan(&available); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("item with id %d not found", b.ItemID)
			}
			return err
		}
		if !available {
			return apperr.WrongArgument("item %d is not available for booking", b.ItemID)
		}

		const insertQ = `
		INSERT INTO bookings (start_date, end_date, item_id, booker_id, status)
		VALUES (?, ?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, insertQ, b.Start, b.End, b.ItemID, b.BookerID, b.Status)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return 0, err
		}
		return 0, apperr.Internal("insert booking: %v", err)
	}
	return id, nil
}

func (s *Store) UpdateStatus(ctx context.Context, bookingID int64, status Status) error {
	const q = `UPDATE bookings SET status = ? WHERE booking_id = ?`
	if _, err := s.db.ExecContext(ctx, q, status, bookingID); err != nil {
		return apperr.Internal("update booking status: %v", err)
	}
	return nil
}

func (s *Store) ListByBooker(ctx context.Context, bookerID int64, st State, now time.Time) ([]Booking, error) {
	return s.list(ctx, `b.booker_id = ?`, bookerID, st, now)
}

func (s *Store) ListByOwner(ctx context.Context, ownerID int64, st State, now time.Time) ([]Booking, error) {
	return s.list(ctx, `i.owner_id = ?`, ownerID, st, now)
}

// list builds the WHERE clause from the state. The SQL must stay consistent
// with State.Matches, which is the documented contract.
func (s *Store) list(ctx context.Context, actorCond string, actorID int64, st State, now time.Time) ([]Booking, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT` + bookingColumns + bookingJoins)
	sb.WriteString(` WHERE ` + actorCond)
	args := []any{actorID}

	switch st {
	case StateCurrent:
		sb.WriteString(` AND b.start_date <= ? AND b.end_date > ?`)
		args = append(args, now, now)
	case StatePast:
		sb.WriteString(` AND b.end_date < ?`)
		args = append(args, now)
	case StateFuture:
		sb.WriteString(` AND b.start_date > ?`)
		args = append(args, now)
	case StateWaiting, StateRejected:
		sb.WriteString(` AND b.status = ?`)
		args = append(args, string(st))
	}
	sb.WriteString(` ORDER BY b.end_date`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, apperr.Internal("list bookings: %v", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.Start, &b.End, &b.Status,
			&b.ItemID, &b.ItemName, &b.OwnerID,
			&b.BookerID, &b.BookerName,
		); err != nil {
			return nil, apperr.Internal("list bookings: %v", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("list bookings: %v", err)
	}
	return out, nil
}

func (s *Store) ItemInfo(ctx context.Context, itemID int64) (*ItemInfo, error) {
	const q = `SELECT item_id, name, owner_id, available FROM items WHERE item_id = ?`
	var it ItemInfo
	err := s.db.QueryRowContext(ctx, q, itemID).Scan(&it.ID, &it.Name, &it.OwnerID, &it.Available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("item with id %d not found", itemID)
		}
		return nil, apperr.Internal("get item: %v", err)
	}
	return &it, nil
}

func (s *Store) UserName(ctx context.Context, userID int64) (string, error) {
	const q = `SELECT name FROM users WHERE user_id = ?`
	var name string
	err := s.db.QueryRowContext(ctx, q, userID).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.NotFound("user with id %d not found", userID)
		}
		return "", apperr.Internal("get user name: %v", err)
	}
	return name, nil
}

func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = ?)`
	var ok bool
	if err := s.db.QueryRowContext(ctx, q, userID).Scan(&ok); err != nil {
		return false, apperr.Internal("check user: %v", err)
	}
	return ok, nil
}
