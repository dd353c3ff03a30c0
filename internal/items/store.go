package items

import (
	"context"
	"database/sql"
	"errors"
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

func (s *Store) GetByID(ctx context.Context, itemID int64) (*Item, error) {
	const q = `
	SELECT item_id, name, description, available, owner_id, request_id
	FROM items WHERE item_id = ?`
	var it Item
	err := s.db.QueryRowContext(ctx, q, itemID).Scan(
		&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("item with id %d not found", itemID)
		}
		return nil, apperr.Internal("get item: %v", err)
	}
	return &it, nil
}

func (s *Store) Insert(ctx context.Context, it *Item) (int64, error) {
	const q = `
	INSERT INTO items (name, description, available, owner_id, request_id)
	VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, it.Name, it.Description, it.Available, it.OwnerID, it.RequestID)
	if err != nil {
		return 0, apperr.Internal("insert item: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Internal("insert item: %v", err)
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, it *Item) error {
	const q = `
	UPDATE items SET name = ?, description = ?, available = ? WHERE item_id = ?`
	if _, err := s.db.ExecContext(ctx, q, it.Name, it.Description, it.Available, it.ID); err != nil {
		return apperr.Internal("update item: %v", err)
	}
	return nil
}

// Search matches available items by case-insensitive substring on name or
// description. The length guard keeps a blank pattern from matching every row.
func (s *Store) Search(ctx context.Context, text string) ([]Item, error) {
	const q = `
	SELECT item_id, name, description, available, owner_id, request_id
	FROM items
	WHERE (UPPER(name) LIKE UPPER(CONCAT('%', ?, '%'))
	   OR UPPER(description) LIKE UPPER(CONCAT('%', ?, '%')))
	  AND available = 1
	  AND LENGTH(TRIM(?)) > 0`
	rows, err := s.db.QueryContext(ctx, q, text, text, text)
	if err != nil {
		return nil, apperr.Internal("search items: %v", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// OwnerView fetches the owner's items plus the grouped last/next booking
// dates and comments. One read-only transaction, four queries total, so the
// listing never issues per-item lookups.
func (s *Store) OwnerView(ctx context.Context, ownerID int64, now time.Time) (*OwnerView, error) {
	view := &OwnerView{
		Last:     map[int64]BookingDates{},
		Next:     map[int64]BookingDates{},
		Comments: map[int64][]Comment{},
	}

	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		const itemsQ = `
		SELECT item_id, name, description, available, owner_id, request_id
		FROM items WHERE owner_id = ?`
		rows, err := tx.QueryContext(ctx, itemsQ, ownerID)
		if err != nil {
			return err
		}
		view.Items, err = scanItems(rows)
		rows.Close()
		if err != nil {
			return err
		}

		const lastQ = `
		SELECT b.item_id, MAX(b.start_date), MAX(b.end_date)
		FROM bookings b
		JOIN items i ON i.item_id = b.item_id
		WHERE b.start_date < ? AND i.owner_id = ?
		GROUP BY b.item_id`
		if err := scanDates(ctx, tx, lastQ, now, ownerID, view.Last); err != nil {
			return err
		}

		const nextQ = `
		SELECT b.item_id, MIN(b.start_date), MIN(b.end_date)
		FROM bookings b
		JOIN items i ON i.item_id = b.item_id
		WHERE b.start_date >= ? AND i.owner_id = ?
		GROUP BY b.item_id`
		if err := scanDates(ctx, tx, nextQ, now, ownerID, view.Next); err != nil {
			return err
		}

		const commentsQ = `
		SELECT c.comment_id, c.text, c.item_id, c.author_id, u.name, c.create_date
		FROM comments c
		JOIN items i ON i.item_id = c.item_id
		JOIN users u ON u.user_id = c.author_id
		WHERE i.owner_id = ?
		ORDER BY c.create_date`
		crows, err := tx.QueryContext(ctx, commentsQ, ownerID)
		if err != nil {
			return err
		}
		defer crows.Close()
		for crows.Next() {
			var cm Comment
			if err := crows.Scan(&cm.ID, &cm.Text, &cm.ItemID, &cm.AuthorID, &cm.AuthorName, &cm.CreateDate); err != nil {
				return err
			}
			view.Comments[cm.ItemID] = append(view.Comments[cm.ItemID], cm)
		}
		return crows.Err()
	})
	if err != nil {
		return nil, apperr.Internal("owner view: %v", err)
	}
	return view, nil
}

func (s *Store) CommentsByItem(ctx context.Context, itemID int64) ([]Comment, error) {
	const q = `
	SELECT c.comment_id, c.text, c.item_id, c.author_id, u.name, c.create_date
	FROM comments c
	JOIN users u ON u.user_id = c.author_id
	WHERE c.item_id = ?
	ORDER BY c.create_date`
	rows, err := s.db.QueryContext(ctx, q, itemID)
	if err != nil {
		return nil, apperr.Internal("comments by item: %v", err)
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.Text, &cm.ItemID, &cm.AuthorID, &cm.AuthorName, &cm.CreateDate); err != nil {
			return nil, apperr.Internal("comments by item: %v", err)
		}
		out = append(out, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("comments by item: %v", err)
	}
	return out, nil
}

func (s *Store) HasApprovedPastBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	const q = `
	SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE item_id = ? AND booker_id = ? AND end_date < ? AND status = 'APPROVED'
	)`
	var ok bool
	if err := s.db.QueryRowContext(ctx, q, itemID, bookerID, now).Scan(&ok); err != nil {
		return false, apperr.Internal("check approved booking: %v", err)
	}
	return ok, nil
}

func (s *Store) InsertComment(ctx context.Context, cm *Comment) (int64, error) {
	const q = `
	INSERT INTO comments (text, item_id, author_id, create_date) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, cm.Text, cm.ItemID, cm.AuthorID, cm.CreateDate)
	if err != nil {
		return 0, apperr.Internal("insert comment: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Internal("insert comment: %v", err)
	}
	return id, nil
}

func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = ?)`
	var ok bool
	if err := s.db.QueryRowContext(ctx, q, userID).Scan(&ok); err != nil {
		return false, apperr.Internal("check user: %v", err)
	}
	return ok, nil
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

func scanItems(rows *sql.Rows) ([]Item, error) {
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanDates(ctx context.Context, tx db.DBTX, query string, now time.Time, ownerID int64, dst map[int64]BookingDates) error {
	rows, err := tx.QueryContext(ctx, query, now, ownerID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var d BookingDates
		if err := rows.Scan(&d.ItemID, &d.Start, &d.End); err != nil {
			return err
		}
		dst[d.ItemID] = d
	}
	return rows.Err()
}
