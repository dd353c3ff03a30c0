package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"peershare-backend/internal/platform/apperr"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func (s *Store) GetByID(ctx context.Context, userID int64) (*User, error) {
	const q = `SELECT user_id, name, email FROM users WHERE user_id = ?`
	var u User
	err := s.db.QueryRowContext(ctx, q, userID).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user with id %d not found", userID)
		}
		return nil, apperr.Internal("get user: %v", err)
	}
	return &u, nil
}

func (s *Store) Insert(ctx context.Context, u *User) (int64, error) {
	const q = `INSERT INTO users (name, email) VALUES (?, ?)`
	res, err := s.db.ExecContext(ctx, q, u.Name, u.Email)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, apperr.DataConflict("email %s is already in use", u.Email)
		}
		return 0, apperr.Internal("insert user: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Internal("insert user: %v", err)
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, u *User) error {
	const q = `UPDATE users SET name = ?, email = ? WHERE user_id = ?`
	if _, err := s.db.ExecContext(ctx, q, u.Name, u.Email, u.ID); err != nil {
		if isDuplicateEntry(err) {
			return apperr.DataConflict("email %s is already in use", u.Email)
		}
		return apperr.Internal("update user: %v", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID int64) error {
	const q = `DELETE FROM users WHERE user_id = ?`
	res, err := s.db.ExecContext(ctx, q, userID)
	if err != nil {
		return apperr.Internal("delete user: %v", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("user with id %d not found", userID)
	}
	return nil
}
