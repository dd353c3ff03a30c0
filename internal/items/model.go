package items

import (
	"database/sql"
	"time"
)

// Item is one row of the items table.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   sql.NullInt64
}

// Comment is one row of the comments table, joined with the author name.
type Comment struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	CreateDate time.Time
}

// BookingDates is the per-item aggregate of booking start/end timestamps.
type BookingDates struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

// OwnerView holds the batched inputs of the owner listing: the owner's
// items plus three lookups keyed by item id. Fetched in a single read
// snapshot so the merge pass never goes back to the store.
type OwnerView struct {
	Items    []Item
	Last     map[int64]BookingDates
	Next     map[int64]BookingDates
	Comments map[int64][]Comment
}
