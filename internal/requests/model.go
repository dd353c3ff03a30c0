package requests

import "time"

// ItemRequest is one row of the requests table.
type ItemRequest struct {
	ID          int64
	Description string
	RequestorID int64
	CreateDate  time.Time
}

// RequestItem is an item created in answer to a request.
type RequestItem struct {
	ID        int64
	Name      string
	OwnerID   int64
	RequestID int64
}
