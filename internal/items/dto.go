package items

import (
	"time"

	"peershare-backend/internal/platform/patch"
)

type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	// RequestID links the new item to the item-request it satisfies.
	RequestID *int64 `json:"requestId,omitempty"`
}

// UpdateRequest is a merge patch: absent fields leave the record untouched.
type UpdateRequest struct {
	Name        patch.Field[string] `json:"name"`
	Description patch.Field[string] `json:"description"`
	Available   patch.Field[bool]   `json:"available"`
}

type Response struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

// BookingPeriod is the last/next booking window shown on the owner view.
type BookingPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DatesResponse is the enriched item view: booking dates for the owner
// listing, comments for both the owner listing and the detail endpoint.
type DatesResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	LastBooking *BookingPeriod    `json:"lastBooking"`
	NextBooking *BookingPeriod    `json:"nextBooking"`
	Comments    []CommentResponse `json:"comments"`
}

type CommentCreateRequest struct {
	Text string `json:"text"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

func toResponse(it *Item) *Response {
	r := &Response{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
	}
	if it.RequestID.Valid {
		v := it.RequestID.Int64
		r.RequestID = &v
	}
	return r
}

func toCommentResponse(c *Comment) CommentResponse {
	return CommentResponse{ID: c.ID, Text: c.Text, AuthorName: c.AuthorName, Created: c.CreateDate}
}

func toCommentResponses(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentResponse(&comments[i]))
	}
	return out
}
