package bookings

import "time"

type CreateRequest struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Response struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status Status    `json:"status"`
	Booker UserRef   `json:"booker"`
	Item   ItemRef   `json:"item"`
}

func toResponse(b *Booking) *Response {
	return &Response{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: b.Status,
		Booker: UserRef{ID: b.BookerID, Name: b.BookerName},
		Item:   ItemRef{ID: b.ItemID, Name: b.ItemName},
	}
}

func toResponses(list []Booking) []Response {
	out := make([]Response, 0, len(list))
	for i := range list {
		out = append(out, *toResponse(&list[i]))
	}
	return out
}
