package requests

import "time"

type CreateRequest struct {
	Description string `json:"description"`
}

// ItemRef names an item that answers a request.
type ItemRef struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"ownerId"`
}

type Response struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	Items       []ItemRef `json:"items"`
}

func toResponse(r *ItemRequest, items []RequestItem) *Response {
	res := &Response{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.CreateDate,
		Items:       []ItemRef{},
	}
	for i := range items {
		res.Items = append(res.Items, ItemRef{ID: items[i].ID, Name: items[i].Name, OwnerID: items[i].OwnerID})
	}
	return res
}
