package users

import "peershare-backend/internal/platform/patch"

type CreateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateRequest is a merge patch: absent fields leave the record untouched.
type UpdateRequest struct {
	Name  patch.Field[string] `json:"name"`
	Email patch.Field[string] `json:"email"`
}

type Response struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toResponse(u *User) *Response {
	return &Response{ID: u.ID, Name: u.Name, Email: u.Email}
}
