package rest

import "encoding/json"

// Authentication types

// Role is a user role understood by the server.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SignupRequest is the request body for user registration.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user admin"` // defaults to "user" if not specified
}

// SignupResponse is returned after a successful registration.
type SignupResponse struct {
	Status string `json:"status"`
	UserID int64  `json:"user_id"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse contains the bearer token returned after successful authentication.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is the profile of the authenticated user.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Room types

// Room is a room as listed for the current user.
type Room struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Token       string  `json:"token"`
	CreatedBy   int64   `json:"created_by"`
}

// RoomInfo is the room looked up by its token.
type RoomInfo struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedBy   int64   `json:"created_by"`
	IsPrivate   bool    `json:"is_private"`
}

// CreateRoomRequest is the request body for creating a room.
type CreateRoomRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty"`
	IsPrivate   bool    `json:"is_private"`
}

// CreateRoomResponse carries the identifiers of a newly created room.
// The token is what other users need to join a private room.
type CreateRoomResponse struct {
	RoomID    int64  `json:"room_id"`
	RoomToken string `json:"room_token"`
}

// UpdateRoomRequest renames a room. Only the creator may do so.
type UpdateRoomRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// UpdateRoomResponse is the room after renaming.
type UpdateRoomResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StatusResponse is the generic acknowledgement of delete endpoints.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Admin types

// AdminRoom is a room as listed in the admin view.
type AdminRoom struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedBy int64  `json:"created_by"`
	Token     string `json:"token"`
}

// AdminUser is a user as listed in the admin view.
type AdminUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// ErrorResponse represents an API error response. Detail is usually a string;
// request validation failures carry a list of {loc, msg, type} objects instead.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// Message flattens Detail into a single line.
func (r ErrorResponse) Message() string {
	if len(r.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(r.Detail, &items); err == nil && len(items) > 0 {
		return items[0].Msg
	}
	return ""
}
