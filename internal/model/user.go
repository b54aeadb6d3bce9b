package model

// User holds the identity claims attached to a session and the entries of
// the network (user directory) listing. Pure domain model, no persistence
// tags; all user data lives behind the upstream API.
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Lastname        string `json:"lastname,omitempty"`
	Username        string `json:"username,omitempty"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	Phone           string `json:"phone,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}
