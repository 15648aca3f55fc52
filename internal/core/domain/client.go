package domain

import "time"

// Client is a customer of the business. The password only ever travels in
// drafts; it is never decoded back from the backend.
type Client struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Client) Identity() string { return c.ID }

// ClientDraft carries the fields of the create/edit client form.
type ClientDraft struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password,omitempty"`
}

// Ref is the populated form of a foreign key as the backend embeds it.
type Ref struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	Email string `json:"email,omitempty"`
}
