package models

import "time"

// Subscriber is a newsletter recipient.
type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	IsDeleted bool      `json:"isDeleted"`
}

func (s Subscriber) GetID() string { return s.ID }
func (s Subscriber) Deleted() bool { return s.IsDeleted }

// BroadcastRequest is the payload for a newsletter send.
type BroadcastRequest struct {
	Subject string `json:"subject" binding:"required"`
	HTML    string `json:"html" binding:"required"`
}
