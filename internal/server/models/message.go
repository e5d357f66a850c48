package models

import "time"

type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	FlatID    string    `json:"flatId"`
	SenderID  string    `json:"senderId"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SenderSummary describes one sender's activity on a flat.
type SenderSummary struct {
	SenderID      string    `json:"senderId"`
	MessageCount  int64     `json:"messageCount"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}
