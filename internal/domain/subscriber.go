package domain

import (
	"strings"
	"time"
)

// Subscriber is a chat that opted in to contest broadcasts.
// Created on the first /start from its chat; never mutated or deleted.
// ChatID is the unique key; everything else is metadata captured at
// registration.
type Subscriber struct {
	ChatID    int64
	UserID    int64
	FirstName string
	LastName  string
	Username  string
	Language  string
	CreatedAt time.Time // UTC
}

// FullName joins first and last name; either may be empty.
func (s Subscriber) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
}
