package entity

import "time"

// Notification mensaje dirigido a un único destinatario. ReadAt nil = no leída.
type Notification struct {
	ID        int64
	UserID    int64
	Title     string
	Message   string
	CreatedAt time.Time
	ReadAt    *time.Time
}
