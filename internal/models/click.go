package models

import "time"

// Click is one recorded visit of a short link, kept for analytics.
// The authoritative counter lives on Link.Clicks; this table may lag behind it
// or miss events dropped under load.
type Click struct {
	// ID is the primary key with auto-increment functionality
	ID uint `gorm:"primaryKey"`

	// LinkID references the visited Link
	LinkID string `gorm:"index;size:36;not null"`

	// Timestamp records when the redirect was served
	Timestamp time.Time `gorm:"index"`

	// UserAgent stores the client information from the HTTP request
	UserAgent string `gorm:"size:255"`

	// IPHash is a salted SHA-256 of the client address, never the raw IP
	IPHash string `gorm:"size:64"`

	Referrer string `gorm:"size:512"`
}

// ClickEvent represents a raw visit passed through the analytics channel.
// Workers turn it into a Click.
type ClickEvent struct {
	LinkID    string
	Timestamp time.Time
	UserAgent string
	IP        string
	Referrer  string
}
