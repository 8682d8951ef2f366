package models

import "time"

// Report describes a CSV monthly statement kept in object storage.
type Report struct {
	ID        string    `json:"id"`
	Year      int       `json:"ano"`
	Month     int       `json:"mes"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
