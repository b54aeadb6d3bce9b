package model

import "time"

// Material types recognized by the dashboard per-type tally. Anything else
// still counts toward the total but lands in no bucket.
const (
	MaterialVideo    = "video"
	MaterialImage    = "image"
	MaterialAudio    = "audio"
	MaterialDocument = "document"
)

// Material is an audiovisual asset managed by the platform. Read-only from
// this service's perspective: there is no create or edit flow here.
type Material struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	FileSize     int64     `json:"file_size"`
	CreatedAt    time.Time `json:"created_at"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Duration     string    `json:"duration,omitempty"`
	Resolution   string    `json:"resolution,omitempty"`
}
