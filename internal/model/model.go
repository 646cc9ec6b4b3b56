// Package model defines domain entities used by services and repositories.
package model

import "time"

// UserProfile is an account that owns videos and comments.
type UserProfile struct {
	ID          int64 // assigned by the repository on Add
	Name        string
	Email       string
	ImageURL    string
	DateCreated time.Time
}

// Video is a posted video with its owner and comments.
type Video struct {
	ID            int64
	Title         string
	Description   string
	URL           string // playback/embed URL
	DateCreated   time.Time
	UserProfileID int64
	UserProfile   *UserProfile // nil when the owner was not loaded
	Comments      []Comment    // nil unless loaded "with comments"
}

// Comment is a message attached to a video.
type Comment struct {
	ID            int64
	Message       string
	VideoID       int64
	UserProfileID int64
}

// SearchQuery is the client search state: a title term and a sort direction.
type SearchQuery struct {
	Term           string
	SortDescending bool
}
