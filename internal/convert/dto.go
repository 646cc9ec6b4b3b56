// Package convert maps domain models to the JSON wire format shared by server and client.
package convert

import (
	"time"

	"github.com/and161185/streamish/internal/model"
)

// UserProfile is the wire form of model.UserProfile.
type UserProfile struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=255"`
	Email       string    `json:"email" validate:"max=255"`
	ImageURL    string    `json:"imageUrl" validate:"max=2048"`
	DateCreated time.Time `json:"dateCreated"`
}

// Video is the wire form of model.Video. Comments is null unless loaded.
type Video struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title" validate:"required,max=255"`
	Description   string       `json:"description" validate:"max=4000"`
	URL           string       `json:"url" validate:"required,max=2048"`
	DateCreated   time.Time    `json:"dateCreated"`
	UserProfileID int64        `json:"userProfileId" validate:"gt=0"`
	UserProfile   *UserProfile `json:"userProfile,omitempty"`
	Comments      []Comment    `json:"comments"`
}

// Comment is the wire form of model.Comment.
type Comment struct {
	ID            int64  `json:"id"`
	Message       string `json:"message" validate:"required,max=1000"`
	VideoID       int64  `json:"videoId"`
	UserProfileID int64  `json:"userProfileId" validate:"gt=0"`
}

// --- UserProfile ---

// ToUserProfile converts a domain profile to its wire form.
func ToUserProfile(p model.UserProfile) UserProfile {
	return UserProfile{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		ImageURL:    p.ImageURL,
		DateCreated: p.DateCreated,
	}
}

// FromUserProfile converts a wire profile to the domain model.
func FromUserProfile(p UserProfile) model.UserProfile {
	return model.UserProfile{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		ImageURL:    p.ImageURL,
		DateCreated: p.DateCreated,
	}
}

// ToUserProfiles converts a slice, never returning nil.
func ToUserProfiles(ps []model.UserProfile) []UserProfile {
	out := make([]UserProfile, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToUserProfile(p))
	}
	return out
}

// --- Video ---

// ToVideo converts a domain video, embedding the owner and comments when loaded.
func ToVideo(v model.Video) Video {
	out := Video{
		ID:            v.ID,
		Title:         v.Title,
		Description:   v.Description,
		URL:           v.URL,
		DateCreated:   v.DateCreated,
		UserProfileID: v.UserProfileID,
	}
	if v.UserProfile != nil {
		p := ToUserProfile(*v.UserProfile)
		out.UserProfile = &p
	}
	if v.Comments != nil {
		out.Comments = make([]Comment, 0, len(v.Comments))
		for _, c := range v.Comments {
			out.Comments = append(out.Comments, ToComment(c))
		}
	}
	return out
}

// FromVideo converts a wire video to the domain model, keeping owner and comments if present.
func FromVideo(v Video) model.Video {
	out := model.Video{
		ID:            v.ID,
		Title:         v.Title,
		Description:   v.Description,
		URL:           v.URL,
		DateCreated:   v.DateCreated,
		UserProfileID: v.UserProfileID,
	}
	if v.UserProfile != nil {
		p := FromUserProfile(*v.UserProfile)
		out.UserProfile = &p
	}
	if v.Comments != nil {
		out.Comments = make([]model.Comment, 0, len(v.Comments))
		for _, c := range v.Comments {
			out.Comments = append(out.Comments, FromComment(c))
		}
	}
	return out
}

// ToVideos converts a slice, never returning nil.
func ToVideos(vs []model.Video) []Video {
	out := make([]Video, 0, len(vs))
	for _, v := range vs {
		out = append(out, ToVideo(v))
	}
	return out
}

// FromVideos converts a wire slice to domain videos.
func FromVideos(vs []Video) []model.Video {
	out := make([]model.Video, 0, len(vs))
	for _, v := range vs {
		out = append(out, FromVideo(v))
	}
	return out
}

// --- Comment ---

// ToComment converts a domain comment to its wire form.
func ToComment(c model.Comment) Comment {
	return Comment{ID: c.ID, Message: c.Message, VideoID: c.VideoID, UserProfileID: c.UserProfileID}
}

// FromComment converts a wire comment to the domain model.
func FromComment(c Comment) model.Comment {
	return model.Comment{ID: c.ID, Message: c.Message, VideoID: c.VideoID, UserProfileID: c.UserProfileID}
}
