// Package models holds the client-side view of API payloads.
package models

import "time"

type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	UserType         string     `json:"userType"`
	ProfileCompleted bool       `json:"profileCompleted"`
	FirstName        string     `json:"firstName,omitempty"`
	LastName         string     `json:"lastName,omitempty"`
	Location         string     `json:"location,omitempty"`
	City             string     `json:"city,omitempty"`
	Skills           []string   `json:"skills,omitempty"`
	Interests        []string   `json:"interests,omitempty"`
	Specialization   string     `json:"specialization,omitempty"`
	Availability     string     `json:"availability,omitempty"`
	Bio              string     `json:"bio,omitempty"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Session is what register and login hand back.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AvatarUpload is a presigned PUT URL for a new avatar.
type AvatarUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ProfileUpdate carries only the fields the user chose to change; nil
// fields are omitted from the request.
type ProfileUpdate struct {
	FirstName      *string  `json:"firstName,omitempty"`
	LastName       *string  `json:"lastName,omitempty"`
	Location       *string  `json:"location,omitempty"`
	City           *string  `json:"city,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Interests      []string `json:"interests,omitempty"`
	Specialization *string  `json:"specialization,omitempty"`
	Availability   *string  `json:"availability,omitempty"`
	Bio            *string  `json:"bio,omitempty"`
}

// Empty reports whether no field is set.
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Location == nil && p.City == nil &&
		p.Skills == nil && p.Interests == nil && p.Specialization == nil &&
		p.Availability == nil && p.Bio == nil
}
