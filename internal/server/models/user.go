package models

import "time"

// UserType is fixed at registration.
type UserType string

const (
	UserTypeVolunteer    UserType = "volunteer"
	UserTypeOrganization UserType = "organization"
)

// Valid reports whether t is one of the known user types.
func (t UserType) Valid() bool {
	return t == UserTypeVolunteer || t == UserTypeOrganization
}

// Profile holds the optional attributes set through the profile update.
// A nil field means "absent"; in an update it means "leave unchanged".
type Profile struct {
	FirstName      *string
	LastName       *string
	Location       *string
	City           *string
	Skills         []string
	Interests      []string
	Specialization *string
	Availability   *string
	Bio            *string
}

// User is the stored account record. It carries the password hash and must
// never be serialized directly; use Public for anything leaving the server.
type User struct {
	ID               string
	Email            string
	PasswordHash     string
	UserType         UserType
	ProfileCompleted bool
	Profile
	AvatarKey *string
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName is "First Last" when either is set, otherwise the email.
func (u *User) DisplayName() string {
	name := ""
	if u.FirstName != nil {
		name = *u.FirstName
	}
	if u.LastName != nil && *u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += *u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}

// PublicUser is the outward-facing view of a User. It has no field for the
// password hash at all.
type PublicUser struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	UserType         UserType   `json:"userType"`
	ProfileCompleted bool       `json:"profileCompleted"`
	FirstName        *string    `json:"firstName,omitempty"`
	LastName         *string    `json:"lastName,omitempty"`
	Location         *string    `json:"location,omitempty"`
	City             *string    `json:"city,omitempty"`
	Skills           []string   `json:"skills,omitempty"`
	Interests        []string   `json:"interests,omitempty"`
	Specialization   *string    `json:"specialization,omitempty"`
	Availability     *string    `json:"availability,omitempty"`
	Bio              *string    `json:"bio,omitempty"`
	HasAvatar        bool       `json:"hasAvatar"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Public returns the sanitized view of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Email:            u.Email,
		UserType:         u.UserType,
		ProfileCompleted: u.ProfileCompleted,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Location:         u.Location,
		City:             u.City,
		Skills:           u.Skills,
		Interests:        u.Interests,
		Specialization:   u.Specialization,
		Availability:     u.Availability,
		Bio:              u.Bio,
		HasAvatar:        u.AvatarKey != nil,
		LastLogin:        u.LastLogin,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// Merge copies every non-nil field of update onto p.
func (p *Profile) Merge(update Profile) {
	mergeString(&p.FirstName, update.FirstName)
	mergeString(&p.LastName, update.LastName)
	mergeString(&p.Location, update.Location)
	mergeString(&p.City, update.City)
	if update.Skills != nil {
		p.Skills = append([]string{}, update.Skills...)
	}
	if update.Interests != nil {
		p.Interests = append([]string{}, update.Interests...)
	}
	mergeString(&p.Specialization, update.Specialization)
	mergeString(&p.Availability, update.Availability)
	mergeString(&p.Bio, update.Bio)
}

func mergeString(dst **string, v *string) {
	if v != nil {
		s := *v
		*dst = &s
	}
}
