package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Profile field constraints
const (
	MaxBioLength      = 500
	MaxNicknameLength = 50
	MaxHobbies        = 20
	MaxHobbyLength    = 50
	MaxAvatarURLLen   = 2048
	MaxSocialLinks    = 10
)

// Profile holds the editable, public part of a user account.
type Profile struct {
	ID          int64             `json:"id"`
	UserID      string            `json:"userId"`
	Bio         string            `json:"bio"`
	AvatarURL   string            `json:"avatarUrl"`
	Nickname    string            `json:"nickname"`
	Hobbies     []string          `json:"hobbies"`
	SocialMedia map[string]string `json:"socialMedia"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	User        *UserSummary      `json:"user,omitempty"`
}

// UpdateProfileRequest represents a profile update. Nil fields are left
// unchanged.
type UpdateProfileRequest struct {
	Name        *string            `json:"name,omitempty"`
	Bio         *string            `json:"bio,omitempty"`
	AvatarURL   *string            `json:"avatarUrl,omitempty"`
	Nickname    *string            `json:"nickname,omitempty"`
	Hobbies     *[]string          `json:"hobbies,omitempty"`
	SocialMedia *map[string]string `json:"socialMedia,omitempty"`
}

// Normalize trims whitespace from the text fields and drops empty hobbies.
func (r *UpdateProfileRequest) Normalize() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(r.Name)
	trim(r.Bio)
	trim(r.AvatarURL)
	trim(r.Nickname)
	if r.Hobbies != nil {
		kept := make([]string, 0, len(*r.Hobbies))
		for _, h := range *r.Hobbies {
			if h = strings.TrimSpace(h); h != "" {
				kept = append(kept, h)
			}
		}
		r.Hobbies = &kept
	}
}

// IsEmpty reports whether the request changes nothing.
func (r *UpdateProfileRequest) IsEmpty() bool {
	return r.Name == nil && r.Bio == nil && r.AvatarURL == nil &&
		r.Nickname == nil && r.Hobbies == nil && r.SocialMedia == nil
}

// Validate returns every problem with the request.
func (r *UpdateProfileRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name != nil {
		if *r.Name == "" {
			errs = append(errs, FieldError{Field: "name", Message: "Name cannot be empty"})
		} else if utf8.RuneCountInString(*r.Name) > MaxNameLength {
			errs = append(errs, FieldError{Field: "name", Message: "Name must be at most 100 characters"})
		}
	}
	if r.Bio != nil && utf8.RuneCountInString(*r.Bio) > MaxBioLength {
		errs = append(errs, FieldError{Field: "bio", Message: "Bio must be at most 500 characters"})
	}
	if r.Nickname != nil && utf8.RuneCountInString(*r.Nickname) > MaxNicknameLength {
		errs = append(errs, FieldError{Field: "nickname", Message: "Nickname must be at most 50 characters"})
	}
	if r.AvatarURL != nil && utf8.RuneCountInString(*r.AvatarURL) > MaxAvatarURLLen {
		errs = append(errs, FieldError{Field: "avatarUrl", Message: "Avatar URL is too long"})
	}
	if r.Hobbies != nil {
		if len(*r.Hobbies) > MaxHobbies {
			errs = append(errs, FieldError{Field: "hobbies", Message: "At most 20 hobbies are allowed"})
		}
		for _, h := range *r.Hobbies {
			if utf8.RuneCountInString(h) > MaxHobbyLength {
				errs = append(errs, FieldError{Field: "hobbies", Message: "Each hobby must be at most 50 characters"})
				break
			}
		}
	}
	if r.SocialMedia != nil && len(*r.SocialMedia) > MaxSocialLinks {
		errs = append(errs, FieldError{Field: "socialMedia", Message: "At most 10 social media links are allowed"})
	}
	return errs
}
