package domain

import (
	"strconv"
	"strings"
)

// ContactInfo is the singleton directory record shown on every page.
type ContactInfo struct {
	CoordinatorName  string       `json:"coordinatorName"`
	CoordinatorPhone string       `json:"coordinatorPhone"`
	AssistantName    string       `json:"assistantName"`
	AssistantPhone   string       `json:"assistantPhone"`
	Email            string       `json:"email"`
	Address          string       `json:"address"`
	FacebookURL      string       `json:"facebookUrl,omitempty"`
	InstagramURL     string       `json:"instagramUrl,omitempty"`
	YoutubeURL       string       `json:"youtubeUrl,omitempty"`
	LogoURL          string       `json:"logoUrl,omitempty"`
	HeroImageURL     string       `json:"heroImageUrl,omitempty"`
	PrivacyPolicy    string       `json:"privacyPolicy,omitempty"`
	TeamMembers      []TeamMember `json:"teamMembers,omitempty"`
}

// EmergencyLine is a national emergency number listed in the directory.
type EmergencyLine struct {
	Name  string
	Phone string
}

type TeamMember struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	ImageURL string `json:"imageUrl,omitempty"`
	Order    int    `json:"order"`
	// UpdatedAt is unix millis; only used to bust cached images.
	UpdatedAt int64 `json:"updatedAt,omitempty"`
}

// ImageSrc returns the image URL with a cache-busting version suffix.
// Inline data URIs are returned unchanged.
func (m TeamMember) ImageSrc() string {
	if m.ImageURL == "" || strings.HasPrefix(m.ImageURL, "data:") {
		return m.ImageURL
	}
	sep := "?"
	if strings.Contains(m.ImageURL, "?") {
		sep = "&"
	}
	v := ""
	if m.UpdatedAt > 0 {
		v = strconv.FormatInt(m.UpdatedAt, 10)
	}
	return m.ImageURL + sep + "v=" + v
}
