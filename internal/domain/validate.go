package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidURL reports whether s is an absolute http or https URL.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateStep checks a step as edited in the admin panel. Stored data is
// not re-validated on read.
func ValidateStep(s Step) error {
	if blank(s.Title) {
		return invalid("step title is required")
	}
	if s.VideoURL != "" && !ValidURL(s.VideoURL) {
		return invalid("video URL of step %q must start with http:// or https://", s.Title)
	}
	if s.IsDownloadable && s.DownloadURL != "" && !ValidURL(s.DownloadURL) {
		return invalid("download URL of step %q must start with http:// or https://", s.Title)
	}
	return nil
}

func ValidateProtocol(p Protocol) error {
	if blank(p.Title) || blank(p.Description) {
		return invalid("protocol title and description are required")
	}
	if !p.IconName.Valid() {
		return invalid("unknown icon %q", p.IconName)
	}
	if p.DocumentURL != "" && !ValidURL(p.DocumentURL) {
		return invalid("document URL must start with http:// or https://")
	}
	seen := make(map[string]struct{}, len(p.BaseSteps))
	for _, s := range p.BaseSteps {
		if err := ValidateStep(s); err != nil {
			return err
		}
		if _, dup := seen[s.ID]; dup {
			return invalid("duplicate step id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	for _, q := range p.Questions {
		if blank(q.Text) {
			return invalid("question text is required")
		}
	}
	return nil
}

func ValidateNews(n NewsItem) error {
	if blank(n.Title) || blank(n.Summary) {
		return invalid("news title and summary are required")
	}
	if !n.Category.Valid() {
		return invalid("unknown news category %q", n.Category)
	}
	return nil
}

func ValidatePopup(p PopupConfig) error {
	if blank(p.Title) || blank(p.Content) {
		return invalid("popup title and content are required")
	}
	if !p.Type.Valid() {
		return invalid("unknown popup type %q", p.Type)
	}
	return nil
}

// ValidateQuickLink accepts absolute http(s) URLs and site-relative paths.
func ValidateQuickLink(l QuickLink) error {
	if blank(l.Title) {
		return invalid("link title is required")
	}
	if !strings.HasPrefix(l.URL, "/") && !ValidURL(l.URL) {
		return invalid("link URL %q must be a site path or an http(s) URL", l.URL)
	}
	return nil
}

func ValidateTeamMember(m TeamMember) error {
	if blank(m.Name) || blank(m.Role) {
		return invalid("team member name and role are required")
	}
	return nil
}
