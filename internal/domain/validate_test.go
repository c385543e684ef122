package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://youtube.com/watch?v=1", true},
		{"http://example.org/doc.pdf", true},
		{"ftp://example.org/doc.pdf", false},
		{"youtube.com/watch", false},
		{"https://", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidURL(tt.in), tt.in)
	}
}

func TestValidateStep(t *testing.T) {
	assert.NoError(t, ValidateStep(Step{Title: "Plan"}))
	assert.NoError(t, ValidateStep(Step{Title: "Plan", IsDownloadable: true}))

	err := ValidateStep(Step{})
	assert.True(t, errors.Is(err, ErrValidation))

	err = ValidateStep(Step{Title: "Video", VideoURL: "youtube.com/x"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "http://")

	err = ValidateStep(Step{Title: "Doc", IsDownloadable: true, DownloadURL: "file.pdf"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateProtocol(t *testing.T) {
	p := Protocol{
		Title:       "Campamentos",
		Description: "Eventos fuera del templo",
		IconName:    IconTent,
		BaseSteps:   []Step{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}},
	}
	assert.NoError(t, ValidateProtocol(p))

	p.IconName = "Rocket"
	assert.ErrorIs(t, ValidateProtocol(p), ErrValidation)

	p.IconName = IconTent
	p.BaseSteps = append(p.BaseSteps, Step{ID: "a", Title: "A again"})
	assert.ErrorContains(t, ValidateProtocol(p), "duplicate step id")
}

func TestValidateNewsAndPopups(t *testing.T) {
	assert.NoError(t, ValidateNews(NewsItem{Title: "t", Summary: "s", Category: CategoryEvent}))
	assert.ErrorIs(t, ValidateNews(NewsItem{Title: "t", Summary: "s", Category: "Otro"}), ErrValidation)
	assert.ErrorIs(t, ValidateNews(NewsItem{Title: "t", Category: CategoryEvent}), ErrValidation)

	assert.NoError(t, ValidatePopup(PopupConfig{Title: "t", Content: "c", Type: PopupWarning}))
	assert.ErrorIs(t, ValidatePopup(PopupConfig{Title: "t", Content: "c", Type: "danger"}), ErrValidation)
}

func TestValidateQuickLink(t *testing.T) {
	assert.NoError(t, ValidateQuickLink(QuickLink{Title: "Formatos", URL: "/formatos"}))
	assert.NoError(t, ValidateQuickLink(QuickLink{Title: "Web", URL: "https://ipuc.org.co"}))
	assert.ErrorIs(t, ValidateQuickLink(QuickLink{Title: "Bad", URL: "ipuc.org.co"}), ErrValidation)
}

func TestParseIcon(t *testing.T) {
	icon, err := ParseIcon("Bus")
	assert.NoError(t, err)
	assert.Equal(t, IconBus, icon)

	_, err = ParseIcon("bus")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestKindKeys(t *testing.T) {
	assert.Equal(t, "sepri_quick_links", KindQuickLinks.CacheKey())
	assert.Equal(t, "quick_links", KindQuickLinks.BlobKey())
	assert.Equal(t, "quickLinks", KindQuickLinks.Endpoint())
	assert.Equal(t, "sepri_news", KindNews.CacheKey())
	assert.True(t, KindContact.Singleton())

	k, err := ParseKind("popups")
	assert.NoError(t, err)
	assert.Equal(t, KindPopups, k)
	_, err = ParseKind("users")
	assert.Error(t, err)
}

func TestTeamMemberImageSrc(t *testing.T) {
	assert.Equal(t, "", TeamMember{}.ImageSrc())
	assert.Equal(t, "data:image/jpeg;base64,xx", TeamMember{ImageURL: "data:image/jpeg;base64,xx", UpdatedAt: 5}.ImageSrc())
	assert.Equal(t, "https://cdn/x.jpg?v=42", TeamMember{ImageURL: "https://cdn/x.jpg", UpdatedAt: 42}.ImageSrc())
	assert.Equal(t, "https://cdn/x.jpg?s=1&v=", TeamMember{ImageURL: "https://cdn/x.jpg?s=1"}.ImageSrc())
}
