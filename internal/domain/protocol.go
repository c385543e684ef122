package domain

// Protocol is a category of event with its checklist and conditional questions.
// On the wire it keeps the historical "event" naming.
type Protocol struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	IconName    Icon            `json:"iconName"`
	Description string          `json:"description"`
	BaseSteps   []Step          `json:"baseSteps"`
	Questions   []Question      `json:"questions"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	DocumentURL string          `json:"documentUrl,omitempty"`
	Alerts      []ProtocolAlert `json:"alerts,omitempty"`
}

type Step struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Deadline       string `json:"deadline,omitempty"`
	IsDownloadable bool   `json:"isDownloadable,omitempty"`
	DownloadURL    string `json:"downloadUrl,omitempty"`
	VideoURL       string `json:"videoUrl,omitempty"`
	RequiresUpload bool   `json:"requiresUpload,omitempty"`
	IsCustom       bool   `json:"isCustom,omitempty"`
	Order          int    `json:"order"`
}

type Question struct {
	ID           string              `json:"id"`
	Text         string              `json:"text"`
	TriggerSteps []string            `json:"triggerSteps"`
	IsEnabled    bool                `json:"isEnabled,omitempty"`
	YesContent   string              `json:"yesContent,omitempty"`
	NoContent    string              `json:"noContent,omitempty"`
	YesFormats   []ConditionalFormat `json:"yesFormats,omitempty"`
	NoFormats    []ConditionalFormat `json:"noFormats,omitempty"`
}

// ConditionalFormat is a document link shown once a question is answered.
type ConditionalFormat struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type AlertType string

const (
	AlertInfo    AlertType = "info"
	AlertWarning AlertType = "warning"
	AlertDanger  AlertType = "danger"
)

type ProtocolAlert struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Type    AlertType `json:"type"`
	Active  bool      `json:"active"`
}

// Answers maps question ids to the visitor's yes/no answers. It lives for
// one session only and is never persisted.
type Answers map[string]bool

// Step returns the base step with the given id.
func (p *Protocol) Step(id string) (Step, bool) {
	for _, s := range p.BaseSteps {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

// EnabledQuestions returns the questions a visitor is asked.
func (p *Protocol) EnabledQuestions() []Question {
	var out []Question
	for _, q := range p.Questions {
		if q.IsEnabled {
			out = append(out, q)
		}
	}
	return out
}

// ActiveAlerts returns alerts flagged active.
func (p *Protocol) ActiveAlerts() []ProtocolAlert {
	var out []ProtocolAlert
	for _, a := range p.Alerts {
		if a.Active {
			out = append(out, a)
		}
	}
	return out
}
