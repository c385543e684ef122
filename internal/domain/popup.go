package domain

type PopupType string

const (
	PopupInfo    PopupType = "info"
	PopupWarning PopupType = "warning"
	PopupAlert   PopupType = "alert"
)

func (t PopupType) Valid() bool {
	switch t {
	case PopupInfo, PopupWarning, PopupAlert:
		return true
	}
	return false
}

// PopupConfig is a site-wide notice. Dismissal is tracked per browser,
// never on the record.
type PopupConfig struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsEnabled bool      `json:"isEnabled"`
	Type      PopupType `json:"type"`
}

type QuickLink struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	IsEnabled bool   `json:"isEnabled"`
}
