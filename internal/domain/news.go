package domain

type NewsCategory string

const (
	CategoryImportant NewsCategory = "Importante"
	CategoryEvent     NewsCategory = "Evento"
	CategoryUpdate    NewsCategory = "Novedad"
)

func (c NewsCategory) Valid() bool {
	switch c {
	case CategoryImportant, CategoryEvent, CategoryUpdate:
		return true
	}
	return false
}

// NewsItem is a public announcement. Date is a display string, not a timestamp.
type NewsItem struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Date     string       `json:"date"`
	Summary  string       `json:"summary"`
	Category NewsCategory `json:"category"`
	ImageURL string       `json:"imageUrl,omitempty"`
}
