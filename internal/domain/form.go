package domain

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldCheckbox FieldType = "checkbox"
)

// FormTemplate belongs to a protocol through EventID. Responses to it are
// rendered to text and never stored.
type FormTemplate struct {
	ID          string      `json:"id"`
	EventID     string      `json:"eventId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Fields      []FormField `json:"fields"`
}

type FormField struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
}
