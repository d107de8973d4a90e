package notion

// Page is a database row.
type Page struct {
	ID             string              `json:"id"`
	LastEditedTime string              `json:"last_edited_time"`
	InTrash        bool                `json:"in_trash,omitempty"`
	Properties     map[string]Property `json:"properties"`
}

// Property is a page property value. Only the field matching Type is set.
type Property struct {
	ID       string        `json:"id,omitempty"`
	Type     string        `json:"type,omitempty"`
	Title    []RichText    `json:"title,omitempty"`
	RichText []RichText    `json:"rich_text,omitempty"`
	Number   *float64      `json:"number,omitempty"`
	Select   *SelectOption `json:"select,omitempty"`
	Date     *DateValue    `json:"date,omitempty"`
	URL      *string       `json:"url,omitempty"`
}

// RichText is one text run.
type RichText struct {
	Type      string `json:"type,omitempty"`
	Text      *Text  `json:"text,omitempty"`
	PlainText string `json:"plain_text,omitempty"`
}

// Text is the content of a text run.
type Text struct {
	Content string `json:"content"`
}

// SelectOption is a select value.
type SelectOption struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// DateValue is a date value.
type DateValue struct {
	Start string `json:"start"`
}

// PlainText concatenates the runs, preferring plain_text over text.content.
func PlainText(runs []RichText) string {
	var s string
	for _, run := range runs {
		switch {
		case run.PlainText != "":
			s += run.PlainText
		case run.Text != nil:
			s += run.Text.Content
		}
	}
	return s
}

type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

type databaseResponse struct {
	ID         string `json:"id"`
	Properties map[string]struct {
		Type PropertyKind `json:"type"`
	} `json:"properties"`
}

// APIError is the error body returned by the API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return "notion: " + e.Code + ": " + e.Message
}

// Retryable reports whether the request may succeed if repeated.
func (e *APIError) Retryable() bool {
	return e.Status == 429 || e.Status >= 500
}
