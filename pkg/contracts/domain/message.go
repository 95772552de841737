package domain

// Message categories returned alongside batch results.
const (
	CategoryInfo    = "info"
	CategoryWarning = "warning"
	CategoryError   = "error"
)

// Message is a single diagnostic entry attached to a batch result.
type Message struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}
