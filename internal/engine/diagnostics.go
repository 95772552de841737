package engine

import (
	"fmt"

	"ocpulse/pkg/contracts/domain"
)

// Diagnostics is the explicit message collection a batch accumulates.
// It is returned with the result rather than shared ambiently, so two
// concurrent batches can never interleave their messages.
type Diagnostics struct {
	Messages []domain.Message
}

// Infof appends an info-category message.
func (d *Diagnostics) Infof(format string, args ...any) {
	d.append(domain.CategoryInfo, format, args...)
}

// Warnf appends a warning-category message.
func (d *Diagnostics) Warnf(format string, args ...any) {
	d.append(domain.CategoryWarning, format, args...)
}

// Errorf appends an error-category message.
func (d *Diagnostics) Errorf(format string, args ...any) {
	d.append(domain.CategoryError, format, args...)
}

func (d *Diagnostics) append(category, format string, args ...any) {
	d.Messages = append(d.Messages, domain.Message{
		Text:     fmt.Sprintf(format, args...),
		Category: category,
	})
}
