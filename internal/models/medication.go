package models

import (
	"fmt"
	"strings"
	"time"
)

type Medication struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Dosage       float64    `json:"dosage"`
	Unit         Unit       `json:"unit"`
	Quantity     *int       `json:"quantity,omitempty"` // nil when the stock is unknown
	Category     string     `json:"category,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	Description  string     `json:"description,omitempty"`
	Frequency    string     `json:"frequency,omitempty"` // free text, e.g. "twice daily"
	Schedule     Schedule   `json:"schedule"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

func (m *Medication) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("medication name cannot be empty")
	}

	if m.Dosage <= 0 {
		return fmt.Errorf("dosage must be greater than zero")
	}

	if !m.Unit.Valid() {
		return fmt.Errorf("unknown unit %q", m.Unit)
	}

	if m.Quantity != nil && *m.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}

	if err := m.Schedule.Validate(); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}

	return nil
}

// Stock returns the known quantity, treating unknown stock as zero.
func (m *Medication) Stock() int {
	if m.Quantity == nil {
		return 0
	}
	return *m.Quantity
}

// FormatDose renders the per-dose amount, e.g. "2 tablets".
func (m *Medication) FormatDose() string {
	return fmt.Sprintf("%s %s", FormatAmount(m.Dosage), m.Unit.Plural(m.Dosage))
}

// FormatAmount prints whole amounts without a fractional part.
func FormatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// IntPtr is a helper for building optional quantities.
func IntPtr(v int) *int {
	return &v
}
