package linguacrawl

import "context"

// Status is a checkpoint of frontier state.
type Status struct {
	// Processed lists the URLs already handled by the driver.
	Processed []string `json:"processed"`

	// Pending lists live URLs best first.
	Pending []string `json:"pending"`

	// PendingClasses holds the class of each Pending URL.
	// Empty means every pending URL restores at ClassUnknown.
	PendingClasses []PriorityClass `json:"pendingClasses,omitempty"`

	// Attempts is the driver's fetch counter. The frontier passes it through.
	Attempts int `json:"attempts"`
}

// Validate returns ECORRUPT if the snapshot is structurally invalid.
func (s *Status) Validate() error {
	if s == nil {
		return Errorf(ECORRUPT, "status snapshot required")
	}
	if s.Attempts < 0 {
		return Errorf(ECORRUPT, "negative attempts counter %d", s.Attempts)
	}
	if len(s.PendingClasses) > 0 && len(s.PendingClasses) != len(s.Pending) {
		return Errorf(ECORRUPT, "pending has %d urls but %d classes", len(s.Pending), len(s.PendingClasses))
	}
	for _, c := range s.PendingClasses {
		if !c.Valid() {
			return Errorf(ECORRUPT, "invalid priority class %d", c)
		}
	}
	for _, u := range s.Processed {
		if _, err := NewLink(u); err != nil {
			return Errorf(ECORRUPT, "invalid processed url %q", u)
		}
	}
	for _, u := range s.Pending {
		if _, err := NewLink(u); err != nil {
			return Errorf(ECORRUPT, "invalid pending url %q", u)
		}
	}
	return nil
}

// PendingClass returns the class recorded for Pending[i].
func (s *Status) PendingClass(i int) PriorityClass {
	if i < len(s.PendingClasses) {
		return s.PendingClasses[i]
	}
	return ClassUnknown
}

// StatusStore persists frontier checkpoints.
type StatusStore interface {
	// SaveStatus replaces the stored checkpoint.
	SaveStatus(ctx context.Context, s *Status) error

	// LoadStatus returns the stored checkpoint.
	// Returns ENOTFOUND if no checkpoint has been saved.
	LoadStatus(ctx context.Context) (*Status, error)
}
