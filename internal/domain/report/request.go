package report

import "time"

// DateRange bounds a report period. Either end may be unset.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// IsComplete returns true when both ends are set
func (r DateRange) IsComplete() bool {
	return r.Start != nil && r.End != nil
}

// Request holds the filter panel state for a report
type Request struct {
	Type       Type      `json:"type"`
	Subtype    Subtype   `json:"subtype"`
	DateRange  DateRange `json:"date_range"`
	BranchID   *int64    `json:"branch_id,omitempty"`
	CategoryID *int64    `json:"category_id,omitempty"`
}

// NewRequest creates a request for t with its default subtype
func NewRequest(t Type) Request {
	return Request{
		Type:    t,
		Subtype: DefaultSubtype(t),
	}
}

// WithType returns a copy switched to t. The subtype is reset to the default
// of t even when t equals the current type.
func (r Request) WithType(t Type) Request {
	r.Type = t
	r.Subtype = DefaultSubtype(t)
	if t != TypeInventory {
		r.CategoryID = nil
	}
	return r
}

// Validate checks the subtype against the registry and the required filters
func (r Request) Validate() error {
	if !r.Type.IsValid() {
		return NewInvalidTypeError(string(r.Type))
	}
	if !IsValidSubtype(r.Type, r.Subtype) {
		return NewInvalidSubtypeError(r.Type, r.Subtype)
	}
	for _, field := range RequiredFilters(r.Type, r.Subtype) {
		switch field {
		case FilterDateRange:
			if !r.DateRange.IsComplete() {
				return NewMissingFilterError(r.Type, r.Subtype, field)
			}
		case FilterCategory:
			if r.CategoryID == nil {
				return NewMissingFilterError(r.Type, r.Subtype, field)
			}
		}
	}
	return nil
}

// Filters is the query sent to the report service. Nil fields are omitted.
type Filters struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *int64
	BranchID   *int64
}

// Filters builds the report service query for this request. The category is
// only forwarded for inventory reports.
func (r Request) Filters() Filters {
	f := Filters{
		StartDate: r.DateRange.Start,
		EndDate:   r.DateRange.End,
		BranchID:  r.BranchID,
	}
	if r.Type == TypeInventory {
		f.CategoryID = r.CategoryID
	}
	return f
}

// SessionContext carries the caller's session state into the controller.
// Renderers and exporters never see it.
type SessionContext struct {
	BranchID   *int64
	BranchName string
	UserID     string
}

// HasBranch returns true when a branch is selected
func (s SessionContext) HasBranch() bool {
	return s.BranchID != nil
}
