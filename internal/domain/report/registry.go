package report

import "slices"

// SubtypeOption is a selectable subtype with its display label
type SubtypeOption struct {
	Value Subtype `json:"value"`
	Label string  `json:"label"`
}

type subtypeEntry struct {
	option   SubtypeOption
	required []FilterField
}

// registry maps each type to its ordered subtypes. The first entry is the default.
var registry = map[Type][]subtypeEntry{
	TypeSales: {
		{option: SubtypeOption{SubtypeGeneral, "General"}, required: []FilterField{FilterDateRange}},
		{option: SubtypeOption{SubtypeByProduct, "By product"}, required: []FilterField{FilterDateRange}},
	},
	TypeInventory: {
		{option: SubtypeOption{SubtypeGeneral, "General"}},
		{option: SubtypeOption{SubtypeCategories, "By category"}},
		{option: SubtypeOption{SubtypeLowStock, "Low stock"}},
	},
	TypeCustomers: {
		{option: SubtypeOption{SubtypeGeneral, "General"}},
		{option: SubtypeOption{SubtypeFrequent, "Frequent customers"}},
	},
	TypeCashRegister: {
		{option: SubtypeOption{SubtypeSessions, "Sessions"}, required: []FilterField{FilterDateRange}},
		{option: SubtypeOption{SubtypeSummary, "Summary"}, required: []FilterField{FilterDateRange}},
	},
	TypeStockMovements: {
		{option: SubtypeOption{SubtypeGeneral, "General"}, required: []FilterField{FilterDateRange}},
		{option: SubtypeOption{SubtypeByRegister, "By register"}, required: []FilterField{FilterDateRange}},
	},
}

// SubtypesFor returns the ordered subtypes registered for a type.
// Unknown types yield an empty list.
func SubtypesFor(t Type) []SubtypeOption {
	entries := registry[t]
	options := make([]SubtypeOption, 0, len(entries))
	for _, e := range entries {
		options = append(options, e.option)
	}
	return options
}

// DefaultSubtype returns the first registered subtype of a type
func DefaultSubtype(t Type) Subtype {
	entries := registry[t]
	if len(entries) == 0 {
		return ""
	}
	return entries[0].option.Value
}

// IsValidSubtype checks whether subtype belongs to the set registered for t
func IsValidSubtype(t Type, subtype Subtype) bool {
	_, ok := lookup(t, subtype)
	return ok
}

// SubtypeLabel returns the display label of a subtype, or its raw value if unknown
func SubtypeLabel(t Type, subtype Subtype) string {
	if e, ok := lookup(t, subtype); ok {
		return e.option.Label
	}
	return string(subtype)
}

// RequiredFilters returns the filter fields a subtype needs before it can be generated
func RequiredFilters(t Type, subtype Subtype) []FilterField {
	e, ok := lookup(t, subtype)
	if !ok {
		return nil
	}
	return slices.Clone(e.required)
}

func lookup(t Type, subtype Subtype) (subtypeEntry, bool) {
	for _, e := range registry[t] {
		if e.option.Value == subtype {
			return e, true
		}
	}
	return subtypeEntry{}, false
}
