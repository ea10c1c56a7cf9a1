package report

import "slices"

// Type identifies a report family. Values match the identifiers used by the
// POS report service.
type Type string

const (
	TypeSales          Type = "ventas"
	TypeInventory      Type = "productos"
	TypeCustomers      Type = "clientes"
	TypeCashRegister   Type = "caja"
	TypeStockMovements Type = "movimientos"
)

var allTypes = []Type{
	TypeSales,
	TypeInventory,
	TypeCustomers,
	TypeCashRegister,
	TypeStockMovements,
}

// AllTypes returns every report type in display order
func AllTypes() []Type {
	return slices.Clone(allTypes)
}

// ParseType converts a wire value into a Type
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", NewInvalidTypeError(s)
	}
	return t, nil
}

// IsValid checks if the Type is a registered value
func (t Type) IsValid() bool {
	return slices.Contains(allTypes, t)
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Label returns the human readable name of the report type
func (t Type) Label() string {
	switch t {
	case TypeSales:
		return "Sales"
	case TypeInventory:
		return "Inventory"
	case TypeCustomers:
		return "Customers"
	case TypeCashRegister:
		return "Cash Register"
	case TypeStockMovements:
		return "Stock Movements"
	default:
		return string(t)
	}
}

// Landscape reports whether documents of this type are laid out in landscape
func (t Type) Landscape() bool {
	return t == TypeCashRegister || t == TypeStockMovements
}

// Subtype names a variant of a report type's data shape and columns
type Subtype string

const (
	SubtypeGeneral    Subtype = "general"
	SubtypeByProduct  Subtype = "por_producto"
	SubtypeCategories Subtype = "categorias"
	SubtypeLowStock   Subtype = "stock_bajo"
	SubtypeFrequent   Subtype = "frecuentes"
	SubtypeSessions   Subtype = "sesiones"
	SubtypeSummary    Subtype = "resumen"
	SubtypeByRegister Subtype = "por_caja"
)

// String returns the string representation of Subtype
func (s Subtype) String() string {
	return string(s)
}

// FilterField names a request filter that a subtype may require
type FilterField string

const (
	FilterDateRange FilterField = "date_range"
	FilterCategory  FilterField = "category"
)
