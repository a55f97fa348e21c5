package database

import "fmt"

// UpdateSet collects the columns of a partial update in a fixed,
// insertion-stable order, validated against an allow-list so request
// field names can never smuggle arbitrary SQL identifiers into the
// statement.
type UpdateSet struct {
	allowed map[string]struct{}
	columns []string
	values  map[string]interface{}
}

func NewUpdateSet(allowedColumns ...string) *UpdateSet {
	allowed := make(map[string]struct{}, len(allowedColumns))
	for _, c := range allowedColumns {
		allowed[c] = struct{}{}
	}
	return &UpdateSet{
		allowed: allowed,
		values:  make(map[string]interface{}),
	}
}

// Set records a column assignment. Unknown columns are rejected;
// setting the same column twice keeps the last value without changing
// its position.
func (u *UpdateSet) Set(column string, value interface{}) error {
	if _, ok := u.allowed[column]; !ok {
		return fmt.Errorf("column %q is not updatable", column)
	}
	if _, exists := u.values[column]; !exists {
		u.columns = append(u.columns, column)
	}
	u.values[column] = value
	return nil
}

func (u *UpdateSet) Empty() bool {
	return len(u.columns) == 0
}

// Columns returns the assigned column names in insertion order.
func (u *UpdateSet) Columns() []string {
	out := make([]string, len(u.columns))
	copy(out, u.columns)
	return out
}

// Assignments returns the column/value map in the form GORM's Updates
// expects. GORM renders map updates with sorted column names, so the
// generated SQL is deterministic.
func (u *UpdateSet) Assignments() map[string]interface{} {
	out := make(map[string]interface{}, len(u.values))
	for k, v := range u.values {
		out[k] = v
	}
	return out
}
