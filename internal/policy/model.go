package policy

// Policy represents a row in the policies table. Details is nullable; a nil
// value is distinct from an explicit empty string.
type Policy struct {
	ID      int64
	Name    string
	Details *string
	Owner   string
}

// ListFilter restricts which policies a list query returns. A nil Owner
// means no ownership restriction (admin view).
type ListFilter struct {
	Owner *string
}

// UpdateFields holds the fields of a partial update. Nil fields retain their
// prior value; a pointer to an empty string is an explicit overwrite.
type UpdateFields struct {
	Name    *string
	Details *string
	Owner   *string
}
