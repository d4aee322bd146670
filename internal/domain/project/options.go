package project

// ListOptions filters project listings.
type ListOptions struct {
	// Query is matched against name and description with full-text search.
	Query  string
	Limit  int
	Offset int
}
