package domain

// DefaultSearchLimit caps the number of hits returned by a search.
const DefaultSearchLimit = 20

// ClampSearchLimit returns the number of hits a caller asking for requested
// will get when the index returns at most ceiling. A non-positive requested
// asks for the ceiling; a non-positive ceiling means DefaultSearchLimit.
func ClampSearchLimit(requested, ceiling int) int {
	if ceiling <= 0 {
		ceiling = DefaultSearchLimit
	}
	if requested <= 0 || requested > ceiling {
		return ceiling
	}
	return requested
}

// SearchHit is a single search result. It is built fresh for every query
// from the current document state and the query string.
type SearchHit struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// LoadReport summarises a full vault load into the search index.
type LoadReport struct {
	// Indexed is the number of notes that reached the index.
	Indexed int

	// Failed is the number of notes that could not be indexed.
	Failed int
}
