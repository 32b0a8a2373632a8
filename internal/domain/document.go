package domain

// Document is the unit indexed by the search service
type Document struct {
	URI      string
	Name     string
	Content  string
	Keywords []string
	Source   string
}
