package filter

// Sort is the timestamp ordering of a search.
type Sort string

// Sort constants.
const (
	Asc  Sort = "asc"
	Desc Sort = "desc"

	// DefaultSort is newest first.
	DefaultSort = Desc
)

// IsValid checks if the sort is one of the supported values.
func (s Sort) IsValid() bool {
	return s == Asc || s == Desc
}
