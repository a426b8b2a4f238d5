package domain

// ListParams carries the request-shaped input for one listing. It is created
// fresh per request and discarded once a scope has been handed to the
// execution layer.
type ListParams struct {
	Query       string
	Filters     FilterInput
	Sort        SortTarget
	SortReverse bool
	Page        int
	Per         int
	Limit       int
	BulkIDs     []string
	IncludeRefs bool
}
