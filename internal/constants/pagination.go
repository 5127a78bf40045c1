package constants

// Query parameter names
const (
	QueryParamPage   = "page"
	QueryParamLimit  = "limit"
	QueryParamSearch = "search"
)

// Pagination defaults and bounds
const (
	DefaultPage   = "1"
	DefaultLimit  = "10"
	DefaultSearch = ""

	MinPage  = 1
	MinLimit = 1
	MaxLimit = 100
)
