package constants

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Standard response field keys
const (
	ResponseFieldTotal     = "total"
	ResponseFieldPage      = "page"
	ResponseFieldLimit     = "limit"
	ResponseFieldPageTotal = "page_total"
	ResponseFieldData      = "data"

	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldSuccess = "success"
)

// PaginationParams holds the parsed page/limit/search triple from a list
// request. Offset is pre-calculated for the repository layer.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
	Search string
}

// ParsePaginationParams parses page, limit and search query parameters,
// clamping them to sane bounds.
func ParsePaginationParams(c *gin.Context) PaginationParams {
	pageStr := c.DefaultQuery(QueryParamPage, DefaultPage)
	limitStr := c.DefaultQuery(QueryParamLimit, DefaultLimit)

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	if page < MinPage {
		page = MinPage
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		Search: c.DefaultQuery(QueryParamSearch, DefaultSearch),
	}
}

// Response format functions
func BuildListResponse(total int64, page int, limit int, pageTotal int, data any) map[string]any {
	return map[string]any{
		ResponseFieldSuccess:   true,
		ResponseFieldTotal:     total,
		ResponseFieldPage:      page,
		ResponseFieldLimit:     limit,
		ResponseFieldPageTotal: pageTotal,
		ResponseFieldData:      data,
	}
}

func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldSuccess: false,
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldMessage: message,
	}
}

func BuildDataResponse(data any) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldData:    data,
	}
}
