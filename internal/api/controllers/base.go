package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"memberd/internal/services"

	"github.com/labstack/echo/v4"
)

// QueryController exposes generic list and detail endpoints for a model.
// Writes have no generic controller: every mutation goes through a domain
// handler so it is authorized and audited.
type QueryController[T any] struct {
	service    services.QueryService[T]
	filterable map[string]bool
}

// NewQueryController creates a read-only controller. Only the named
// columns may appear as query-param filters or sort fields; anything else
// in the query string is ignored.
func NewQueryController[T any](service services.QueryService[T], filterable ...string) *QueryController[T] {
	allowed := make(map[string]bool, len(filterable))
	for _, column := range filterable {
		allowed[column] = true
	}
	return &QueryController[T]{service: service, filterable: allowed}
}

func (c *QueryController[T]) sortable(column string) bool {
	return c.filterable[column] || column == "created_at" || column == "updated_at"
}

// parseIncludes parses the include query parameter and returns a slice of relationships to preload
func parseIncludes(ctx echo.Context) []string {
	include := ctx.QueryParam("include")
	if include == "" {
		return nil
	}
	return strings.Split(include, ",")
}

// Get handles retrieval of a single entity
func (c *QueryController[T]) Get(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}

	includes := parseIncludes(ctx)
	entity, err := c.service.Get(ctx.Request().Context(), id, includes...)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return ctx.JSON(http.StatusNotFound, map[string]interface{}{
				"success": false,
				"message": "entity not found",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    entity,
	})
}

// List handles retrieval of multiple entities with pagination and filtering
func (c *QueryController[T]) List(ctx echo.Context) error {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	// Whitelisted query parameters become equality filters
	filters := make(map[string]interface{})
	for key, values := range ctx.QueryParams() {
		if c.filterable[key] && len(values) > 0 {
			filters[key] = values[0]
		}
	}

	sort := ctx.QueryParam("sort")
	if sort != "" && !c.sortable(sort) {
		sort = ""
	}
	order := ctx.QueryParam("order")
	includes := parseIncludes(ctx)

	entities, total, err := c.service.List(ctx.Request().Context(), page, limit, filters, sort, order, includes...)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    entities,
		"count":   total,
		"pagination": map[string]interface{}{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// RegisterRoutes registers the read routes for the controller
func (c *QueryController[T]) RegisterRoutes(g *echo.Group, path string) {
	g.GET(path, c.List)
	g.GET(path+"/:id", c.Get)
}
