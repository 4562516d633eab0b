package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/tutoria/core"
)

type (
	MessageResponse struct {
		Message string `json:"message"`
	}

	SuccessResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
)

// bindPage reads the `skip` & `limit` query params; invalid values fall back to the defaults.
func bindPage(ctx echo.Context) core.Page {
	var page core.Page
	if skip, err := strconv.Atoi(ctx.QueryParam("skip")); err == nil {
		page.Skip = skip
	}
	if limit, err := strconv.Atoi(ctx.QueryParam("limit")); err == nil {
		page.Limit = limit
	}
	return page.Clean()
}

// intParam parses the named path param, failing with a field error.
func intParam(ctx echo.Context, name string) (int, error) {
	val, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, core.NewValidationError(err, core.FieldError{Field: name, Error: "value is not a valid integer"})
	}
	return val, nil
}

func idParam(ctx echo.Context) (int, error) {
	return intParam(ctx, "id")
}

// boolQuery reads a boolean query param, def when missing or invalid.
func boolQuery(ctx echo.Context, name string, def bool) bool {
	if b, err := strconv.ParseBool(ctx.QueryParam(name)); err == nil {
		return b
	}
	return def
}
