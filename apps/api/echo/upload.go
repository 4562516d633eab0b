package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/importer"
)

type uploadApi struct {
	svc     *importer.Service
	maxSize int64
}

func registerUploadAPI(g *echo.Group, svc *importer.Service, maxSize int64) {
	api := uploadApi{svc: svc, maxSize: maxSize}
	var mw []echo.MiddlewareFunc
	if maxSize > 0 {
		// reject oversized bodies before the multipart form is parsed
		mw = append(mw, middleware.BodyLimit(strconv.FormatInt(maxSize, 10)+"B"))
	}
	g.POST("/upload", api.upload, mw...)
}

func (api *uploadApi) upload(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "file", Error: "this field is required"})
	}
	if err = importer.CheckUpload(fh.Filename, fh.Size, api.maxSize); err != nil {
		return err
	}
	update := boolQuery(ctx, "actualizar_existentes", true)

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer f.Close()

	res, err := api.svc.Import(ctx.Request().Context(), f, update)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
