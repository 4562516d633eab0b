package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core/ci"
)

type ciApi struct {
	svc      *ci.Service
	validate *validator.Validate
}

func registerCIAPI(g *echo.Group, svc *ci.Service, validate *validator.Validate) {
	api := ciApi{svc: svc, validate: validate}

	cg := g.Group("/ci")
	cg.GET("", api.query)
	cg.POST("", api.set)
	cg.GET("/estadisticas/general", api.stats)
	cg.GET("/resumen/alumno/:id", api.summary)
	cg.GET("/rango/:min/:max", api.inRange)
	cg.GET("/alumno/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

func (api *ciApi) query(ctx echo.Context) error {
	records, err := api.svc.Query(ctx.Request().Context(), bindPage(ctx))
	if err != nil {
		return errors.Wrap(err, "querying CI records")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *ciApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	r, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "retrieving CI record")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *ciApi) set(ctx echo.Context) error {
	var data ci.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.Set(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "setting CI record")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *ciApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data ci.UpdateRecord
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRecord")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating CI record")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *ciApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting CI record")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "CI eliminado exitosamente"})
}

func (api *ciApi) stats(ctx echo.Context) error {
	st, ok, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing CI stats")
	}
	if !ok {
		return ctx.JSON(http.StatusOK, MessageResponse{Message: "No hay datos de CI registrados"})
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *ciApi) summary(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	sum, ok, err := api.svc.Summary(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "summarizing CI")
	}
	if !ok {
		return ctx.JSON(http.StatusOK, MessageResponse{Message: "El alumno no tiene registro de CI"})
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *ciApi) inRange(ctx echo.Context) error {
	min, err := intParam(ctx, "min")
	if err != nil {
		return err
	}
	max, err := intParam(ctx, "max")
	if err != nil {
		return err
	}
	res, err := api.svc.InRange(ctx.Request().Context(), min, max)
	if err != nil {
		return errors.Wrap(err, "querying CI range")
	}
	return ctx.JSON(http.StatusOK, res)
}
