package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core/competencia"
)

type competenciaApi struct {
	svc      *competencia.Service
	validate *validator.Validate
}

func registerCompetenciaAPI(g *echo.Group, svc *competencia.Service, validate *validator.Validate) {
	api := competenciaApi{svc: svc, validate: validate}

	cg := g.Group("/competencias")
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

func (api *competenciaApi) query(ctx echo.Context) error {
	comps, err := api.svc.Query(ctx.Request().Context(), bindPage(ctx))
	if err != nil {
		return errors.Wrap(err, "querying competencias")
	}
	return ctx.JSON(http.StatusOK, competencia.NewViews(comps))
}

func (api *competenciaApi) create(ctx echo.Context) error {
	var data competencia.NewCompetencia
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCompetencia")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating competencia")
	}
	return ctx.JSON(http.StatusOK, competencia.NewView(c))
}

func (api *competenciaApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	c, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "retrieving competencia")
	}
	return ctx.JSON(http.StatusOK, competencia.NewView(c))
}

func (api *competenciaApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data competencia.UpdateCompetencia
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCompetencia")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating competencia")
	}
	return ctx.JSON(http.StatusOK, competencia.NewView(c))
}

func (api *competenciaApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting competencia")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Competencia eliminada exitosamente"})
}
