package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core/curso"
)

type cursoApi struct {
	svc      *curso.Service
	validate *validator.Validate
}

func registerCursoAPI(g *echo.Group, svc *curso.Service, validate *validator.Validate) {
	api := cursoApi{svc: svc, validate: validate}

	cg := g.Group("/cursos")
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

func (api *cursoApi) query(ctx echo.Context) error {
	cursos, err := api.svc.Query(ctx.Request().Context(), bindPage(ctx))
	if err != nil {
		return errors.Wrap(err, "querying cursos")
	}
	return ctx.JSON(http.StatusOK, cursos)
}

func (api *cursoApi) create(ctx echo.Context) error {
	var data curso.NewCurso
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCurso")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating curso")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *cursoApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	c, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "retrieving curso")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *cursoApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data curso.UpdateCurso
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCurso")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating curso")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *cursoApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting curso")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Curso eliminado exitosamente"})
}
