package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core/alumno"
)

type alumnoApi struct {
	svc      *alumno.Service
	validate *validator.Validate
}

func registerAlumnoAPI(g *echo.Group, svc *alumno.Service, validate *validator.Validate) {
	api := alumnoApi{svc: svc, validate: validate}

	ag := g.Group("/alumnos")
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.GET("/nombres", api.nombres)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
	ag.GET("/:id/calificaciones", api.calificaciones)
	ag.POST("/:id/calificaciones", api.calificar)
}

func (api *alumnoApi) query(ctx echo.Context) error {
	alumnos, err := api.svc.Query(ctx.Request().Context(), bindPage(ctx))
	if err != nil {
		return errors.Wrap(err, "querying alumnos")
	}
	return ctx.JSON(http.StatusOK, alumnos)
}

func (api *alumnoApi) create(ctx echo.Context) error {
	var data alumno.NewAlumno
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAlumno")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating alumno")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *alumnoApi) nombres(ctx echo.Context) error {
	nombres, err := api.svc.Nombres(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying nombres")
	}
	return ctx.JSON(http.StatusOK, nombres)
}

func (api *alumnoApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	a, err := api.svc.GetView(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "retrieving alumno")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *alumnoApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data alumno.UpdateAlumno
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAlumno")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating alumno")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *alumnoApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting alumno")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Alumno eliminado exitosamente"})
}

func (api *alumnoApi) calificaciones(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	califs, err := api.svc.Calificaciones(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying calificaciones")
	}
	return ctx.JSON(http.StatusOK, califs)
}

func (api *alumnoApi) calificar(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data alumno.SetCalificacion
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetCalificacion")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.SetCalificacion(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "grading alumno")
	}
	return ctx.JSON(http.StatusOK, c)
}
