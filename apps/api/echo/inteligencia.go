package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core/inteligencia"
)

type inteligenciaApi struct {
	svc      *inteligencia.Service
	validate *validator.Validate
}

func registerInteligenciaAPI(g *echo.Group, svc *inteligencia.Service, validate *validator.Validate) {
	api := inteligenciaApi{svc: svc, validate: validate}

	ig := g.Group("/inteligencias")
	ig.GET("", api.query)
	ig.POST("", api.create)
	ig.GET("/tipos/lista", api.tipos)
	ig.GET("/estadisticas/alumno/:id", api.stats)
	ig.GET("/alumno/:id", api.queryByAlumno)
	ig.DELETE("/alumno/:id", api.destroyByAlumno)
	ig.GET("/:id", api.retrieve)
	ig.PUT("/:id", api.update)
	ig.DELETE("/:id", api.destroy)
}

type TiposResponse struct {
	Tipos []string `json:"tipos_inteligencia"`
}

func (api *inteligenciaApi) query(ctx echo.Context) error {
	intels, err := api.svc.Query(ctx.Request().Context(), bindPage(ctx))
	if err != nil {
		return errors.Wrap(err, "querying inteligencias")
	}
	return ctx.JSON(http.StatusOK, intels)
}

func (api *inteligenciaApi) queryByAlumno(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	intels, err := api.svc.QueryByAlumno(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying alumno inteligencias")
	}
	return ctx.JSON(http.StatusOK, intels)
}

func (api *inteligenciaApi) create(ctx echo.Context) error {
	var data inteligencia.NewInteligencia
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewInteligencia")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	i, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating inteligencia")
	}
	return ctx.JSON(http.StatusOK, i)
}

func (api *inteligenciaApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	i, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "retrieving inteligencia")
	}
	return ctx.JSON(http.StatusOK, i)
}

func (api *inteligenciaApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data inteligencia.UpdateInteligencia
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateInteligencia")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	i, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating inteligencia")
	}
	return ctx.JSON(http.StatusOK, i)
}

func (api *inteligenciaApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting inteligencia")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Inteligencia eliminada exitosamente"})
}

func (api *inteligenciaApi) destroyByAlumno(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.DeleteByAlumno(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "deleting alumno inteligencias")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Se eliminaron %d inteligencias del alumno", n)})
}

func (api *inteligenciaApi) tipos(ctx echo.Context) error {
	tipos, err := api.svc.Tipos(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying tipos")
	}
	if tipos == nil {
		tipos = []string{}
	}
	return ctx.JSON(http.StatusOK, TiposResponse{Tipos: tipos})
}

func (api *inteligenciaApi) stats(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	st, ok, err := api.svc.Stats(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "computing inteligencia stats")
	}
	if !ok {
		return ctx.JSON(http.StatusOK, MessageResponse{Message: "El alumno no tiene datos de inteligencias registrados"})
	}
	return ctx.JSON(http.StatusOK, st)
}
