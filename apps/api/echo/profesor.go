package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/profesor"
)

type profesorApi struct {
	svc      *profesor.Service
	auth     *authenticator
	validate *validator.Validate
	logger   core.Logger
}

func registerProfesorAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *profesor.Service,
	auth *authenticator,
	validate *validator.Validate,
	logger core.Logger,
) {
	api := profesorApi{
		svc:      svc,
		auth:     auth,
		validate: validate,
		logger:   logger,
	}

	pg := g.Group("/profesores")

	// un-authed endpoints
	// TODO: rate limit `/login` & `/password-reset`
	pg.POST("/register", api.register)
	pg.POST("/login", api.login)
	pg.POST("/password-reset", api.resetPassword)
	pg.POST("/password-reset-confirm", api.confirmPasswordReset)
	pg.GET("", api.query)
	pg.GET("/cursos/disponibles", api.cursosDisponibles)

	// authed endpoints
	authed := []echo.MiddlewareFunc{jwt, profesorMiddleware(auth)}
	pg.POST("/token-refresh", api.refreshToken, authed...)
	pg.GET("/me", api.me, authed...)

	// detail endpoints
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)
	pg.GET("/:id/cursos", api.cursos)
	pg.POST("/:id/cursos/:curso_id", api.assignCurso)
	pg.DELETE("/:id/cursos/:curso_id", api.unassignCurso)
	pg.GET("/:id/estadisticas", api.stats)
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (pr *PasswordResetRequest) Validate(validate *validator.Validate) error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return validate.Struct(pr)
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username)
	return validate.Struct(lr)
}

// Handlers

func (api *profesorApi) register(ctx echo.Context) error {
	var data profesor.NewProfesor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProfesor")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering profesor")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *profesorApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	token, err := api.auth.authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newTokenResponse(token))
}

func (api *profesorApi) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newTokenResponse(token))
}

func (api *profesorApi) me(ctx echo.Context) error {
	p, err := api.auth.contextProfesor(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *profesorApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || core.IsNotFound(err)) {
		// do not return errors to attackers
		api.logger.Error("profesorApi.resetPassword", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, MessageResponse{
		Message: "Si el correo está asociado a un profesor, recibirá instrucciones para restablecer su contraseña.",
	})
}

func (api *profesorApi) confirmPasswordReset(ctx echo.Context) error {
	var data profesor.ResetPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetPassword")
	}
	p, err := api.svc.ResetTarget(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	if err = data.Validate(p, api.validate); err != nil {
		return err
	}

	if err = api.svc.ResetPassword(ctx.Request().Context(), p, data.Password); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "La contraseña ha sido restablecida"})
}

func (api *profesorApi) query(ctx echo.Context) error {
	profs, err := api.svc.Query(ctx.Request().Context(), bindPage(ctx))
	if err != nil {
		return errors.Wrap(err, "querying profesores")
	}
	return ctx.JSON(http.StatusOK, profs)
}

func (api *profesorApi) retrieve(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	p, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "retrieving profesor")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *profesorApi) update(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	p, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "retrieving profesor")
	}

	var data profesor.UpdateProfesor
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfesor")
	}
	if err = data.Validate(p, api.validate); err != nil {
		return err
	}

	p, err = api.svc.Update(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "updating profesor")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *profesorApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting profesor")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Profesor eliminado exitosamente"})
}

func (api *profesorApi) cursos(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	cursos, err := api.svc.Cursos(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying profesor cursos")
	}
	return ctx.JSON(http.StatusOK, cursos)
}

func (api *profesorApi) assignCurso(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	cursoID, err := intParam(ctx, "curso_id")
	if err != nil {
		return err
	}
	if err = api.svc.AssignCurso(ctx.Request().Context(), id, cursoID); err != nil {
		return errors.Wrap(err, "assigning curso")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Curso asignado exitosamente"})
}

func (api *profesorApi) unassignCurso(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	cursoID, err := intParam(ctx, "curso_id")
	if err != nil {
		return err
	}
	if err = api.svc.UnassignCurso(ctx.Request().Context(), id, cursoID); err != nil {
		return errors.Wrap(err, "unassigning curso")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Curso desasignado exitosamente"})
}

func (api *profesorApi) cursosDisponibles(ctx echo.Context) error {
	cursos, err := api.svc.CursosDisponibles(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying cursos disponibles")
	}
	return ctx.JSON(http.StatusOK, cursos)
}

func (api *profesorApi) stats(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	st, err := api.svc.Stats(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "computing profesor stats")
	}
	return ctx.JSON(http.StatusOK, st)
}
