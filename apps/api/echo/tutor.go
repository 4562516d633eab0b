package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core/tutor"
)

type tutorApi struct {
	svc  *tutor.Service
	auth *authenticator
}

func registerTutorAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *tutor.Service, auth *authenticator) {
	api := tutorApi{svc: svc, auth: auth}

	tg := g.Group("/ai-assistant")
	tg.GET("/students", api.students)
	tg.GET("/student/:id", api.student)
	tg.POST("/generate-recommendations/:id", api.recommend)
	tg.POST("/chat/:id", api.chat)
	tg.GET("/conversation-history/:id", api.history)
	tg.DELETE("/conversation/:id", api.clear)
	tg.POST("/send-report/:id", api.sendReport, jwt, profesorMiddleware(auth))
}

type (
	StudentsResponse struct {
		Success  bool            `json:"success"`
		Students []tutor.Student `json:"students"`
		Total    int             `json:"total"`
	}

	StudentResponse struct {
		Success bool                 `json:"success"`
		Alumno  tutor.StudentProfile `json:"alumno"`
	}

	ChatRequest struct {
		Message string `json:"message"`
	}
)

func (api *tutorApi) students(ctx echo.Context) error {
	students, err := api.svc.Students(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, StudentsResponse{Success: true, Students: students, Total: len(students)})
}

func (api *tutorApi) student(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	sp, err := api.svc.StudentProfile(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "retrieving student profile")
	}
	return ctx.JSON(http.StatusOK, StudentResponse{Success: true, Alumno: sp})
}

func (api *tutorApi) recommend(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	res, err := api.svc.GenerateRecommendations(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "generating recommendations")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *tutorApi) chat(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data ChatRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}

	reply, err := api.svc.Chat(ctx.Request().Context(), id, data.Message)
	if err != nil {
		return errors.Wrap(err, "chatting")
	}
	return ctx.JSON(http.StatusOK, reply)
}

func (api *tutorApi) history(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	h, err := api.svc.History(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "retrieving conversation history")
	}
	return ctx.JSON(http.StatusOK, h)
}

func (api *tutorApi) clear(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	nombre, err := api.svc.Clear(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "clearing conversation")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Conversación de " + nombre + " limpiada exitosamente",
	})
}

func (api *tutorApi) sendReport(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	p, err := api.auth.contextProfesor(ctx)
	if err != nil {
		return err
	}

	to := mail.Address{Name: p.Nombre, Address: p.Email}
	if err = api.svc.SendReport(ctx.Request().Context(), id, to); err != nil {
		return errors.Wrap(err, "sending report")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Reporte enviado a " + p.Email})
}
