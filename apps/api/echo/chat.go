package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core/chat"
)

type chatApi struct {
	svc      *chat.Service
	auth     *authenticator
	validate *validator.Validate
}

func registerChatAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *chat.Service, auth *authenticator, validate *validator.Validate) {
	api := chatApi{svc: svc, auth: auth, validate: validate}
	authed := []echo.MiddlewareFunc{jwt, profesorMiddleware(auth)}

	cg := g.Group("/personal-chat")
	cg.POST("/send-message", api.send, authed...)
	cg.POST("/send-message-public", api.sendPublic)
	cg.GET("/history/:id", api.history, authed...)
	cg.DELETE("/clear/:id", api.clear, authed...)
	cg.GET("/welcome/:id", api.welcome)
	cg.GET("/recommendations/:id", api.recommendations)
}

func (api *chatApi) bindMessage(ctx echo.Context) (chat.SendMessage, error) {
	var data chat.SendMessage
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrap(err, "binding to SendMessage")
	}
	return data, data.Validate(api.validate)
}

func (api *chatApi) send(ctx echo.Context) error {
	data, err := api.bindMessage(ctx)
	if err != nil {
		return err
	}
	p, err := api.auth.contextProfesor(ctx)
	if err != nil {
		return err
	}

	reply, err := api.svc.Send(ctx.Request().Context(), p.ID, data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusOK, reply)
}

func (api *chatApi) sendPublic(ctx echo.Context) error {
	data, err := api.bindMessage(ctx)
	if err != nil {
		return err
	}

	reply, err := api.svc.SendPublic(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusOK, reply)
}

func (api *chatApi) history(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	p, err := api.auth.contextProfesor(ctx)
	if err != nil {
		return err
	}

	h, err := api.svc.History(ctx.Request().Context(), p.ID, id)
	if err != nil {
		return errors.Wrap(err, "retrieving chat history")
	}
	return ctx.JSON(http.StatusOK, h)
}

func (api *chatApi) clear(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	p, err := api.auth.contextProfesor(ctx)
	if err != nil {
		return err
	}

	nombre, err := api.svc.Clear(ctx.Request().Context(), p.ID, id)
	if err != nil {
		return errors.Wrap(err, "clearing chat")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Conversación con " + nombre + " eliminada exitosamente",
	})
}

func (api *chatApi) welcome(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	w, err := api.svc.Welcome(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "building welcome")
	}
	return ctx.JSON(http.StatusOK, w)
}

func (api *chatApi) recommendations(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	res, err := api.svc.Recommendations(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "generating recommendations")
	}
	return ctx.JSON(http.StatusOK, res)
}
