package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
)

func (c *Client) ListAlumnos(ctx context.Context, page core.Page) ([]alumno.View, error) {
	var alumnos []alumno.View
	err := c.get(ctx, "/alumnos"+pageQuery(page), &alumnos)
	return alumnos, err
}

func (c *Client) GetAlumno(ctx context.Context, id int) (alumno.View, error) {
	var a alumno.View
	err := c.get(ctx, fmt.Sprintf("/alumnos/%d", id), &a)
	return a, err
}

func (c *Client) CreateAlumno(ctx context.Context, na alumno.NewAlumno) (alumno.View, error) {
	var a alumno.View
	err := c.send(ctx, http.MethodPost, "/alumnos", na, &a)
	return a, err
}

func (c *Client) UpdateAlumno(ctx context.Context, id int, ua alumno.UpdateAlumno) (alumno.View, error) {
	var a alumno.View
	err := c.send(ctx, http.MethodPut, fmt.Sprintf("/alumnos/%d", id), ua, &a)
	return a, err
}

func (c *Client) DeleteAlumno(ctx context.Context, id int) (string, error) {
	return c.deleteMessage(ctx, fmt.Sprintf("/alumnos/%d", id))
}

func (c *Client) AlumnoNombres(ctx context.Context) ([]alumno.Nombre, error) {
	var nombres []alumno.Nombre
	err := c.get(ctx, "/alumnos/nombres", &nombres)
	return nombres, err
}

func (c *Client) Calificaciones(ctx context.Context, id int) ([]alumno.Calificacion, error) {
	var califs []alumno.Calificacion
	err := c.get(ctx, fmt.Sprintf("/alumnos/%d/calificaciones", id), &califs)
	return califs, err
}

func (c *Client) Calificar(ctx context.Context, id int, sc alumno.SetCalificacion) (alumno.Calificacion, error) {
	var calif alumno.Calificacion
	err := c.send(ctx, http.MethodPost, fmt.Sprintf("/alumnos/%d/calificaciones", id), sc, &calif)
	return calif, err
}
