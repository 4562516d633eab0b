package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/curso"
	"github.com/trezcool/tutoria/core/profesor"
)

type (
	LoginRequest struct {
		Username string `json:"username"` // DNI or Nombre
		Password string `json:"password"`
	}

	TokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
)

func (c *Client) Register(ctx context.Context, np profesor.NewProfesor) (profesor.Profesor, error) {
	var p profesor.Profesor
	err := c.send(ctx, http.MethodPost, "/profesores/register", np, &p)
	return p, err
}

// Login authenticates with a DNI (or Nombre) and password; the token is kept for the next requests.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var tok TokenResponse
	if err := c.send(ctx, http.MethodPost, "/profesores/login", LoginRequest{Username: username, Password: password}, &tok); err != nil {
		return "", err
	}
	c.token = tok.AccessToken
	return tok.AccessToken, nil
}

// RefreshToken swaps the current token for a fresh one.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	var tok TokenResponse
	if err := c.send(ctx, http.MethodPost, "/profesores/token-refresh", nil, &tok); err != nil {
		return "", err
	}
	c.token = tok.AccessToken
	return tok.AccessToken, nil
}

func (c *Client) Me(ctx context.Context) (profesor.Profesor, error) {
	var p profesor.Profesor
	err := c.get(ctx, "/profesores/me", &p)
	return p, err
}

func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var res MessageResponse
	err := c.send(ctx, http.MethodPost, "/profesores/password-reset", map[string]string{"email": email}, &res)
	return res.Message, err
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, rp profesor.ResetPassword) (string, error) {
	var res MessageResponse
	err := c.send(ctx, http.MethodPost, "/profesores/password-reset-confirm", rp, &res)
	return res.Message, err
}

func (c *Client) ListProfesores(ctx context.Context, page core.Page) ([]profesor.Profesor, error) {
	var profs []profesor.Profesor
	err := c.get(ctx, "/profesores"+pageQuery(page), &profs)
	return profs, err
}

func (c *Client) GetProfesor(ctx context.Context, id int) (profesor.Profesor, error) {
	var p profesor.Profesor
	err := c.get(ctx, fmt.Sprintf("/profesores/%d", id), &p)
	return p, err
}

func (c *Client) UpdateProfesor(ctx context.Context, id int, up profesor.UpdateProfesor) (profesor.Profesor, error) {
	var p profesor.Profesor
	err := c.send(ctx, http.MethodPut, fmt.Sprintf("/profesores/%d", id), up, &p)
	return p, err
}

func (c *Client) DeleteProfesor(ctx context.Context, id int) (string, error) {
	return c.deleteMessage(ctx, fmt.Sprintf("/profesores/%d", id))
}

func (c *Client) ProfesorCursos(ctx context.Context, id int) ([]curso.Curso, error) {
	var cursos []curso.Curso
	err := c.get(ctx, fmt.Sprintf("/profesores/%d/cursos", id), &cursos)
	return cursos, err
}

func (c *Client) AsignarCurso(ctx context.Context, id, cursoID int) (string, error) {
	var res MessageResponse
	err := c.send(ctx, http.MethodPost, fmt.Sprintf("/profesores/%d/cursos/%d", id, cursoID), nil, &res)
	return res.Message, err
}

func (c *Client) DesasignarCurso(ctx context.Context, id, cursoID int) (string, error) {
	return c.deleteMessage(ctx, fmt.Sprintf("/profesores/%d/cursos/%d", id, cursoID))
}

func (c *Client) CursosDisponibles(ctx context.Context) ([]curso.Curso, error) {
	var cursos []curso.Curso
	err := c.get(ctx, "/profesores/cursos/disponibles", &cursos)
	return cursos, err
}

func (c *Client) ProfesorStats(ctx context.Context, id int) (profesor.Stats, error) {
	var st profesor.Stats
	err := c.get(ctx, fmt.Sprintf("/profesores/%d/estadisticas", id), &st)
	return st, err
}
