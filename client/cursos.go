package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/competencia"
	"github.com/trezcool/tutoria/core/curso"
)

func (c *Client) ListCursos(ctx context.Context, page core.Page) ([]curso.Curso, error) {
	var cursos []curso.Curso
	err := c.get(ctx, "/cursos"+pageQuery(page), &cursos)
	return cursos, err
}

func (c *Client) GetCurso(ctx context.Context, id int) (curso.Curso, error) {
	var cur curso.Curso
	err := c.get(ctx, fmt.Sprintf("/cursos/%d", id), &cur)
	return cur, err
}

func (c *Client) CreateCurso(ctx context.Context, nc curso.NewCurso) (curso.Curso, error) {
	var cur curso.Curso
	err := c.send(ctx, http.MethodPost, "/cursos", nc, &cur)
	return cur, err
}

func (c *Client) UpdateCurso(ctx context.Context, id int, uc curso.UpdateCurso) (curso.Curso, error) {
	var cur curso.Curso
	err := c.send(ctx, http.MethodPut, fmt.Sprintf("/cursos/%d", id), uc, &cur)
	return cur, err
}

func (c *Client) DeleteCurso(ctx context.Context, id int) (string, error) {
	return c.deleteMessage(ctx, fmt.Sprintf("/cursos/%d", id))
}

func (c *Client) ListCompetencias(ctx context.Context, page core.Page) ([]competencia.View, error) {
	var comps []competencia.View
	err := c.get(ctx, "/competencias"+pageQuery(page), &comps)
	return comps, err
}

func (c *Client) GetCompetencia(ctx context.Context, id int) (competencia.View, error) {
	var comp competencia.View
	err := c.get(ctx, fmt.Sprintf("/competencias/%d", id), &comp)
	return comp, err
}

func (c *Client) CreateCompetencia(ctx context.Context, nc competencia.NewCompetencia) (competencia.View, error) {
	var comp competencia.View
	err := c.send(ctx, http.MethodPost, "/competencias", nc, &comp)
	return comp, err
}

func (c *Client) UpdateCompetencia(ctx context.Context, id int, uc competencia.UpdateCompetencia) (competencia.View, error) {
	var comp competencia.View
	err := c.send(ctx, http.MethodPut, fmt.Sprintf("/competencias/%d", id), uc, &comp)
	return comp, err
}

func (c *Client) DeleteCompetencia(ctx context.Context, id int) (string, error) {
	return c.deleteMessage(ctx, fmt.Sprintf("/competencias/%d", id))
}
