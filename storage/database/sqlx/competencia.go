package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/competencia"
)

const competenciaColumns = "competencia_plantilla_id, curso_id, codigo_competencia, descripcion"

type competenciaRepository struct {
	repository
}

func NewCompetenciaRepository(db *sqlx.DB) *competenciaRepository {
	return &competenciaRepository{newRepository(db)}
}

func (repo competenciaRepository) CreateCompetencia(ctx context.Context, c competencia.Competencia, exec ...core.DBExecutor) (competencia.Competencia, error) {
	id, err := repo.insert(ctx, exec,
		`INSERT INTO competencia_plantilla (curso_id, codigo_competencia, descripcion)
		VALUES (?, ?, ?) RETURNING competencia_plantilla_id`,
		c.CursoID, c.Codigo, c.Descripcion)
	if err != nil {
		return competencia.Competencia{}, errors.Wrap(err, "inserting competencia")
	}
	c.ID = id
	return c, nil
}

func (repo competenciaRepository) QueryCompetencias(ctx context.Context, page core.Page, exec ...core.DBExecutor) ([]competencia.Competencia, error) {
	limit, offset := pageArgs(page)
	comps := []competencia.Competencia{}
	err := repo.exec(exec).SelectContext(ctx, &comps, repo.q(
		"SELECT "+competenciaColumns+" FROM competencia_plantilla ORDER BY competencia_plantilla_id LIMIT ? OFFSET ?"),
		limit, offset)
	return comps, errors.Wrap(err, "selecting competencias")
}

func (repo competenciaRepository) GetCompetencia(ctx context.Context, id int, exec ...core.DBExecutor) (competencia.Competencia, error) {
	var c competencia.Competencia
	err := repo.get(ctx, exec, &c, competencia.ErrNotFound,
		"SELECT "+competenciaColumns+" FROM competencia_plantilla WHERE competencia_plantilla_id = ?", id)
	return c, err
}

func (repo competenciaRepository) GetCompetenciaByCodigo(ctx context.Context, codigo string, exec ...core.DBExecutor) (competencia.Competencia, error) {
	var c competencia.Competencia
	err := repo.get(ctx, exec, &c, competencia.ErrNotFound,
		"SELECT "+competenciaColumns+" FROM competencia_plantilla WHERE codigo_competencia = ? ORDER BY competencia_plantilla_id LIMIT 1",
		codigo)
	return c, err
}

func (repo competenciaRepository) UpdateCompetencia(ctx context.Context, c competencia.Competencia, exec ...core.DBExecutor) (competencia.Competencia, error) {
	err := repo.update(ctx, exec, competencia.ErrNotFound,
		`UPDATE competencia_plantilla SET curso_id = ?, codigo_competencia = ?, descripcion = ?
		WHERE competencia_plantilla_id = ?`,
		c.CursoID, c.Codigo, c.Descripcion, c.ID)
	return c, err
}

func (repo competenciaRepository) DeleteCompetencia(ctx context.Context, id int, exec ...core.DBExecutor) error {
	return repo.update(ctx, exec, competencia.ErrNotFound,
		"DELETE FROM competencia_plantilla WHERE competencia_plantilla_id = ?", id)
}
