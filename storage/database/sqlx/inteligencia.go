package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/inteligencia"
)

const inteligenciaColumns = "inteligencia_id, alumno_id, tipo_inteligencia, puntaje"

type inteligenciaRepository struct {
	repository
}

func NewInteligenciaRepository(db *sqlx.DB) *inteligenciaRepository {
	return &inteligenciaRepository{newRepository(db)}
}

func (repo inteligenciaRepository) CreateInteligencia(ctx context.Context, i inteligencia.Inteligencia, exec ...core.DBExecutor) (inteligencia.Inteligencia, error) {
	id, err := repo.insert(ctx, exec,
		"INSERT INTO inteligencias (alumno_id, tipo_inteligencia, puntaje) VALUES (?, ?, ?) RETURNING inteligencia_id",
		i.AlumnoID, i.Tipo, i.Puntaje)
	if err != nil {
		return inteligencia.Inteligencia{}, errors.Wrap(err, "inserting inteligencia")
	}
	i.ID = id
	return i, nil
}

func (repo inteligenciaRepository) QueryInteligencias(ctx context.Context, page core.Page, exec ...core.DBExecutor) ([]inteligencia.Inteligencia, error) {
	limit, offset := pageArgs(page)
	intels := []inteligencia.Inteligencia{}
	err := repo.exec(exec).SelectContext(ctx, &intels, repo.q(
		"SELECT "+inteligenciaColumns+" FROM inteligencias ORDER BY inteligencia_id LIMIT ? OFFSET ?"), limit, offset)
	return intels, errors.Wrap(err, "selecting inteligencias")
}

func (repo inteligenciaRepository) QueryAlumnoInteligencias(ctx context.Context, alumnoIDs []int, exec ...core.DBExecutor) ([]inteligencia.Inteligencia, error) {
	intels := []inteligencia.Inteligencia{}
	if len(alumnoIDs) == 0 {
		return intels, nil
	}
	query, args, err := repo.in(
		"SELECT "+inteligenciaColumns+" FROM inteligencias WHERE alumno_id IN (?) ORDER BY inteligencia_id", alumnoIDs)
	if err != nil {
		return nil, err
	}
	err = repo.exec(exec).SelectContext(ctx, &intels, query, args...)
	return intels, errors.Wrap(err, "selecting alumno inteligencias")
}

func (repo inteligenciaRepository) GetInteligencia(ctx context.Context, id int, exec ...core.DBExecutor) (inteligencia.Inteligencia, error) {
	var i inteligencia.Inteligencia
	err := repo.get(ctx, exec, &i, inteligencia.ErrNotFound,
		"SELECT "+inteligenciaColumns+" FROM inteligencias WHERE inteligencia_id = ?", id)
	return i, err
}

func (repo inteligenciaRepository) UpdateInteligencia(ctx context.Context, i inteligencia.Inteligencia, exec ...core.DBExecutor) (inteligencia.Inteligencia, error) {
	err := repo.update(ctx, exec, inteligencia.ErrNotFound,
		"UPDATE inteligencias SET alumno_id = ?, tipo_inteligencia = ?, puntaje = ? WHERE inteligencia_id = ?",
		i.AlumnoID, i.Tipo, i.Puntaje, i.ID)
	return i, err
}

func (repo inteligenciaRepository) DeleteInteligencia(ctx context.Context, id int, exec ...core.DBExecutor) error {
	return repo.update(ctx, exec, inteligencia.ErrNotFound, "DELETE FROM inteligencias WHERE inteligencia_id = ?", id)
}

func (repo inteligenciaRepository) DeleteAlumnoInteligencias(ctx context.Context, alumnoID int, exec ...core.DBExecutor) (int, error) {
	n, err := repo.execAffected(ctx, exec, "DELETE FROM inteligencias WHERE alumno_id = ?", alumnoID)
	return n, errors.Wrap(err, "deleting alumno inteligencias")
}

func (repo inteligenciaRepository) QueryTipos(ctx context.Context, exec ...core.DBExecutor) ([]string, error) {
	tipos := []string{}
	err := repo.exec(exec).SelectContext(ctx, &tipos,
		"SELECT DISTINCT tipo_inteligencia FROM inteligencias ORDER BY tipo_inteligencia")
	return tipos, errors.Wrap(err, "selecting tipos")
}
