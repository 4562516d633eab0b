package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/curso"
)

const cursoColumns = "curso_id, nombre"

type cursoRepository struct {
	repository
}

func NewCursoRepository(db *sqlx.DB) *cursoRepository {
	return &cursoRepository{newRepository(db)}
}

func (repo cursoRepository) CreateCurso(ctx context.Context, c curso.Curso, exec ...core.DBExecutor) (curso.Curso, error) {
	id, err := repo.insert(ctx, exec, "INSERT INTO cursos (nombre) VALUES (?) RETURNING curso_id", c.Nombre)
	if err != nil {
		return curso.Curso{}, errors.Wrap(err, "inserting curso")
	}
	c.ID = id
	return c, nil
}

func (repo cursoRepository) QueryCursos(ctx context.Context, page core.Page, exec ...core.DBExecutor) ([]curso.Curso, error) {
	limit, offset := pageArgs(page)
	cursos := []curso.Curso{}
	err := repo.exec(exec).SelectContext(ctx, &cursos,
		repo.q("SELECT "+cursoColumns+" FROM cursos ORDER BY curso_id LIMIT ? OFFSET ?"), limit, offset)
	return cursos, errors.Wrap(err, "selecting cursos")
}

func (repo cursoRepository) GetCurso(ctx context.Context, id int, exec ...core.DBExecutor) (curso.Curso, error) {
	var c curso.Curso
	err := repo.get(ctx, exec, &c, curso.ErrNotFound, "SELECT "+cursoColumns+" FROM cursos WHERE curso_id = ?", id)
	return c, err
}

func (repo cursoRepository) GetCursoByNombre(ctx context.Context, nombre string, exec ...core.DBExecutor) (curso.Curso, error) {
	var c curso.Curso
	err := repo.get(ctx, exec, &c, curso.ErrNotFound, "SELECT "+cursoColumns+" FROM cursos WHERE nombre = ?", nombre)
	return c, err
}

func (repo cursoRepository) UpdateCurso(ctx context.Context, c curso.Curso, exec ...core.DBExecutor) (curso.Curso, error) {
	err := repo.update(ctx, exec, curso.ErrNotFound, "UPDATE cursos SET nombre = ? WHERE curso_id = ?", c.Nombre, c.ID)
	return c, err
}

func (repo cursoRepository) DeleteCurso(ctx context.Context, id int, exec ...core.DBExecutor) error {
	return repo.update(ctx, exec, curso.ErrNotFound, "DELETE FROM cursos WHERE curso_id = ?", id)
}
