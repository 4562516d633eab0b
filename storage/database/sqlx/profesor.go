package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/curso"
	"github.com/trezcool/tutoria/core/profesor"
)

const profesorColumns = "profesor_id, nombre, dni, email, contrasena_hash, last_login"

type profesorRow struct {
	ID           int         `db:"profesor_id"`
	Nombre       string      `db:"nombre"`
	DNI          string      `db:"dni"`
	Email        null.String `db:"email"`
	PasswordHash []byte      `db:"contrasena_hash"`
	LastLogin    null.Time   `db:"last_login"`
}

func newProfesorRow(p profesor.Profesor) profesorRow {
	r := profesorRow{
		ID:           p.ID,
		Nombre:       p.Nombre,
		DNI:          p.DNI,
		Email:        null.NewString(p.Email, p.Email != ""),
		PasswordHash: p.PasswordHash,
	}
	if !p.LastLogin.IsZero() {
		r.LastLogin = null.TimeFrom(p.LastLogin.UTC())
	}
	return r
}

func (r profesorRow) profesor() profesor.Profesor {
	p := profesor.Profesor{
		ID:           r.ID,
		Nombre:       r.Nombre,
		DNI:          r.DNI,
		Email:        r.Email.String,
		PasswordHash: r.PasswordHash,
	}
	if r.LastLogin.Valid {
		p.LastLogin = r.LastLogin.Time.UTC()
	}
	return p
}

type profesorRepository struct {
	repository
}

func NewProfesorRepository(db *sqlx.DB) *profesorRepository {
	return &profesorRepository{newRepository(db)}
}

func (repo profesorRepository) getProfesor(ctx context.Context, exec []core.DBExecutor, query string, args ...interface{}) (profesor.Profesor, error) {
	var row profesorRow
	if err := repo.get(ctx, exec, &row, profesor.ErrNotFound, query, args...); err != nil {
		return profesor.Profesor{}, err
	}
	return row.profesor(), nil
}

func (repo profesorRepository) CreateProfesor(ctx context.Context, p profesor.Profesor, exec ...core.DBExecutor) (profesor.Profesor, error) {
	r := newProfesorRow(p)
	id, err := repo.insert(ctx, exec,
		`INSERT INTO profesores (nombre, dni, email, contrasena_hash, last_login)
		VALUES (?, ?, ?, ?, ?) RETURNING profesor_id`,
		r.Nombre, r.DNI, r.Email, r.PasswordHash, r.LastLogin)
	if err != nil {
		return profesor.Profesor{}, errors.Wrap(err, "inserting profesor")
	}
	p.ID = id
	return p, nil
}

func (repo profesorRepository) QueryProfesores(ctx context.Context, page core.Page, exec ...core.DBExecutor) ([]profesor.Profesor, error) {
	limit, offset := pageArgs(page)
	var rows []profesorRow
	err := repo.exec(exec).SelectContext(ctx, &rows, repo.q(
		"SELECT "+profesorColumns+" FROM profesores ORDER BY profesor_id LIMIT ? OFFSET ?"), limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "selecting profesores")
	}
	profs := make([]profesor.Profesor, 0, len(rows))
	for _, r := range rows {
		profs = append(profs, r.profesor())
	}
	return profs, nil
}

func (repo profesorRepository) GetProfesor(ctx context.Context, id int, exec ...core.DBExecutor) (profesor.Profesor, error) {
	return repo.getProfesor(ctx, exec, "SELECT "+profesorColumns+" FROM profesores WHERE profesor_id = ?", id)
}

func (repo profesorRepository) GetProfesorByDNI(ctx context.Context, dni string, exec ...core.DBExecutor) (profesor.Profesor, error) {
	return repo.getProfesor(ctx, exec, "SELECT "+profesorColumns+" FROM profesores WHERE dni = ?", dni)
}

func (repo profesorRepository) GetProfesorByDNIOrNombre(ctx context.Context, identifier string, exec ...core.DBExecutor) (profesor.Profesor, error) {
	return repo.getProfesor(ctx, exec,
		`SELECT `+profesorColumns+` FROM profesores WHERE dni = ? OR nombre = ?
		ORDER BY CASE WHEN dni = ? THEN 0 ELSE 1 END, profesor_id LIMIT 1`,
		identifier, identifier, identifier)
}

func (repo profesorRepository) GetProfesorByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (profesor.Profesor, error) {
	return repo.getProfesor(ctx, exec,
		"SELECT "+profesorColumns+" FROM profesores WHERE LOWER(email) = LOWER(?) ORDER BY profesor_id LIMIT 1", email)
}

func (repo profesorRepository) UpdateProfesor(ctx context.Context, p profesor.Profesor, exec ...core.DBExecutor) (profesor.Profesor, error) {
	r := newProfesorRow(p)
	err := repo.update(ctx, exec, profesor.ErrNotFound,
		`UPDATE profesores SET nombre = ?, dni = ?, email = ?, contrasena_hash = ?, last_login = ?
		WHERE profesor_id = ?`,
		r.Nombre, r.DNI, r.Email, r.PasswordHash, r.LastLogin, r.ID)
	return p, err
}

func (repo profesorRepository) SetLastLogin(ctx context.Context, id int, at time.Time, exec ...core.DBExecutor) error {
	return repo.update(ctx, exec, profesor.ErrNotFound,
		"UPDATE profesores SET last_login = ? WHERE profesor_id = ?", at.UTC(), id)
}

func (repo profesorRepository) DeleteProfesor(ctx context.Context, id int, exec ...core.DBExecutor) error {
	return repo.update(ctx, exec, profesor.ErrNotFound, "DELETE FROM profesores WHERE profesor_id = ?", id)
}

func (repo profesorRepository) QueryProfesorCursos(ctx context.Context, profesorID int, exec ...core.DBExecutor) ([]curso.Curso, error) {
	cursos := []curso.Curso{}
	err := repo.exec(exec).SelectContext(ctx, &cursos, repo.q(
		`SELECT c.curso_id, c.nombre FROM cursos c
		JOIN profesor_curso pc ON pc.curso_id = c.curso_id
		WHERE pc.profesor_id = ? ORDER BY c.curso_id`), profesorID)
	return cursos, errors.Wrap(err, "selecting profesor cursos")
}

func (repo profesorRepository) AssignCurso(ctx context.Context, profesorID, cursoID int, exec ...core.DBExecutor) (bool, error) {
	n, err := repo.execAffected(ctx, exec,
		"INSERT INTO profesor_curso (profesor_id, curso_id) VALUES (?, ?) ON CONFLICT DO NOTHING", profesorID, cursoID)
	if err != nil {
		return false, errors.Wrap(err, "assigning curso")
	}
	return n > 0, nil
}

func (repo profesorRepository) UnassignCurso(ctx context.Context, profesorID, cursoID int, exec ...core.DBExecutor) (bool, error) {
	n, err := repo.execAffected(ctx, exec,
		"DELETE FROM profesor_curso WHERE profesor_id = ? AND curso_id = ?", profesorID, cursoID)
	if err != nil {
		return false, errors.Wrap(err, "unassigning curso")
	}
	return n > 0, nil
}

func (repo profesorRepository) QueryCursosDisponibles(ctx context.Context, exec ...core.DBExecutor) ([]curso.Curso, error) {
	cursos := []curso.Curso{}
	err := repo.exec(exec).SelectContext(ctx, &cursos,
		`SELECT curso_id, nombre FROM cursos
		WHERE curso_id NOT IN (SELECT curso_id FROM profesor_curso) ORDER BY curso_id`)
	return cursos, errors.Wrap(err, "selecting available cursos")
}

func (repo profesorRepository) QueryProfesorGrades(ctx context.Context, profesorID int, exec ...core.DBExecutor) ([]profesor.Grade, error) {
	grades := []profesor.Grade{}
	err := repo.exec(exec).SelectContext(ctx, &grades, repo.q(
		`SELECT ac.alumno_id, ac.calificacion FROM alumno_competencia ac
		JOIN competencia_plantilla cp ON cp.competencia_plantilla_id = ac.competencia_plantilla_id
		JOIN profesor_curso pc ON pc.curso_id = cp.curso_id
		WHERE pc.profesor_id = ? ORDER BY ac.alumno_competencia_id`), profesorID)
	return grades, errors.Wrap(err, "selecting profesor grades")
}
