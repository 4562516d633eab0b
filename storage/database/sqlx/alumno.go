package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
)

const alumnoColumns = `alumno_id, nombre, promedio_calificaciones, cantidad_competencias,
	ci, ci_fecha_test, ci_tipo_test, ci_observaciones,
	cluster_kmeans, cluster_dbscan, recomendaciones_basicas`

type alumnoRow struct {
	ID                     int         `db:"alumno_id"`
	Nombre                 string      `db:"nombre"`
	PromedioCalificaciones float64     `db:"promedio_calificaciones"`
	CantidadCompetencias   int         `db:"cantidad_competencias"`
	CI                     null.Int    `db:"ci"`
	FechaTest              null.String `db:"ci_fecha_test"`
	TipoTest               null.String `db:"ci_tipo_test"`
	Observaciones          null.String `db:"ci_observaciones"`
	ClusterKMeans          null.Int    `db:"cluster_kmeans"`
	ClusterDBSCAN          null.Int    `db:"cluster_dbscan"`
	RecomendacionesBasicas string      `db:"recomendaciones_basicas"`
}

func newAlumnoRow(a alumno.Alumno) alumnoRow {
	return alumnoRow{
		ID:                     a.ID,
		Nombre:                 a.Nombre,
		PromedioCalificaciones: a.PromedioCalificaciones,
		CantidadCompetencias:   a.CantidadCompetencias,
		CI:                     null.IntFromPtr(a.CI),
		FechaTest:              null.StringFromPtr(a.CIDetails.FechaTest),
		TipoTest:               null.StringFromPtr(a.CIDetails.TipoTest),
		Observaciones:          null.StringFromPtr(a.CIDetails.Observaciones),
		ClusterKMeans:          null.IntFromPtr(a.ClusterKMeans),
		ClusterDBSCAN:          null.IntFromPtr(a.ClusterDBSCAN),
		RecomendacionesBasicas: a.RecomendacionesBasicas,
	}
}

func (r alumnoRow) alumno() alumno.Alumno {
	return alumno.Alumno{
		ID:                     r.ID,
		Nombre:                 r.Nombre,
		PromedioCalificaciones: r.PromedioCalificaciones,
		CantidadCompetencias:   r.CantidadCompetencias,
		CI:                     r.CI.Ptr(),
		CIDetails: alumno.CIDetails{
			FechaTest:     r.FechaTest.Ptr(),
			TipoTest:      r.TipoTest.Ptr(),
			Observaciones: r.Observaciones.Ptr(),
		},
		ClusterKMeans:          r.ClusterKMeans.Ptr(),
		ClusterDBSCAN:          r.ClusterDBSCAN.Ptr(),
		RecomendacionesBasicas: r.RecomendacionesBasicas,
	}
}

func alumnos(rows []alumnoRow) []alumno.Alumno {
	out := make([]alumno.Alumno, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.alumno())
	}
	return out
}

type calificacionRow struct {
	ID            int    `db:"alumno_competencia_id"`
	AlumnoID      int    `db:"alumno_id"`
	CompetenciaID int    `db:"competencia_plantilla_id"`
	Competencia   string `db:"codigo_competencia"`
	Descripcion   string `db:"descripcion"`
	CursoID       int    `db:"curso_id"`
	Curso         string `db:"curso"`
	Calificacion  string `db:"calificacion"`
	Conclusion    string `db:"conclusion_descriptiva"`
}

// alumnoRepository also backs the IQ records, which are stored on the alumnos table.
type alumnoRepository struct {
	repository
}

func NewAlumnoRepository(db *sqlx.DB) *alumnoRepository {
	return &alumnoRepository{newRepository(db)}
}

func (repo alumnoRepository) selectAlumnos(ctx context.Context, exec []core.DBExecutor, query string, args ...interface{}) ([]alumno.Alumno, error) {
	var rows []alumnoRow
	if err := repo.exec(exec).SelectContext(ctx, &rows, repo.q(query), args...); err != nil {
		return nil, errors.Wrap(err, "selecting alumnos")
	}
	return alumnos(rows), nil
}

func (repo alumnoRepository) getAlumno(ctx context.Context, exec []core.DBExecutor, query string, args ...interface{}) (alumno.Alumno, error) {
	var row alumnoRow
	if err := repo.get(ctx, exec, &row, alumno.ErrNotFound, query, args...); err != nil {
		return alumno.Alumno{}, err
	}
	return row.alumno(), nil
}

func (repo alumnoRepository) CreateAlumno(ctx context.Context, a alumno.Alumno, exec ...core.DBExecutor) (alumno.Alumno, error) {
	r := newAlumnoRow(a)
	id, err := repo.insert(ctx, exec,
		`INSERT INTO alumnos (nombre, promedio_calificaciones, cantidad_competencias,
			ci, ci_fecha_test, ci_tipo_test, ci_observaciones,
			cluster_kmeans, cluster_dbscan, recomendaciones_basicas)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING alumno_id`,
		r.Nombre, r.PromedioCalificaciones, r.CantidadCompetencias,
		r.CI, r.FechaTest, r.TipoTest, r.Observaciones,
		r.ClusterKMeans, r.ClusterDBSCAN, r.RecomendacionesBasicas)
	if err != nil {
		return alumno.Alumno{}, errors.Wrap(err, "inserting alumno")
	}
	a.ID = id
	return a, nil
}

func (repo alumnoRepository) QueryAlumnos(ctx context.Context, page core.Page, exec ...core.DBExecutor) ([]alumno.Alumno, error) {
	limit, offset := pageArgs(page)
	return repo.selectAlumnos(ctx, exec,
		"SELECT "+alumnoColumns+" FROM alumnos ORDER BY alumno_id LIMIT ? OFFSET ?", limit, offset)
}

func (repo alumnoRepository) QueryAllAlumnos(ctx context.Context, exec ...core.DBExecutor) ([]alumno.Alumno, error) {
	return repo.selectAlumnos(ctx, exec, "SELECT "+alumnoColumns+" FROM alumnos ORDER BY alumno_id")
}

func (repo alumnoRepository) GetAlumno(ctx context.Context, id int, exec ...core.DBExecutor) (alumno.Alumno, error) {
	return repo.getAlumno(ctx, exec, "SELECT "+alumnoColumns+" FROM alumnos WHERE alumno_id = ?", id)
}

func (repo alumnoRepository) GetAlumnoByNombre(ctx context.Context, nombre string, exec ...core.DBExecutor) (alumno.Alumno, error) {
	return repo.getAlumno(ctx, exec,
		"SELECT "+alumnoColumns+" FROM alumnos WHERE nombre = ? ORDER BY alumno_id LIMIT 1", nombre)
}

func (repo alumnoRepository) AlumnoNombre(ctx context.Context, id int, exec ...core.DBExecutor) (string, error) {
	var nombre string
	err := repo.get(ctx, exec, &nombre, alumno.ErrNotFound, "SELECT nombre FROM alumnos WHERE alumno_id = ?", id)
	return nombre, err
}

func (repo alumnoRepository) QueryNombres(ctx context.Context, exec ...core.DBExecutor) ([]alumno.Nombre, error) {
	nombres := []alumno.Nombre{}
	err := repo.exec(exec).SelectContext(ctx, &nombres, "SELECT alumno_id, nombre FROM alumnos ORDER BY alumno_id")
	return nombres, errors.Wrap(err, "selecting nombres")
}

func (repo alumnoRepository) UpdateAlumno(ctx context.Context, a alumno.Alumno, exec ...core.DBExecutor) (alumno.Alumno, error) {
	r := newAlumnoRow(a)
	err := repo.update(ctx, exec, alumno.ErrNotFound,
		`UPDATE alumnos SET nombre = ?, promedio_calificaciones = ?, cantidad_competencias = ?,
			ci = ?, ci_fecha_test = ?, ci_tipo_test = ?, ci_observaciones = ?,
			cluster_kmeans = ?, cluster_dbscan = ?, recomendaciones_basicas = ?
		WHERE alumno_id = ?`,
		r.Nombre, r.PromedioCalificaciones, r.CantidadCompetencias,
		r.CI, r.FechaTest, r.TipoTest, r.Observaciones,
		r.ClusterKMeans, r.ClusterDBSCAN, r.RecomendacionesBasicas, r.ID)
	return a, err
}

// DeleteAlumno relies on ON DELETE CASCADE for grades, inteligencias and conversations.
func (repo alumnoRepository) DeleteAlumno(ctx context.Context, id int, exec ...core.DBExecutor) error {
	return repo.update(ctx, exec, alumno.ErrNotFound, "DELETE FROM alumnos WHERE alumno_id = ?", id)
}

func (repo alumnoRepository) QueryCalificaciones(ctx context.Context, alumnoIDs []int, exec ...core.DBExecutor) ([]alumno.Calificacion, error) {
	query := `SELECT ac.alumno_competencia_id, ac.alumno_id, ac.competencia_plantilla_id,
			cp.codigo_competencia, cp.descripcion, cp.curso_id, c.nombre AS curso,
			ac.calificacion, ac.conclusion_descriptiva
		FROM alumno_competencia ac
		JOIN competencia_plantilla cp ON cp.competencia_plantilla_id = ac.competencia_plantilla_id
		JOIN cursos c ON c.curso_id = cp.curso_id`
	var args []interface{}
	if len(alumnoIDs) > 0 {
		query += " WHERE ac.alumno_id IN (?)"
		args = append(args, alumnoIDs)
	}
	query += " ORDER BY ac.alumno_competencia_id"

	query, args, err := repo.in(query, args...)
	if err != nil {
		return nil, err
	}
	var rows []calificacionRow
	if err = repo.exec(exec).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting calificaciones")
	}

	califs := make([]alumno.Calificacion, 0, len(rows))
	for _, r := range rows {
		califs = append(califs, alumno.Calificacion(r))
	}
	return califs, nil
}

func (repo alumnoRepository) UpsertCalificacion(ctx context.Context, c alumno.Calificacion, exec ...core.DBExecutor) error {
	_, err := repo.exec(exec).ExecContext(ctx, repo.q(
		`INSERT INTO alumno_competencia (alumno_id, competencia_plantilla_id, calificacion, conclusion_descriptiva)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (alumno_id, competencia_plantilla_id)
		DO UPDATE SET calificacion = excluded.calificacion, conclusion_descriptiva = excluded.conclusion_descriptiva`),
		c.AlumnoID, c.CompetenciaID, c.Calificacion, c.Conclusion)
	return errors.Wrap(err, "upserting calificacion")
}

func (repo alumnoRepository) DeleteCalificaciones(ctx context.Context, alumnoID int, exec ...core.DBExecutor) error {
	_, err := repo.execAffected(ctx, exec, "DELETE FROM alumno_competencia WHERE alumno_id = ?", alumnoID)
	return errors.Wrap(err, "deleting calificaciones")
}

func (repo alumnoRepository) QueryAlumnosWithCI(ctx context.Context, page core.Page, exec ...core.DBExecutor) ([]alumno.Alumno, error) {
	limit, offset := pageArgs(page)
	return repo.selectAlumnos(ctx, exec,
		"SELECT "+alumnoColumns+" FROM alumnos WHERE ci IS NOT NULL ORDER BY alumno_id LIMIT ? OFFSET ?", limit, offset)
}

func (repo alumnoRepository) QueryAlumnosByCI(ctx context.Context, min, max int, exec ...core.DBExecutor) ([]alumno.Alumno, error) {
	return repo.selectAlumnos(ctx, exec,
		"SELECT "+alumnoColumns+" FROM alumnos WHERE ci BETWEEN ? AND ? ORDER BY alumno_id", min, max)
}

func (repo alumnoRepository) QueryCIValues(ctx context.Context, exec ...core.DBExecutor) ([]int, error) {
	values := []int{}
	err := repo.exec(exec).SelectContext(ctx, &values, "SELECT ci FROM alumnos WHERE ci IS NOT NULL ORDER BY ci")
	return values, errors.Wrap(err, "selecting CI values")
}
