package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/chat"
)

type conversacionRow struct {
	ID             int       `db:"conversacion_id"`
	AlumnoID       int       `db:"alumno_id"`
	ProfesorID     int       `db:"profesor_id"`
	Mensaje        string    `db:"mensaje"`
	EsUsuario      bool      `db:"es_usuario"`
	FechaCreacion  time.Time `db:"fecha_creacion"`
	ContextoAlumno string    `db:"contexto_alumno"`
}

type chatRepository struct {
	repository
}

func NewChatRepository(db *sqlx.DB) *chatRepository {
	return &chatRepository{newRepository(db)}
}

func (repo chatRepository) CreateConversacion(ctx context.Context, c chat.Conversacion, exec ...core.DBExecutor) (chat.Conversacion, error) {
	if c.FechaCreacion.IsZero() {
		c.FechaCreacion = time.Now()
	}
	c.FechaCreacion = c.FechaCreacion.UTC()
	id, err := repo.insert(ctx, exec,
		`INSERT INTO conversaciones_ia (alumno_id, profesor_id, mensaje, es_usuario, fecha_creacion, contexto_alumno)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING conversacion_id`,
		c.AlumnoID, c.ProfesorID, c.Mensaje, c.EsUsuario, c.FechaCreacion, c.ContextoAlumno)
	if err != nil {
		return chat.Conversacion{}, errors.Wrap(err, "inserting conversacion")
	}
	c.ID = id
	return c, nil
}

func (repo chatRepository) QueryConversaciones(ctx context.Context, alumnoID, profesorID int, exec ...core.DBExecutor) ([]chat.Conversacion, error) {
	var rows []conversacionRow
	err := repo.exec(exec).SelectContext(ctx, &rows, repo.q(
		`SELECT conversacion_id, alumno_id, profesor_id, mensaje, es_usuario, fecha_creacion, contexto_alumno
		FROM conversaciones_ia WHERE alumno_id = ? AND profesor_id = ?
		ORDER BY fecha_creacion, conversacion_id`), alumnoID, profesorID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting conversaciones")
	}
	convs := make([]chat.Conversacion, 0, len(rows))
	for _, r := range rows {
		r.FechaCreacion = r.FechaCreacion.UTC()
		convs = append(convs, chat.Conversacion(r))
	}
	return convs, nil
}

func (repo chatRepository) DeleteConversaciones(ctx context.Context, alumnoID, profesorID int, exec ...core.DBExecutor) (int, error) {
	n, err := repo.execAffected(ctx, exec,
		"DELETE FROM conversaciones_ia WHERE alumno_id = ? AND profesor_id = ?", alumnoID, profesorID)
	return n, errors.Wrap(err, "deleting conversaciones")
}
