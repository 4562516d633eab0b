package inteligencia

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
)

var ErrNotFound = core.NewNotFoundError("Inteligencia no encontrada")

type (
	Repository interface {
		CreateInteligencia(ctx context.Context, i Inteligencia, exec ...core.DBExecutor) (Inteligencia, error)
		QueryInteligencias(ctx context.Context, page core.Page, exec ...core.DBExecutor) ([]Inteligencia, error)
		// QueryAlumnoInteligencias returns the inteligencias of the given alumnos, ordered by ID.
		QueryAlumnoInteligencias(ctx context.Context, alumnoIDs []int, exec ...core.DBExecutor) ([]Inteligencia, error)
		GetInteligencia(ctx context.Context, id int, exec ...core.DBExecutor) (Inteligencia, error)
		UpdateInteligencia(ctx context.Context, i Inteligencia, exec ...core.DBExecutor) (Inteligencia, error)
		DeleteInteligencia(ctx context.Context, id int, exec ...core.DBExecutor) error
		// DeleteAlumnoInteligencias returns the number of deleted rows.
		DeleteAlumnoInteligencias(ctx context.Context, alumnoID int, exec ...core.DBExecutor) (int, error)
		QueryTipos(ctx context.Context, exec ...core.DBExecutor) ([]string, error)
	}

	// AlumnoLookup resolves the name of an alumno, failing when it does not exist.
	AlumnoLookup interface {
		AlumnoNombre(ctx context.Context, id int, exec ...core.DBExecutor) (string, error)
	}
)

type Service struct {
	repo    Repository
	alumnos AlumnoLookup
}

func NewService(repo Repository, alumnos AlumnoLookup) *Service {
	return &Service{repo: repo, alumnos: alumnos}
}

func (svc *Service) Create(ctx context.Context, ni NewInteligencia) (Inteligencia, error) {
	if _, err := svc.alumnos.AlumnoNombre(ctx, ni.AlumnoID); err != nil {
		return Inteligencia{}, errors.Wrap(err, "finding alumno")
	}
	return svc.repo.CreateInteligencia(ctx, Inteligencia{
		AlumnoID: ni.AlumnoID,
		Tipo:     ni.Tipo,
		Puntaje:  *ni.Puntaje,
	})
}

func (svc *Service) Query(ctx context.Context, page core.Page) ([]Inteligencia, error) {
	return svc.repo.QueryInteligencias(ctx, page.Clean())
}

func (svc *Service) QueryByAlumno(ctx context.Context, alumnoID int) ([]Inteligencia, error) {
	if _, err := svc.alumnos.AlumnoNombre(ctx, alumnoID); err != nil {
		return nil, errors.Wrap(err, "finding alumno")
	}
	return svc.repo.QueryAlumnoInteligencias(ctx, []int{alumnoID})
}

func (svc *Service) Get(ctx context.Context, id int) (Inteligencia, error) {
	return svc.repo.GetInteligencia(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, ui UpdateInteligencia) (Inteligencia, error) {
	i, err := svc.repo.GetInteligencia(ctx, id)
	if err != nil {
		return Inteligencia{}, err
	}
	if ui.AlumnoID != nil && *ui.AlumnoID != i.AlumnoID {
		if _, err := svc.alumnos.AlumnoNombre(ctx, *ui.AlumnoID); err != nil {
			return Inteligencia{}, errors.Wrap(err, "finding alumno")
		}
		i.AlumnoID = *ui.AlumnoID
	}
	if ui.Tipo != nil {
		i.Tipo = *ui.Tipo
	}
	if ui.Puntaje != nil {
		i.Puntaje = *ui.Puntaje
	}
	return svc.repo.UpdateInteligencia(ctx, i)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetInteligencia(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteInteligencia(ctx, id)
}

func (svc *Service) DeleteByAlumno(ctx context.Context, alumnoID int) (int, error) {
	if _, err := svc.alumnos.AlumnoNombre(ctx, alumnoID); err != nil {
		return 0, errors.Wrap(err, "finding alumno")
	}
	return svc.repo.DeleteAlumnoInteligencias(ctx, alumnoID)
}

func (svc *Service) Tipos(ctx context.Context) ([]string, error) {
	return svc.repo.QueryTipos(ctx)
}

// Stats returns false when the alumno has no inteligencias recorded.
func (svc *Service) Stats(ctx context.Context, alumnoID int) (Stats, bool, error) {
	nombre, err := svc.alumnos.AlumnoNombre(ctx, alumnoID)
	if err != nil {
		return Stats{}, false, errors.Wrap(err, "finding alumno")
	}
	intels, err := svc.repo.QueryAlumnoInteligencias(ctx, []int{alumnoID})
	if err != nil {
		return Stats{}, false, errors.Wrap(err, "querying inteligencias")
	}
	st, ok := ComputeStats(alumnoID, nombre, intels)
	return st, ok, nil
}
