package curso

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
)

var (
	ErrNotFound    = core.NewNotFoundError("Curso no encontrado")
	ErrNombreTaken = core.NewBadRequestError("Ya existe un curso con ese nombre")
)

type Repository interface {
	CreateCurso(ctx context.Context, c Curso, exec ...core.DBExecutor) (Curso, error)
	QueryCursos(ctx context.Context, page core.Page, exec ...core.DBExecutor) ([]Curso, error)
	GetCurso(ctx context.Context, id int, exec ...core.DBExecutor) (Curso, error)
	GetCursoByNombre(ctx context.Context, nombre string, exec ...core.DBExecutor) (Curso, error)
	UpdateCurso(ctx context.Context, c Curso, exec ...core.DBExecutor) (Curso, error)
	DeleteCurso(ctx context.Context, id int, exec ...core.DBExecutor) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkNombre(ctx context.Context, nombre string, exclID int) error {
	c, err := svc.repo.GetCursoByNombre(ctx, nombre)
	switch {
	case err == nil:
		if c.ID != exclID {
			return ErrNombreTaken
		}
		return nil
	case errors.Cause(err) == ErrNotFound:
		return nil
	default:
		return errors.Wrap(err, "checking curso nombre")
	}
}

func (svc *Service) Create(ctx context.Context, nc NewCurso) (Curso, error) {
	if err := svc.checkNombre(ctx, nc.Nombre, 0); err != nil {
		return Curso{}, err
	}
	return svc.repo.CreateCurso(ctx, Curso{Nombre: nc.Nombre})
}

func (svc *Service) Query(ctx context.Context, page core.Page) ([]Curso, error) {
	return svc.repo.QueryCursos(ctx, page.Clean())
}

func (svc *Service) Get(ctx context.Context, id int) (Curso, error) {
	return svc.repo.GetCurso(ctx, id)
}

// Update renames the Curso when a non-empty Nombre is provided.
func (svc *Service) Update(ctx context.Context, id int, uc UpdateCurso) (Curso, error) {
	c, err := svc.repo.GetCurso(ctx, id)
	if err != nil {
		return Curso{}, err
	}
	if uc.Nombre == "" || uc.Nombre == c.Nombre {
		return c, nil
	}
	if err := svc.checkNombre(ctx, uc.Nombre, id); err != nil {
		return Curso{}, err
	}
	c.Nombre = uc.Nombre
	return svc.repo.UpdateCurso(ctx, c)
}

// Delete removes the Curso along with its competencias and their calificaciones.
func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetCurso(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteCurso(ctx, id)
}
