package competencia

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/curso"
)

var ErrNotFound = core.NewNotFoundError("Competencia no encontrada")

type Repository interface {
	CreateCompetencia(ctx context.Context, c Competencia, exec ...core.DBExecutor) (Competencia, error)
	QueryCompetencias(ctx context.Context, page core.Page, exec ...core.DBExecutor) ([]Competencia, error)
	GetCompetencia(ctx context.Context, id int, exec ...core.DBExecutor) (Competencia, error)
	GetCompetenciaByCodigo(ctx context.Context, codigo string, exec ...core.DBExecutor) (Competencia, error)
	UpdateCompetencia(ctx context.Context, c Competencia, exec ...core.DBExecutor) (Competencia, error)
	DeleteCompetencia(ctx context.Context, id int, exec ...core.DBExecutor) error
}

type Service struct {
	repo      Repository
	cursoRepo curso.Repository
}

func NewService(repo Repository, cursoRepo curso.Repository) *Service {
	return &Service{repo: repo, cursoRepo: cursoRepo}
}

func (svc *Service) Create(ctx context.Context, nc NewCompetencia) (Competencia, error) {
	if _, err := svc.cursoRepo.GetCurso(ctx, nc.CursoID); err != nil {
		return Competencia{}, errors.Wrap(err, "finding curso")
	}
	return svc.repo.CreateCompetencia(ctx, Competencia{
		CursoID:     nc.CursoID,
		Codigo:      nc.Nombre,
		Descripcion: nc.Descripcion,
	})
}

func (svc *Service) Query(ctx context.Context, page core.Page) ([]Competencia, error) {
	return svc.repo.QueryCompetencias(ctx, page.Clean())
}

func (svc *Service) Get(ctx context.Context, id int) (Competencia, error) {
	return svc.repo.GetCompetencia(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, uc UpdateCompetencia) (Competencia, error) {
	c, err := svc.repo.GetCompetencia(ctx, id)
	if err != nil {
		return Competencia{}, err
	}
	if uc.Nombre != "" {
		c.Codigo = uc.Nombre
	}
	if uc.Descripcion != "" {
		c.Descripcion = uc.Descripcion
	}
	return svc.repo.UpdateCompetencia(ctx, c)
}

// Delete removes the Competencia and every calificacion given against it.
func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetCompetencia(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteCompetencia(ctx, id)
}
