package ci

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
)

var ErrNoRecord = core.NewNotFoundError("El alumno no tiene registro de CI")

type Repository interface {
	GetAlumno(ctx context.Context, id int, exec ...core.DBExecutor) (alumno.Alumno, error)
	UpdateAlumno(ctx context.Context, a alumno.Alumno, exec ...core.DBExecutor) (alumno.Alumno, error)
	// QueryAlumnosWithCI returns the alumnos having an IQ record, ordered by ID.
	QueryAlumnosWithCI(ctx context.Context, page core.Page, exec ...core.DBExecutor) ([]alumno.Alumno, error)
	// QueryAlumnosByCI returns the alumnos whose IQ lies within [min, max], ordered by ID.
	QueryAlumnosByCI(ctx context.Context, min, max int, exec ...core.DBExecutor) ([]alumno.Alumno, error)
	QueryCIValues(ctx context.Context, exec ...core.DBExecutor) ([]int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Query(ctx context.Context, page core.Page) ([]Record, error) {
	alumnos, err := svc.repo.QueryAlumnosWithCI(ctx, page.Clean())
	if err != nil {
		return nil, errors.Wrap(err, "querying alumnos with CI")
	}
	records := make([]Record, 0, len(alumnos))
	for _, a := range alumnos {
		records = append(records, recordOf(a))
	}
	return records, nil
}

func (svc *Service) Get(ctx context.Context, alumnoID int) (Record, error) {
	a, err := svc.repo.GetAlumno(ctx, alumnoID)
	if err != nil {
		return Record{}, err
	}
	if a.CI == nil {
		return Record{}, ErrNoRecord
	}
	return recordOf(a), nil
}

// Set records the IQ of an alumno, replacing any previous record.
func (svc *Service) Set(ctx context.Context, nr NewRecord) (Record, error) {
	a, err := svc.repo.GetAlumno(ctx, nr.AlumnoID)
	if err != nil {
		return Record{}, err
	}
	val := *nr.ValorCI
	a.CI = &val
	a.CIDetails = alumno.CIDetails{
		FechaTest:     nr.FechaTest,
		TipoTest:      nr.TipoTest,
		Observaciones: nr.Observaciones,
	}
	if a, err = svc.repo.UpdateAlumno(ctx, a); err != nil {
		return Record{}, errors.Wrap(err, "saving CI")
	}
	return recordOf(a), nil
}

// Update changes the provided fields only; it creates the record when Valor_CI is given for an alumno without one.
func (svc *Service) Update(ctx context.Context, alumnoID int, ur UpdateRecord) (Record, error) {
	a, err := svc.repo.GetAlumno(ctx, alumnoID)
	if err != nil {
		return Record{}, err
	}
	if ur.ValorCI != nil {
		val := *ur.ValorCI
		a.CI = &val
	}
	if a.CI == nil {
		return Record{}, ErrNoRecord
	}
	if ur.FechaTest != nil {
		a.CIDetails.FechaTest = ur.FechaTest
	}
	if ur.TipoTest != nil {
		a.CIDetails.TipoTest = ur.TipoTest
	}
	if ur.Observaciones != nil {
		a.CIDetails.Observaciones = ur.Observaciones
	}
	if a, err = svc.repo.UpdateAlumno(ctx, a); err != nil {
		return Record{}, errors.Wrap(err, "saving CI")
	}
	return recordOf(a), nil
}

// Delete clears the IQ record of an alumno.
func (svc *Service) Delete(ctx context.Context, alumnoID int) error {
	a, err := svc.repo.GetAlumno(ctx, alumnoID)
	if err != nil {
		return err
	}
	a.CI = nil
	a.CIDetails = alumno.CIDetails{}
	_, err = svc.repo.UpdateAlumno(ctx, a)
	return errors.Wrap(err, "clearing CI")
}

// Stats returns false when no alumno has an IQ record.
func (svc *Service) Stats(ctx context.Context) (Stats, bool, error) {
	values, err := svc.repo.QueryCIValues(ctx)
	if err != nil {
		return Stats{}, false, errors.Wrap(err, "querying CI values")
	}
	st, ok := ComputeStats(values)
	return st, ok, nil
}

// Summary returns false when the alumno has no IQ record.
func (svc *Service) Summary(ctx context.Context, alumnoID int) (Summary, bool, error) {
	a, err := svc.repo.GetAlumno(ctx, alumnoID)
	if err != nil {
		return Summary{}, false, err
	}
	if a.CI == nil {
		return Summary{}, false, nil
	}
	values, err := svc.repo.QueryCIValues(ctx)
	if err != nil {
		return Summary{}, false, errors.Wrap(err, "querying CI values")
	}
	sort.Ints(values)
	return Summary{
		AlumnoID:     a.ID,
		NombreAlumno: a.Nombre,
		ValorCI:      *a.CI,
		Categoria:    CategoryOf(*a.CI),
		Percentil:    Percentile(values, *a.CI),
	}, true, nil
}

func (svc *Service) InRange(ctx context.Context, min, max int) ([]InRange, error) {
	alumnos, err := svc.repo.QueryAlumnosByCI(ctx, min, max)
	if err != nil {
		return nil, errors.Wrap(err, "querying alumnos by CI")
	}
	res := make([]InRange, 0, len(alumnos))
	for _, a := range alumnos {
		res = append(res, InRange{AlumnoID: a.ID, Nombre: a.Nombre, CI: *a.CI})
	}
	return res, nil
}
