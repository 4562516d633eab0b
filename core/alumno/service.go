package alumno

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/competencia"
	"github.com/trezcool/tutoria/core/inteligencia"
)

var ErrNotFound = core.NewNotFoundError("Alumno no encontrado")

type Repository interface {
	CreateAlumno(ctx context.Context, a Alumno, exec ...core.DBExecutor) (Alumno, error)
	QueryAlumnos(ctx context.Context, page core.Page, exec ...core.DBExecutor) ([]Alumno, error)
	// QueryAllAlumnos returns every alumno ordered by ID.
	QueryAllAlumnos(ctx context.Context, exec ...core.DBExecutor) ([]Alumno, error)
	GetAlumno(ctx context.Context, id int, exec ...core.DBExecutor) (Alumno, error)
	// GetAlumnoByNombre does an exact match on the full name.
	GetAlumnoByNombre(ctx context.Context, nombre string, exec ...core.DBExecutor) (Alumno, error)
	AlumnoNombre(ctx context.Context, id int, exec ...core.DBExecutor) (string, error)
	QueryNombres(ctx context.Context, exec ...core.DBExecutor) ([]Nombre, error)
	// UpdateAlumno overwrites every stored column of the alumno.
	UpdateAlumno(ctx context.Context, a Alumno, exec ...core.DBExecutor) (Alumno, error)
	DeleteAlumno(ctx context.Context, id int, exec ...core.DBExecutor) error

	// QueryCalificaciones returns the calificaciones of the given alumnos (all when empty), ordered by ID.
	QueryCalificaciones(ctx context.Context, alumnoIDs []int, exec ...core.DBExecutor) ([]Calificacion, error)
	UpsertCalificacion(ctx context.Context, c Calificacion, exec ...core.DBExecutor) error
	DeleteCalificaciones(ctx context.Context, alumnoID int, exec ...core.DBExecutor) error
}

type Service struct {
	db        core.DB
	repo      Repository
	intelRepo inteligencia.Repository
	compRepo  competencia.Repository
}

func NewService(db core.DB, repo Repository, intelRepo inteligencia.Repository, compRepo competencia.Repository) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		intelRepo: intelRepo,
		compRepo:  compRepo,
	}
}

func (svc *Service) views(ctx context.Context, alumnos []Alumno) ([]View, error) {
	ids := make([]int, 0, len(alumnos))
	for _, a := range alumnos {
		ids = append(ids, a.ID)
	}
	intels, err := svc.intelRepo.QueryAlumnoInteligencias(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "querying inteligencias")
	}
	byAlumno := make(map[int][]inteligencia.Inteligencia, len(alumnos))
	for _, i := range intels {
		byAlumno[i.AlumnoID] = append(byAlumno[i.AlumnoID], i)
	}

	views := make([]View, 0, len(alumnos))
	for _, a := range alumnos {
		views = append(views, NewView(a, byAlumno[a.ID]))
	}
	return views, nil
}

func (svc *Service) view(ctx context.Context, a Alumno) (View, error) {
	views, err := svc.views(ctx, []Alumno{a})
	if err != nil {
		return View{}, err
	}
	return views[0], nil
}

// Create registers a new alumno with no grades, no IQ record and both clusters set to 0.
func (svc *Service) Create(ctx context.Context, na NewAlumno) (View, error) {
	zero := 0
	a, err := svc.repo.CreateAlumno(ctx, Alumno{
		Nombre:        na.FullName(),
		ClusterKMeans: &zero,
		ClusterDBSCAN: &zero,
	})
	if err != nil {
		return View{}, errors.Wrap(err, "creating alumno")
	}
	return svc.view(ctx, a)
}

func (svc *Service) Query(ctx context.Context, page core.Page) ([]View, error) {
	alumnos, err := svc.repo.QueryAlumnos(ctx, page.Clean())
	if err != nil {
		return nil, errors.Wrap(err, "querying alumnos")
	}
	return svc.views(ctx, alumnos)
}

func (svc *Service) Get(ctx context.Context, id int) (Alumno, error) {
	return svc.repo.GetAlumno(ctx, id)
}

func (svc *Service) GetView(ctx context.Context, id int) (View, error) {
	a, err := svc.repo.GetAlumno(ctx, id)
	if err != nil {
		return View{}, err
	}
	return svc.view(ctx, a)
}

func (svc *Service) Update(ctx context.Context, id int, ua UpdateAlumno) (View, error) {
	a, err := svc.repo.GetAlumno(ctx, id)
	if err != nil {
		return View{}, err
	}
	if ua.Nombre != "" && ua.Apellido != "" {
		a.Nombre = NewAlumno{Nombre: ua.Nombre, Apellido: ua.Apellido}.FullName()
		if a, err = svc.repo.UpdateAlumno(ctx, a); err != nil {
			return View{}, errors.Wrap(err, "updating alumno")
		}
	}
	return svc.view(ctx, a)
}

// Delete removes the alumno with its calificaciones, inteligencias and AI conversations.
func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetAlumno(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteAlumno(ctx, id)
}

func (svc *Service) Nombres(ctx context.Context) ([]Nombre, error) {
	return svc.repo.QueryNombres(ctx)
}

func (svc *Service) Calificaciones(ctx context.Context, id int) ([]Calificacion, error) {
	if _, err := svc.repo.GetAlumno(ctx, id); err != nil {
		return nil, err
	}
	return svc.repo.QueryCalificaciones(ctx, []int{id})
}

// SetCalificacion grades the alumno on a competencia (replacing any previous grade)
// and refreshes the alumno's grade summary.
func (svc *Service) SetCalificacion(ctx context.Context, id int, sc SetCalificacion) (Calificacion, error) {
	var result Calificacion
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.repo.GetAlumno(ctx, id, tx); err != nil {
			return err
		}
		if _, err := svc.compRepo.GetCompetencia(ctx, sc.CompetenciaID, tx); err != nil {
			return errors.Wrap(err, "finding competencia")
		}
		err := svc.repo.UpsertCalificacion(ctx, Calificacion{
			AlumnoID:      id,
			CompetenciaID: sc.CompetenciaID,
			Calificacion:  sc.Calificacion,
			Conclusion:    sc.Conclusion,
		}, tx)
		if err != nil {
			return errors.Wrap(err, "saving calificacion")
		}
		califs, err := svc.RecomputeGradeSummary(ctx, id, tx)
		if err != nil {
			return err
		}
		for _, c := range califs {
			if c.CompetenciaID == sc.CompetenciaID {
				result = c
			}
		}
		return nil
	})
	return result, err
}

// RecomputeGradeSummary refreshes Promedio_Calificaciones and Cantidad_Competencias from the stored grades.
func (svc *Service) RecomputeGradeSummary(ctx context.Context, id int, exec ...core.DBExecutor) ([]Calificacion, error) {
	a, err := svc.repo.GetAlumno(ctx, id, exec...)
	if err != nil {
		return nil, err
	}
	califs, err := svc.repo.QueryCalificaciones(ctx, []int{id}, exec...)
	if err != nil {
		return nil, errors.Wrap(err, "querying calificaciones")
	}
	a.PromedioCalificaciones, a.CantidadCompetencias = GradeSummary(califs)
	if _, err = svc.repo.UpdateAlumno(ctx, a, exec...); err != nil {
		return nil, errors.Wrap(err, "updating grade summary")
	}
	return califs, nil
}

func (svc *Service) Profile(ctx context.Context, id int) (Profile, error) {
	a, err := svc.repo.GetAlumno(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	profiles, err := svc.profiles(ctx, []Alumno{a})
	if err != nil {
		return Profile{}, err
	}
	return profiles[0], nil
}

// Profiles returns the profile of every alumno, ordered by ID.
func (svc *Service) Profiles(ctx context.Context) ([]Profile, error) {
	alumnos, err := svc.repo.QueryAllAlumnos(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying alumnos")
	}
	if len(alumnos) == 0 {
		return []Profile{}, nil
	}
	return svc.profiles(ctx, alumnos)
}

func (svc *Service) profiles(ctx context.Context, alumnos []Alumno) ([]Profile, error) {
	ids := make([]int, 0, len(alumnos))
	for _, a := range alumnos {
		ids = append(ids, a.ID)
	}

	intels, err := svc.intelRepo.QueryAlumnoInteligencias(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "querying inteligencias")
	}
	califs, err := svc.repo.QueryCalificaciones(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "querying calificaciones")
	}

	byID := make(map[int]*Profile, len(alumnos))
	profiles := make([]Profile, len(alumnos))
	for i, a := range alumnos {
		profiles[i] = Profile{
			Alumno:         a,
			Inteligencias:  []inteligencia.Inteligencia{},
			Calificaciones: []Calificacion{},
		}
		byID[a.ID] = &profiles[i]
	}
	for _, in := range intels {
		if p, ok := byID[in.AlumnoID]; ok {
			p.Inteligencias = append(p.Inteligencias, in)
		}
	}
	for _, c := range califs {
		if p, ok := byID[c.AlumnoID]; ok {
			p.Calificaciones = append(p.Calificaciones, c)
		}
	}
	return profiles, nil
}

// Clusters is the outcome of a clustering run for one alumno.
type Clusters struct {
	KMeans int
	DBSCAN int
}

// SetClusters stores cluster assignments keyed by alumno ID and returns how many alumnos were updated.
// Unknown IDs are skipped.
func (svc *Service) SetClusters(ctx context.Context, assignments map[int]Clusters) (int, error) {
	var updated int
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		for id, cl := range assignments {
			a, err := svc.repo.GetAlumno(ctx, id, tx)
			if err != nil {
				if errors.Cause(err) == ErrNotFound {
					continue
				}
				return err
			}
			km, db := cl.KMeans, cl.DBSCAN
			a.ClusterKMeans, a.ClusterDBSCAN = &km, &db
			if _, err = svc.repo.UpdateAlumno(ctx, a, tx); err != nil {
				return errors.Wrap(err, "updating clusters")
			}
			updated++
		}
		return nil
	})
	return updated, err
}
