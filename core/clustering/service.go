package clustering

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/speps/go-hashids"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/inteligencia"
	"github.com/trezcool/tutoria/core/tutor"
)

var ErrNoAlumnos = core.NewNotFoundError("No hay alumnos para procesar")

const runIDSalt = "tutoria clustering runs"

type Service struct {
	alumnoSvc *alumno.Service
	conf      core.ClusteringConfig
	logger    core.Logger
	nowFunc   func() time.Time
}

func NewService(alumnoSvc *alumno.Service, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		alumnoSvc: alumnoSvc,
		conf:      conf.Clustering,
		logger:    logger,
		nowFunc:   time.Now,
	}
}

// Process clusters every alumno with both algorithms and stores the assignments.
func (svc *Service) Process(ctx context.Context) (Result, error) {
	profiles, err := svc.alumnoSvc.Profiles(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(profiles) == 0 {
		return Result{}, ErrNoAlumnos
	}

	raw := make([][]float64, len(profiles))
	for i, p := range profiles {
		raw[i] = Features(p)
	}
	scaled := Scale(raw)

	kmLabels, err := KMeans(ctx, scaled, svc.conf.K, svc.conf.NInit, svc.conf.Seed)
	if err != nil {
		return Result{}, errors.Wrap(err, "running k-means")
	}
	dbLabels := DBSCAN(scaled, svc.conf.Eps, svc.conf.MinSamples)

	assignments := make(map[int]alumno.Clusters, len(profiles))
	for i, p := range profiles {
		assignments[p.Alumno.ID] = alumno.Clusters{KMeans: kmLabels[i], DBSCAN: dbLabels[i]}
	}
	updated, err := svc.alumnoSvc.SetClusters(ctx, assignments)
	if err != nil {
		return Result{}, err
	}

	kmAnalysis := Analyze(TypeKMeans, raw, kmLabels)
	dbAnalysis := Analyze(TypeDBSCAN, raw, dbLabels)
	res := Result{
		Success:             true,
		RunID:               svc.runID(len(profiles)),
		Message:             fmt.Sprintf("Clustering procesado exitosamente para %d alumnos", updated),
		AlumnosProcesados:   len(profiles),
		AlumnosActualizados: updated,
		Analisis:            ByAlgorithm{KMeans: kmAnalysis, DBSCAN: dbAnalysis},
		Recomendaciones: RecommendationsByAlgorithm{
			KMeans: Recommend(kmAnalysis),
			DBSCAN: Recommend(dbAnalysis),
		},
	}
	svc.logger.Info("clustering processed", map[string]interface{}{
		"run_id":          res.RunID,
		"alumnos":         len(profiles),
		"kmeans_clusters": kmAnalysis.NClusters,
		"dbscan_clusters": dbAnalysis.NClusters,
	})
	return res, nil
}

// runID is a short, non-sequential label for a clustering run; "" when it cannot be encoded.
func (svc *Service) runID(n int) string {
	hd := hashids.NewData()
	hd.Salt = runIDSalt
	hd.MinLength = 8
	h, err := hashids.NewWithData(hd)
	if err != nil {
		svc.logger.Warn("clustering.runID", err)
		return ""
	}
	id, err := h.EncodeInt64([]int64{svc.nowFunc().Unix(), int64(n)})
	if err != nil {
		svc.logger.Warn("clustering.runID", err)
		return ""
	}
	return id
}

// Statistics summarizes the stored cluster assignments.
func (svc *Service) Statistics(ctx context.Context) (Statistics, error) {
	profiles, err := svc.alumnoSvc.Profiles(ctx)
	if err != nil {
		return Statistics{}, err
	}
	alumnos := make([]alumno.Alumno, 0, len(profiles))
	for _, p := range profiles {
		alumnos = append(alumnos, p.Alumno)
	}
	return ComputeStatistics(alumnos), nil
}

// Alumnos lists every alumno with its cluster assignments.
func (svc *Service) Alumnos(ctx context.Context) ([]AlumnoClusters, error) {
	profiles, err := svc.alumnoSvc.Profiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AlumnoClusters, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, newAlumnoClusters(p))
	}
	return out, nil
}

// Alumno returns the cluster assignments of an alumno, with its inteligencias and grades.
func (svc *Service) Alumno(ctx context.Context, id int) (AlumnoDetail, error) {
	p, err := svc.alumnoSvc.Profile(ctx, id)
	if err != nil {
		return AlumnoDetail{}, err
	}
	d := AlumnoDetail{
		AlumnoClusters: newAlumnoClusters(p),
		Inteligencias:  inteligencia.Scores(p.Inteligencias),
		Calificaciones: make([]tutor.GradeRef, 0, len(p.Calificaciones)),
	}
	for _, c := range p.Calificaciones {
		d.Calificaciones = append(d.Calificaciones, tutor.GradeRef{
			Competencia:  c.Competencia,
			Calificacion: c.Calificacion,
			Descripcion:  c.Descripcion,
		})
	}
	return d, nil
}

// Analysis reports how the alumnos are currently distributed across clusters.
func (svc *Service) Analysis(ctx context.Context) (Overview, error) {
	profiles, err := svc.alumnoSvc.Profiles(ctx)
	if err != nil {
		return Overview{}, err
	}
	alumnos := make([]alumno.Alumno, 0, len(profiles))
	for _, p := range profiles {
		alumnos = append(alumnos, p.Alumno)
	}
	return ComputeOverview(alumnos), nil
}
