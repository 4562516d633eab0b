package importer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/competencia"
	"github.com/trezcool/tutoria/core/curso"
	"github.com/trezcool/tutoria/core/inteligencia"
)

var (
	ErrXLSUnsupported = core.NewBadRequestError("Formato .xls no soportado; guarde el archivo como .xlsx")
	ErrInvalidFormat  = core.NewBadRequestError("Formato de archivo no válido. Solo se permiten archivos .xlsx y .xls")
	ErrTooLarge       = core.NewBadRequestError("El archivo es demasiado grande. Máximo 10MB")
)

const successMessage = "Archivo Excel procesado exitosamente"

// CheckUpload validates the name and size of an uploaded workbook.
func CheckUpload(filename string, size, maxSize int64) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
	case ".xls":
		return ErrXLSUnsupported
	default:
		return ErrInvalidFormat
	}
	if maxSize > 0 && size > maxSize {
		return ErrTooLarge
	}
	return nil
}

type Service struct {
	db         core.DB
	alumnoSvc  *alumno.Service
	alumnoRepo alumno.Repository
	cursoRepo  curso.Repository
	compRepo   competencia.Repository
	intelRepo  inteligencia.Repository
	logger     core.Logger
}

func NewService(
	db core.DB,
	alumnoSvc *alumno.Service,
	alumnoRepo alumno.Repository,
	cursoRepo curso.Repository,
	compRepo competencia.Repository,
	intelRepo inteligencia.Repository,
	logger core.Logger,
) *Service {
	return &Service{
		db:         db,
		alumnoSvc:  alumnoSvc,
		alumnoRepo: alumnoRepo,
		cursoRepo:  cursoRepo,
		compRepo:   compRepo,
		intelRepo:  intelRepo,
		logger:     logger,
	}
}

func importError(err error) error {
	return core.NewInternalError(fmt.Sprintf(
		"Error procesando archivo: %v. Verifica que el archivo tenga las hojas requeridas: 'notas', 'inteligencia', 'ci'",
		err,
	))
}

// Import loads grades, IQ scores and intelligence scores from a workbook in a single transaction.
// Existing alumnos (matched by name) are updated when update is set, and left untouched otherwise.
func (svc *Service) Import(ctx context.Context, r io.Reader, update bool) (Result, error) {
	wb, err := parseWorkbook(r)
	if err != nil {
		svc.logger.Error("importer.Import: parsing", err)
		return Result{}, importError(err)
	}

	res := Result{
		Mensaje:                successMessage,
		CompetenciasProcesadas: len(wb.competencias),
		Inteligencias:          wb.intelInfo,
		CI:                     wb.ciInfo,
	}
	err = core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		imp := &run{svc: svc, ctx: ctx, tx: tx, wb: wb, res: &res, update: update}
		return imp.exec()
	})
	if err != nil {
		svc.logger.Error("importer.Import", err)
		return Result{}, importError(err)
	}

	svc.logger.Info("workbook imported", map[string]interface{}{
		"alumnos_procesados":       res.AlumnosProcesados,
		"alumnos_creados":          res.AlumnosCreados,
		"alumnos_actualizados":     res.AlumnosActualizados,
		"inteligencias_procesadas": res.Inteligencias.Procesadas,
	})
	return res, nil
}

// run holds the state of one import transaction.
type run struct {
	svc    *Service
	ctx    context.Context
	tx     core.DBExecutor
	wb     *workbook
	res    *Result
	update bool

	competenciaIDs map[string]int
	touched        map[string]int // nombre -> alumno ID, created or updated in this run
}

func (r *run) exec() error {
	if err := r.ensureCompetencias(); err != nil {
		return err
	}
	if err := r.importAlumnos(); err != nil {
		return err
	}
	return r.importInteligencias()
}

func (r *run) ensureCompetencias() error {
	cursoIDs := make(map[string]int)
	r.competenciaIDs = make(map[string]int, len(r.wb.competencias))

	for _, code := range r.wb.competencias {
		nombre := cursoOf(code)
		if _, ok := cursoIDs[nombre]; !ok {
			c, err := r.svc.cursoRepo.GetCursoByNombre(r.ctx, nombre, r.tx)
			if errors.Cause(err) == curso.ErrNotFound {
				c, err = r.svc.cursoRepo.CreateCurso(r.ctx, curso.Curso{Nombre: nombre}, r.tx)
				r.svc.logger.Debug(fmt.Sprintf("curso created: %s", nombre))
			}
			if err != nil {
				return errors.Wrapf(err, "curso %q", nombre)
			}
			cursoIDs[nombre] = c.ID
		}

		comp, err := r.svc.compRepo.GetCompetenciaByCodigo(r.ctx, code, r.tx)
		if errors.Cause(err) == competencia.ErrNotFound {
			comp, err = r.svc.compRepo.CreateCompetencia(r.ctx, competencia.Competencia{
				CursoID:     cursoIDs[nombre],
				Codigo:      code,
				Descripcion: competencyDescriptions[code],
			}, r.tx)
			r.svc.logger.Debug(fmt.Sprintf("competencia created: %s", code))
		}
		if err != nil {
			return errors.Wrapf(err, "competencia %q", code)
		}
		r.competenciaIDs[code] = comp.ID
	}
	r.res.CursosProcesados = len(cursoIDs)
	return nil
}

func (r *run) importAlumnos() error {
	r.touched = make(map[string]int)

	for _, row := range r.wb.notas.rows {
		nombre := row[colNombre]
		if nombre == "" {
			continue
		}

		a, err := r.svc.alumnoRepo.GetAlumnoByNombre(r.ctx, nombre, r.tx)
		existing := err == nil
		switch {
		case existing && !r.update:
			continue
		case existing:
			r.res.AlumnosActualizados++
		case errors.Cause(err) == alumno.ErrNotFound:
			zero := 0
			a, err = r.svc.alumnoRepo.CreateAlumno(r.ctx, alumno.Alumno{
				Nombre:        nombre,
				ClusterKMeans: &zero,
				ClusterDBSCAN: &zero,
			}, r.tx)
			if err != nil {
				return errors.Wrapf(err, "creating alumno %q", nombre)
			}
			r.res.AlumnosCreados++
		default:
			return errors.Wrapf(err, "finding alumno %q", nombre)
		}
		r.touched[nombre] = a.ID

		if v, ok := r.wb.ciByNombre[nombre]; ok {
			a.CI = &v
		}
		a.RecomendacionesBasicas = row[colApreciacion]
		if _, err = r.svc.alumnoRepo.UpdateAlumno(r.ctx, a, r.tx); err != nil {
			return errors.Wrapf(err, "updating alumno %q", nombre)
		}

		if existing {
			if err = r.svc.alumnoRepo.DeleteCalificaciones(r.ctx, a.ID, r.tx); err != nil {
				return errors.Wrapf(err, "clearing calificaciones of %q", nombre)
			}
		}
		for _, code := range r.wb.competencias {
			grade := core.NormalizeGrade(row[code])
			if grade == "" {
				continue
			}
			err = r.svc.alumnoRepo.UpsertCalificacion(r.ctx, alumno.Calificacion{
				AlumnoID:      a.ID,
				CompetenciaID: r.competenciaIDs[code],
				Calificacion:  grade,
				Conclusion:    row[code+conclusionSuffix],
			}, r.tx)
			if err != nil {
				return errors.Wrapf(err, "grading %q on %s", nombre, code)
			}
		}
		if _, err = r.svc.alumnoSvc.RecomputeGradeSummary(r.ctx, a.ID, r.tx); err != nil {
			return err
		}
		r.res.AlumnosProcesados++
	}
	return nil
}

// importInteligencias replaces the scores of every alumno of this run that has rows in the intelligence sheet.
func (r *run) importInteligencias() error {
	cleared := make(map[int]bool)
	for _, s := range r.wb.intelScores {
		id, ok := r.touched[s.Nombre]
		if !ok {
			continue
		}
		if !cleared[id] {
			if _, err := r.svc.intelRepo.DeleteAlumnoInteligencias(r.ctx, id, r.tx); err != nil {
				return errors.Wrapf(err, "clearing inteligencias of %q", s.Nombre)
			}
			cleared[id] = true
		}
		_, err := r.svc.intelRepo.CreateInteligencia(r.ctx, inteligencia.Inteligencia{
			AlumnoID: id,
			Tipo:     s.Tipo,
			Puntaje:  s.Puntaje,
		}, r.tx)
		if err != nil {
			return errors.Wrapf(err, "saving inteligencia of %q", s.Nombre)
		}
		r.res.Inteligencias.Procesadas++
	}
	return nil
}
