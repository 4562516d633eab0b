// Package testutil holds the helpers shared by the test suites: config, database and fixtures.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/competencia"
	"github.com/trezcool/tutoria/core/curso"
	"github.com/trezcool/tutoria/core/inteligencia"
	"github.com/trezcool/tutoria/core/profesor"
	"github.com/trezcool/tutoria/storage/database"
	sqlxrepos "github.com/trezcool/tutoria/storage/database/sqlx"
)

// NopLogger discards every log entry.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

// NewConfig returns the TEST configuration: in-memory SQLite, no AI keys, mocked emails.
func NewConfig() *core.Config {
	_ = os.Setenv("ENV", "TEST")
	conf := core.NewConfig()
	conf.AI.Provider = core.AIProviderNone
	conf.AI.APIKey = ""
	return conf
}

// PrepareDB opens a fresh, fully migrated in-memory database, closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conf := NewConfig()
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(context.Background(), db, conf.Database.Engine); err != nil {
		t.Fatalf("PrepareDB(): %v", err)
	}
	return db
}

func NewValidator() (*validator.Validate, ut.Translator) {
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	profesor.RegisterValidators(validate, translator)
	return validate, translator
}

// Repos bundles the sqlx repositories of one database.
type Repos struct {
	Curso        curso.Repository
	Competencia  competencia.Repository
	Inteligencia inteligencia.Repository
	Alumno       alumno.Repository
	Profesor     profesor.Repository
}

func NewRepos(db *sqlx.DB) Repos {
	return Repos{
		Curso:        sqlxrepos.NewCursoRepository(db),
		Competencia:  sqlxrepos.NewCompetenciaRepository(db),
		Inteligencia: sqlxrepos.NewInteligenciaRepository(db),
		Alumno:       sqlxrepos.NewAlumnoRepository(db),
		Profesor:     sqlxrepos.NewProfesorRepository(db),
	}
}

func CreateCurso(t *testing.T, repo curso.Repository, nombre string) curso.Curso {
	t.Helper()
	c, err := repo.CreateCurso(context.Background(), curso.Curso{Nombre: nombre})
	if err != nil {
		t.Fatalf("CreateCurso(): %v", err)
	}
	return c
}

func CreateCompetencia(t *testing.T, repo competencia.Repository, cursoID int, codigo, desc string) competencia.Competencia {
	t.Helper()
	c, err := repo.CreateCompetencia(context.Background(), competencia.Competencia{
		CursoID:     cursoID,
		Codigo:      codigo,
		Descripcion: desc,
	})
	if err != nil {
		t.Fatalf("CreateCompetencia(): %v", err)
	}
	return c
}

// CreateAlumno stores an alumno; ci may be nil.
func CreateAlumno(t *testing.T, repo alumno.Repository, nombre string, ci *int) alumno.Alumno {
	t.Helper()
	a, err := repo.CreateAlumno(context.Background(), alumno.Alumno{Nombre: nombre, CI: ci})
	if err != nil {
		t.Fatalf("CreateAlumno(): %v", err)
	}
	return a
}

// Grade stores a calificacion without refreshing the alumno's grade summary.
func Grade(t *testing.T, repo alumno.Repository, alumnoID, competenciaID int, calificacion string) {
	t.Helper()
	err := repo.UpsertCalificacion(context.Background(), alumno.Calificacion{
		AlumnoID:      alumnoID,
		CompetenciaID: competenciaID,
		Calificacion:  calificacion,
	})
	if err != nil {
		t.Fatalf("Grade(): %v", err)
	}
}

func CreateInteligencia(t *testing.T, repo inteligencia.Repository, alumnoID int, tipo string, puntaje float64) inteligencia.Inteligencia {
	t.Helper()
	i, err := repo.CreateInteligencia(context.Background(), inteligencia.Inteligencia{
		AlumnoID: alumnoID,
		Tipo:     tipo,
		Puntaje:  puntaje,
	})
	if err != nil {
		t.Fatalf("CreateInteligencia(): %v", err)
	}
	return i
}

func CreateProfesor(t *testing.T, repo profesor.Repository, nombre, dni, email, pwd string) profesor.Profesor {
	t.Helper()
	p := profesor.Profesor{Nombre: nombre, DNI: dni, Email: email}
	if err := p.SetPassword(pwd); err != nil {
		t.Fatalf("CreateProfesor(): %v", err)
	}
	p, err := repo.CreateProfesor(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateProfesor(): %v", err)
	}
	return p
}

func IntPtr(i int) *int { return &i }

func FloatPtr(f float64) *float64 { return &f }
