package alumno

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/inteligencia"
)

type Alumno struct {
	ID                     int       `json:"Alumno_ID"`
	Nombre                 string    `json:"Nombre"`
	PromedioCalificaciones float64   `json:"Promedio_Calificaciones"`
	CantidadCompetencias   int       `json:"Cantidad_Competencias"`
	CI                     *int      `json:"CI"`
	CIDetails              CIDetails `json:"-"`
	ClusterKMeans          *int      `json:"Cluster_KMeans"`
	ClusterDBSCAN          *int      `json:"Cluster_DBSCAN"`
	RecomendacionesBasicas string    `json:"Recomendaciones_Basicas"`
}

// CIDetails holds the metadata of the IQ test an alumno took.
type CIDetails struct {
	FechaTest     *string
	TipoTest      *string
	Observaciones *string
}

// Nombre is the {Alumno_ID, Nombre} pair used by name pickers.
type Nombre struct {
	ID     int    `json:"Alumno_ID" db:"alumno_id"`
	Nombre string `json:"Nombre" db:"nombre"`
}

// View is the wire shape of an Alumno: legacy lowercase aliases, the stored columns and its inteligencias.
type View struct {
	Alias       int    `json:"id"`
	AliasNombre string `json:"nombre"`
	Apellido    string `json:"apellido"`
	Email       string `json:"email"`
	Edad        *int   `json:"edad"`
	Alumno
	Inteligencias []inteligencia.Ref `json:"inteligencias"`
}

func NewView(a Alumno, intels []inteligencia.Inteligencia) View {
	return View{
		Alias:         a.ID,
		AliasNombre:   a.Nombre,
		Alumno:        a,
		Inteligencias: inteligencia.Refs(intels),
	}
}

// Calificacion is the grade of an alumno on a competencia.
type Calificacion struct {
	ID            int    `json:"AlumnoCompetencia_ID"`
	AlumnoID      int    `json:"Alumno_ID"`
	CompetenciaID int    `json:"CompetenciaPlantilla_ID"`
	Competencia   string `json:"competencia"`
	Descripcion   string `json:"descripcion"`
	CursoID       int    `json:"Curso_ID"`
	Curso         string `json:"curso"`
	Calificacion  string `json:"calificacion"`
	Conclusion    string `json:"conclusion_descriptiva"`
}

// Profile gathers everything known about an alumno; it feeds the AI features and clustering.
type Profile struct {
	Alumno         Alumno
	Inteligencias  []inteligencia.Inteligencia
	Calificaciones []Calificacion
}

// NewAlumno contains information needed to create a new Alumno.
// Email and Edad are accepted for compatibility but not stored.
type NewAlumno struct {
	Nombre   string `json:"nombre" validate:"required,max=100,personname"`
	Apellido string `json:"apellido" validate:"required,max=100,personname"`
	Email    string `json:"email" validate:"omitempty,email"`
	Edad     *int   `json:"edad" validate:"omitempty,min=0,max=120"`
}

func (na *NewAlumno) Validate(validate *validator.Validate) error {
	na.Nombre = core.CleanString(na.Nombre)
	na.Apellido = core.CleanString(na.Apellido)
	na.Email = core.CleanString(na.Email, true /* lower */)
	return validate.Struct(na)
}

func (na NewAlumno) FullName() string {
	return strings.TrimSpace(na.Nombre + " " + na.Apellido)
}

// UpdateAlumno renames an alumno; both parts of the name are needed for the rename to happen.
type UpdateAlumno struct {
	Nombre   string `json:"nombre" validate:"omitempty,max=100,personname"`
	Apellido string `json:"apellido" validate:"omitempty,max=100,personname"`
	Email    string `json:"email" validate:"omitempty,email"`
	Edad     *int   `json:"edad" validate:"omitempty,min=0,max=120"`
}

func (ua *UpdateAlumno) Validate(validate *validator.Validate) error {
	ua.Nombre = core.CleanString(ua.Nombre)
	ua.Apellido = core.CleanString(ua.Apellido)
	ua.Email = core.CleanString(ua.Email, true /* lower */)
	return validate.Struct(ua)
}

// SetCalificacion grades an alumno on a competencia.
type SetCalificacion struct {
	CompetenciaID int    `json:"CompetenciaPlantilla_ID" validate:"required,min=1"`
	Calificacion  string `json:"Calificacion" validate:"required,grade"`
	Conclusion    string `json:"Conclusion_descriptiva"`
}

func (sc *SetCalificacion) Validate(validate *validator.Validate) error {
	sc.Calificacion = core.CleanString(strings.ToUpper(sc.Calificacion))
	sc.Conclusion = core.CleanString(sc.Conclusion)
	return validate.Struct(sc)
}

// GradeSummary returns the mean grade value (2 decimals) and the number of graded competencias.
// Unknown grades count towards the total but not towards the mean.
func GradeSummary(califs []Calificacion) (promedio float64, cantidad int) {
	vals := make([]float64, 0, len(califs))
	for _, c := range califs {
		if v, ok := core.GradeValue(c.Calificacion); ok {
			vals = append(vals, v)
		}
	}
	return core.Round(core.Mean(vals), 2), len(califs)
}
