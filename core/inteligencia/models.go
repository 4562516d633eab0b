package inteligencia

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tutoria/core"
)

// Inteligencia is a multiple-intelligence score (0-100) of an alumno.
type Inteligencia struct {
	ID       int     `json:"Inteligencia_ID" db:"inteligencia_id"`
	AlumnoID int     `json:"Alumno_ID" db:"alumno_id"`
	Tipo     string  `json:"Tipo_Inteligencia" db:"tipo_inteligencia"`
	Puntaje  float64 `json:"Puntaje" db:"puntaje"`
}

// Ref is the shape nested inside an alumno.
type Ref struct {
	ID      int     `json:"Inteligencia_ID"`
	Tipo    string  `json:"Tipo_Inteligencia"`
	Puntaje float64 `json:"Puntaje"`
}

func Refs(intels []Inteligencia) []Ref {
	refs := make([]Ref, 0, len(intels))
	for _, i := range intels {
		refs = append(refs, Ref{ID: i.ID, Tipo: i.Tipo, Puntaje: i.Puntaje})
	}
	return refs
}

// Score is the short {tipo, puntaje} shape used by statistics and AI contexts.
type Score struct {
	Tipo    string  `json:"tipo"`
	Puntaje float64 `json:"puntaje"`
}

func Scores(intels []Inteligencia) []Score {
	scores := make([]Score, 0, len(intels))
	for _, i := range intels {
		scores = append(scores, Score{Tipo: i.Tipo, Puntaje: i.Puntaje})
	}
	return scores
}

// NewInteligencia contains information needed to create a new Inteligencia.
type NewInteligencia struct {
	AlumnoID int      `json:"Alumno_ID" validate:"required,min=1"`
	Tipo     string   `json:"Tipo_Inteligencia" validate:"required,max=100"`
	Puntaje  *float64 `json:"Puntaje" validate:"required,min=0,max=100"`
}

func (ni *NewInteligencia) Validate(validate *validator.Validate) error {
	ni.Tipo = core.CleanString(ni.Tipo)
	return validate.Struct(ni)
}

// UpdateInteligencia only touches the fields that are set.
type UpdateInteligencia struct {
	AlumnoID *int     `json:"Alumno_ID" validate:"omitempty,min=1"`
	Tipo     *string  `json:"Tipo_Inteligencia" validate:"omitempty,min=1,max=100"`
	Puntaje  *float64 `json:"Puntaje" validate:"omitempty,min=0,max=100"`
}

func (ui *UpdateInteligencia) Validate(validate *validator.Validate) error {
	if ui.Tipo != nil {
		tipo := core.CleanString(*ui.Tipo)
		ui.Tipo = &tipo
	}
	return validate.Struct(ui)
}

// Stats summarizes the inteligencias of an alumno.
type Stats struct {
	AlumnoID           int     `json:"alumno_id"`
	NombreAlumno       string  `json:"nombre_alumno"`
	TotalInteligencias int     `json:"total_inteligencias"`
	PuntajeMaximo      float64 `json:"puntaje_maximo"`
	InteligenciaMaxima string  `json:"inteligencia_maxima"`
	PuntajeMinimo      float64 `json:"puntaje_minimo"`
	Promedio           float64 `json:"promedio"`
	Inteligencias      []Score `json:"inteligencias"`
}

// ComputeStats returns false when there is nothing to summarize.
// The first inteligencia reaching the max score wins ties.
func ComputeStats(alumnoID int, nombre string, intels []Inteligencia) (Stats, bool) {
	if len(intels) == 0 {
		return Stats{}, false
	}
	st := Stats{
		AlumnoID:           alumnoID,
		NombreAlumno:       nombre,
		TotalInteligencias: len(intels),
		PuntajeMaximo:      intels[0].Puntaje,
		InteligenciaMaxima: intels[0].Tipo,
		PuntajeMinimo:      intels[0].Puntaje,
		Inteligencias:      Scores(intels),
	}
	var sum float64
	for _, i := range intels {
		sum += i.Puntaje
		if i.Puntaje > st.PuntajeMaximo {
			st.PuntajeMaximo = i.Puntaje
			st.InteligenciaMaxima = i.Tipo
		}
		if i.Puntaje < st.PuntajeMinimo {
			st.PuntajeMinimo = i.Puntaje
		}
	}
	st.Promedio = core.Round(sum/float64(len(intels)), 2)
	return st, true
}
