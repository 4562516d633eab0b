package ci

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
)

// Record is the IQ test result of an alumno. It is stored on the alumno itself, hence CI_ID == Alumno_ID.
type Record struct {
	ID            int     `json:"CI_ID"`
	AlumnoID      int     `json:"Alumno_ID"`
	ValorCI       int     `json:"Valor_CI"`
	FechaTest     *string `json:"Fecha_Test"`
	TipoTest      *string `json:"Tipo_Test"`
	Observaciones *string `json:"Observaciones"`
}

func recordOf(a alumno.Alumno) Record {
	r := Record{
		ID:            a.ID,
		AlumnoID:      a.ID,
		FechaTest:     a.CIDetails.FechaTest,
		TipoTest:      a.CIDetails.TipoTest,
		Observaciones: a.CIDetails.Observaciones,
	}
	if a.CI != nil {
		r.ValorCI = *a.CI
	}
	return r
}

// NewRecord sets (or replaces) the IQ record of an alumno.
type NewRecord struct {
	AlumnoID      int     `json:"Alumno_ID" validate:"required,min=1"`
	ValorCI       *int    `json:"Valor_CI" validate:"required,min=0,max=200"`
	FechaTest     *string `json:"Fecha_Test" validate:"omitempty,max=50"`
	TipoTest      *string `json:"Tipo_Test" validate:"omitempty,max=100"`
	Observaciones *string `json:"Observaciones"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.FechaTest = cleanOptional(nr.FechaTest)
	nr.TipoTest = cleanOptional(nr.TipoTest)
	nr.Observaciones = cleanOptional(nr.Observaciones)
	return validate.Struct(nr)
}

// UpdateRecord only touches the fields that are set.
type UpdateRecord struct {
	ValorCI       *int    `json:"Valor_CI" validate:"omitempty,min=0,max=200"`
	FechaTest     *string `json:"Fecha_Test" validate:"omitempty,max=50"`
	TipoTest      *string `json:"Tipo_Test" validate:"omitempty,max=100"`
	Observaciones *string `json:"Observaciones"`
}

func (ur *UpdateRecord) Validate(validate *validator.Validate) error {
	ur.FechaTest = cleanOptional(ur.FechaTest)
	ur.TipoTest = cleanOptional(ur.TipoTest)
	ur.Observaciones = cleanOptional(ur.Observaciones)
	return validate.Struct(ur)
}

func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	cs := core.CleanString(*s)
	if cs == "" {
		return nil
	}
	return &cs
}

type (
	Range struct {
		Minimo int `json:"minimo"`
		Maximo int `json:"maximo"`
	}

	Band struct {
		Min   int `json:"min"`
		Max   int `json:"max"`
		Count int `json:"count"`
	}

	Stats struct {
		TotalAlumnos    int             `json:"total_alumnos"`
		PromedioCI      float64         `json:"promedio_ci"`
		CIMaximo        int             `json:"ci_maximo"`
		CIMinimo        int             `json:"ci_minimo"`
		RangoCI         Range           `json:"rango_ci"`
		AlumnosPorRango map[string]Band `json:"alumnos_por_rango"`
	}

	Summary struct {
		AlumnoID     int      `json:"alumno_id"`
		NombreAlumno string   `json:"nombre_alumno"`
		ValorCI      int      `json:"valor_ci"`
		Categoria    string   `json:"categoria"`
		Percentil    *float64 `json:"percentil"`
	}

	InRange struct {
		AlumnoID int    `json:"alumno_id"`
		Nombre   string `json:"nombre"`
		CI       int    `json:"ci"`
	}
)

// ComputeStats returns false when there are no values.
// Values outside every band (e.g. above 200) are not counted in any band.
func ComputeStats(values []int) (Stats, bool) {
	if len(values) == 0 {
		return Stats{}, false
	}
	st := Stats{
		TotalAlumnos:    len(values),
		CIMaximo:        values[0],
		CIMinimo:        values[0],
		AlumnosPorRango: make(map[string]Band, len(Categories)),
	}
	for _, c := range Categories {
		st.AlumnosPorRango[c.Name] = Band{Min: c.Min, Max: c.Max}
	}

	var sum int
	for _, v := range values {
		sum += v
		if v > st.CIMaximo {
			st.CIMaximo = v
		}
		if v < st.CIMinimo {
			st.CIMinimo = v
		}
		for _, c := range Categories {
			if c.Min <= v && v <= c.Max {
				b := st.AlumnosPorRango[c.Name]
				b.Count++
				st.AlumnosPorRango[c.Name] = b
				break
			}
		}
	}
	st.PromedioCI = core.Round(float64(sum)/float64(len(values)), 2)
	st.RangoCI = Range{Minimo: st.CIMinimo, Maximo: st.CIMaximo}
	return st, true
}

// Percentile is the rank (1-based, first occurrence) of v among the sorted values, as a percentage with 1 decimal.
// Returns nil when v is not among the values.
func Percentile(sorted []int, v int) *float64 {
	for i, x := range sorted {
		if x == v {
			p := core.Round(float64(i+1)/float64(len(sorted))*100, 1)
			return &p
		}
	}
	return nil
}
