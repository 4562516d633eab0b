package competencia

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tutoria/core"
)

// defaultCursoID is the course new competencias are attached to when none is given.
const defaultCursoID = 1

// Competencia is a competency template of a Curso; students are graded against it.
type Competencia struct {
	ID          int    `json:"CompetenciaPlantilla_ID" db:"competencia_plantilla_id"`
	CursoID     int    `json:"Curso_ID" db:"curso_id"`
	Codigo      string `json:"Codigo_Competencia" db:"codigo_competencia"`
	Descripcion string `json:"Descripcion" db:"descripcion"`
}

// View is the wire shape of a Competencia: short aliases plus the stored columns.
type View struct {
	Competencia
	Alias            int    `json:"id"`
	AliasNombre      string `json:"nombre"`
	AliasDescripcion string `json:"descripcion"`
}

func NewView(c Competencia) View {
	return View{
		Competencia:      c,
		Alias:            c.ID,
		AliasNombre:      c.Codigo,
		AliasDescripcion: c.Descripcion,
	}
}

func NewViews(cs []Competencia) []View {
	views := make([]View, 0, len(cs))
	for _, c := range cs {
		views = append(views, NewView(c))
	}
	return views
}

// NewCompetencia contains information needed to create a new Competencia.
type NewCompetencia struct {
	Nombre      string `json:"nombre" validate:"required,max=100"`
	Descripcion string `json:"descripcion"`
	CursoID     int    `json:"curso_id" validate:"omitempty,min=1"`
}

func (nc *NewCompetencia) Validate(validate *validator.Validate) error {
	nc.Nombre = core.CleanString(nc.Nombre)
	nc.Descripcion = core.CleanString(nc.Descripcion)
	if nc.CursoID == 0 {
		nc.CursoID = defaultCursoID
	}
	return validate.Struct(nc)
}

// UpdateCompetencia defines what may be modified; empty fields are left untouched.
type UpdateCompetencia struct {
	Nombre      string `json:"nombre" validate:"omitempty,max=100"`
	Descripcion string `json:"descripcion"`
}

func (uc *UpdateCompetencia) Validate(validate *validator.Validate) error {
	uc.Nombre = core.CleanString(uc.Nombre)
	uc.Descripcion = core.CleanString(uc.Descripcion)
	return validate.Struct(uc)
}
