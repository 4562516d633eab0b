package curso

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tutoria/core"
)

type Curso struct {
	ID     int    `json:"Curso_ID" db:"curso_id"`
	Nombre string `json:"Nombre" db:"nombre"`
}

// NewCurso contains information needed to create a new Curso.
type NewCurso struct {
	Nombre string `json:"Nombre" validate:"required,max=100"`
}

func (nc *NewCurso) Validate(validate *validator.Validate) error {
	nc.Nombre = core.CleanString(nc.Nombre)
	return validate.Struct(nc)
}

// UpdateCurso defines what information may be provided to modify an existing Curso.
type UpdateCurso struct {
	Nombre string `json:"Nombre" validate:"omitempty,max=100"`
}

func (uc *UpdateCurso) Validate(validate *validator.Validate) error {
	uc.Nombre = core.CleanString(uc.Nombre)
	return validate.Struct(uc)
}
