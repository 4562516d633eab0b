package profesor

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/curso"
)

type Profesor struct {
	ID           int       `json:"Profesor_ID"`
	Nombre       string    `json:"Nombre"`
	DNI          string    `json:"DNI"`
	Email        string    `json:"Email,omitempty"`
	PasswordHash []byte    `json:"-"`
	LastLogin    time.Time `json:"-"` // UTC
}

func (p *Profesor) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = hash
	return nil
}

func (p *Profesor) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(pwd))
}

// NewProfesor contains information needed to register a new Profesor.
type NewProfesor struct {
	Nombre     string `json:"Nombre" validate:"required,max=100"`
	DNI        string `json:"DNI" validate:"required,dni"`
	Contrasena string `json:"Contrasena" validate:"required"`
	Email      string `json:"Email" validate:"omitempty,email"`
}

func (np *NewProfesor) Validate(validate *validator.Validate) error {
	np.Nombre = core.CleanString(np.Nombre)
	np.DNI = core.CleanString(np.DNI)
	np.Email = core.CleanString(np.Email, true /* lower */)
	return validate.Struct(np)
}

// UpdateProfesor defines what may be changed on an existing Profesor; empty fields are left untouched.
type UpdateProfesor struct {
	Nombre     string `json:"Nombre" validate:"omitempty,max=100"`
	DNI        string `json:"DNI" validate:"omitempty,dni"`
	Contrasena string `json:"Contrasena"`
	Email      string `json:"Email" validate:"omitempty,email"`
}

func (up *UpdateProfesor) Validate(orig Profesor, validate *validator.Validate) error {
	if nombre := core.CleanString(up.Nombre); nombre != "" {
		up.Nombre = nombre
	} else {
		up.Nombre = orig.Nombre
	}
	if dni := core.CleanString(up.DNI); dni != "" {
		up.DNI = dni
	} else {
		up.DNI = orig.DNI
	}
	if email := core.CleanString(up.Email, true /* lower */); email != "" {
		up.Email = email
	} else {
		up.Email = orig.Email
	}
	return validate.Struct(up)
}

type ResetPassword struct {
	UID             string `json:"uid" validate:"required"`
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`

	// compared against the new password
	nombre, dni string
}

// Validate checks the new password against the policy, using the name and DNI of p.
func (rp *ResetPassword) Validate(p Profesor, validate *validator.Validate) error {
	rp.nombre, rp.dni = p.Nombre, p.DNI
	return validate.Struct(rp)
}

// Stats summarises the teaching load of a Profesor.
type Stats struct {
	ProfesorID             int           `json:"profesor_id"`
	Nombre                 string        `json:"nombre"`
	TotalCursos            int           `json:"total_cursos"`
	CursosAsignados        []curso.Curso `json:"cursos_asignados"`
	TotalAlumnos           int           `json:"total_alumnos"`
	PromedioCalificaciones float64       `json:"promedio_calificaciones"`
}

// Grade is a calificacion given in one of the courses of a Profesor.
type Grade struct {
	AlumnoID     int    `db:"alumno_id"`
	Calificacion string `db:"calificacion"`
}

// ComputeStats counts distinct graded alumnos and averages the grade values (2 places).
func ComputeStats(p Profesor, cursos []curso.Curso, grades []Grade) Stats {
	alumnos := make(map[int]struct{}, len(grades))
	values := make([]float64, 0, len(grades))
	for _, g := range grades {
		alumnos[g.AlumnoID] = struct{}{}
		if v, ok := core.GradeValue(g.Calificacion); ok {
			values = append(values, v)
		}
	}
	return Stats{
		ProfesorID:             p.ID,
		Nombre:                 p.Nombre,
		TotalCursos:            len(cursos),
		CursosAsignados:        cursos,
		TotalAlumnos:           len(alumnos),
		PromedioCalificaciones: core.Round(core.Mean(values), 2),
	}
}
