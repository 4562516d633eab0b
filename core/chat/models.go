package chat

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/inteligencia"
	"github.com/trezcool/tutoria/core/tutor"
)

// Conversacion is one persisted message of a profesor/AI conversation about an alumno.
type Conversacion struct {
	ID             int       `json:"Conversacion_ID"`
	AlumnoID       int       `json:"Alumno_ID"`
	ProfesorID     int       `json:"Profesor_ID"`
	Mensaje        string    `json:"Mensaje"`
	EsUsuario      bool      `json:"Es_Usuario"` // true: profesor, false: AI
	FechaCreacion  time.Time `json:"Fecha_Creacion"`
	ContextoAlumno string    `json:"Contexto_Alumno"` // StudentContext as JSON, at the time of the message
}

// StudentContext is what the AI knows about an alumno.
type StudentContext struct {
	AlumnoID               int                  `json:"alumno_id"`
	Nombre                 string               `json:"nombre"`
	CI                     *int                 `json:"ci"`
	CategoriaCI            string               `json:"categoria_ci"`
	Inteligencias          []inteligencia.Score `json:"inteligencias"`
	Calificaciones         []tutor.GradeRef     `json:"calificaciones"`
	RecomendacionesBasicas string               `json:"recomendaciones_basicas"`
}

func (sc StudentContext) studentData() tutor.StudentData {
	return tutor.StudentData{
		AlumnoID:               sc.AlumnoID,
		Nombre:                 sc.Nombre,
		CI:                     sc.CI,
		Inteligencias:          sc.Inteligencias,
		Calificaciones:         sc.Calificaciones,
		RecomendacionesBasicas: sc.RecomendacionesBasicas,
	}
}

func (sc StudentContext) summary() ContextSummary {
	return ContextSummary{
		AlumnoID:            sc.AlumnoID,
		CI:                  sc.CI,
		InteligenciasCount:  len(sc.Inteligencias),
		CalificacionesCount: len(sc.Calificaciones),
	}
}

type (
	SendMessage struct {
		Mensaje  string `json:"mensaje" validate:"required"`
		AlumnoID int    `json:"alumno_id" validate:"required,min=1"`
	}

	Reply struct {
		Success        bool   `json:"success"`
		Response       string `json:"response"`
		StudentName    string `json:"student_name"`
		ConversacionID int    `json:"conversacion_id"`
	}

	Message struct {
		Mensaje   string `json:"mensaje"`
		EsUsuario bool   `json:"es_usuario"`
		Fecha     string `json:"fecha"`
	}

	History struct {
		AlumnoID      int       `json:"alumno_id"`
		AlumnoNombre  string    `json:"alumno_nombre"`
		Mensajes      []Message `json:"mensajes"`
		TotalMensajes int       `json:"total_mensajes"`
	}

	ContextSummary struct {
		AlumnoID            int  `json:"alumno_id"`
		CI                  *int `json:"ci"`
		InteligenciasCount  int  `json:"inteligencias_count"`
		CalificacionesCount int  `json:"calificaciones_count"`
	}

	Welcome struct {
		Success        bool           `json:"success"`
		WelcomeMessage string         `json:"welcome_message"`
		StudentName    string         `json:"student_name"`
		ContextSummary ContextSummary `json:"context_summary"`
	}

	Recommendations struct {
		Success         bool           `json:"success"`
		Recommendations string         `json:"recommendations"`
		StudentName     string         `json:"student_name"`
		AnalysisSummary tutor.Summary  `json:"analysis_summary"`
		ContextSummary  ContextSummary `json:"context_summary"`
	}
)

func (sm *SendMessage) Validate(validate *validator.Validate) error {
	sm.Mensaje = core.CleanString(sm.Mensaje)
	return validate.Struct(sm)
}

func newMessages(convs []Conversacion) []Message {
	msgs := make([]Message, 0, len(convs))
	for _, c := range convs {
		msgs = append(msgs, Message{
			Mensaje:   c.Mensaje,
			EsUsuario: c.EsUsuario,
			Fecha:     c.FechaCreacion.UTC().Format(time.RFC3339),
		})
	}
	return msgs
}
