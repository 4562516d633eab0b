package tutor

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/ci"
	"github.com/trezcool/tutoria/core/inteligencia"
)

const defaultStudentName = "Alumno"

type (
	CIInfo struct {
		Valor     int    `json:"valor"`
		Categoria string `json:"categoria"`
	}

	// GradeRef is a calificacion as presented to the AI and the tutor views.
	GradeRef struct {
		Competencia  string `json:"competencia"`
		Calificacion string `json:"calificacion"`
		Descripcion  string `json:"descripcion"`
	}

	// StudentData is the context the AI reasons about.
	StudentData struct {
		AlumnoID               int                  `json:"alumno_id"`
		Nombre                 string               `json:"nombre"`
		CI                     *int                 `json:"ci"`
		Inteligencias          []inteligencia.Score `json:"inteligencias"`
		Calificaciones         []GradeRef           `json:"calificaciones"`
		RecomendacionesBasicas string               `json:"recomendaciones_basicas"`
	}

	Student struct {
		AlumnoID               int                  `json:"alumno_id"`
		Nombre                 string               `json:"nombre"`
		CI                     *CIInfo              `json:"ci"`
		Inteligencias          []inteligencia.Score `json:"inteligencias"`
		Calificaciones         []GradeRef           `json:"calificaciones"`
		Promedio               float64              `json:"promedio"`
		RecomendacionesBasicas string               `json:"recomendaciones_basicas"`
		CantidadCompetencias   int                  `json:"cantidad_competencias"`
	}

	GradeStats struct {
		TotalCalificaciones  int     `json:"total_calificaciones"`
		CalificacionesA      int     `json:"calificaciones_a"`
		CalificacionesB      int     `json:"calificaciones_b"`
		CalificacionesC      int     `json:"calificaciones_c"`
		CalificacionesD      int     `json:"calificaciones_d"`
		PorcentajeExcelente  float64 `json:"porcentaje_excelente"`
		PorcentajeBueno      float64 `json:"porcentaje_bueno"`
		PorcentajeRegular    float64 `json:"porcentaje_regular"`
		PorcentajeDeficiente float64 `json:"porcentaje_deficiente"`
	}

	StudentProfile struct {
		AlumnoID                   int                   `json:"alumno_id"`
		Nombre                     string                `json:"nombre"`
		CI                         *CIInfo               `json:"ci"`
		Inteligencias              []inteligencia.Score  `json:"inteligencias"`
		InteligenciasPredominantes []inteligencia.Score  `json:"inteligencias_predominantes"`
		CalificacionesPorCurso     map[string][]GradeRef `json:"calificaciones_por_curso"`
		Promedio                   float64               `json:"promedio"`
		RecomendacionesBasicas     string                `json:"recomendaciones_basicas"`
		Estadisticas               GradeStats            `json:"estadisticas"`
	}

	// Summary is the structured digest of an AI recommendation.
	Summary struct {
		Fortalezas                 []string `json:"fortalezas"`
		AreasMejora                []string `json:"areas_mejora"`
		RecomendacionesPrincipales []string `json:"recomendaciones_principales"`
		ActividadesSugeridas       []string `json:"actividades_sugeridas"`
	}

	Recommendations struct {
		Success         bool    `json:"success"`
		StudentName     string  `json:"student_name"`
		Recommendations string  `json:"recommendations"`
		AnalysisSummary Summary `json:"analysis_summary"`
		Error           *string `json:"error"`
	}

	ChatReply struct {
		Success            bool    `json:"success"`
		Response           string  `json:"response"`
		StudentName        string  `json:"student_name"`
		ConversationLength int     `json:"conversation_length"`
		Error              *string `json:"error"`
	}

	History struct {
		Success     bool               `json:"success"`
		Messages    []core.ChatMessage `json:"messages"`
		StudentName string             `json:"student_name"`
		LastUpdated *time.Time         `json:"last_updated"`
		Error       *string            `json:"error"`
	}

	// Conversation is the in-memory AI session about one alumno.
	// Messages[0:3] are the system prompt, the profile prompt and the initial recommendations.
	Conversation struct {
		SessionID   uuid.UUID
		Student     StudentData
		Messages    []core.ChatMessage
		LastUpdated time.Time
	}
)

// MissingContext reports whether the chat was refused because no recommendations were generated yet.
func (r ChatReply) MissingContext() bool {
	return !r.Success && r.Error != nil && *r.Error == NoContextMessage
}

func ciInfo(val *int) *CIInfo {
	if val == nil {
		return nil
	}
	return &CIInfo{Valor: *val, Categoria: ci.CategoryOf(*val)}
}

func gradeRefs(califs []alumno.Calificacion) []GradeRef {
	refs := make([]GradeRef, 0, len(califs))
	for _, c := range califs {
		refs = append(refs, GradeRef{Competencia: c.Competencia, Calificacion: c.Calificacion, Descripcion: c.Descripcion})
	}
	return refs
}

// NewStudentData builds the AI context of an alumno.
func NewStudentData(p alumno.Profile) StudentData {
	return StudentData{
		AlumnoID:               p.Alumno.ID,
		Nombre:                 p.Alumno.Nombre,
		CI:                     p.Alumno.CI,
		Inteligencias:          inteligencia.Scores(p.Inteligencias),
		Calificaciones:         gradeRefs(p.Calificaciones),
		RecomendacionesBasicas: p.Alumno.RecomendacionesBasicas,
	}
}

func NewStudent(p alumno.Profile) Student {
	refs := gradeRefs(p.Calificaciones)
	return Student{
		AlumnoID:               p.Alumno.ID,
		Nombre:                 p.Alumno.Nombre,
		CI:                     ciInfo(p.Alumno.CI),
		Inteligencias:          inteligencia.Scores(p.Inteligencias),
		Calificaciones:         refs,
		Promedio:               p.Alumno.PromedioCalificaciones,
		RecomendacionesBasicas: p.Alumno.RecomendacionesBasicas,
		CantidadCompetencias:   len(refs),
	}
}

// NewStudentProfile ranks the inteligencias by score, flags those within 80% of the best
// and groups the grades by curso.
func NewStudentProfile(p alumno.Profile) StudentProfile {
	scores := inteligencia.Scores(p.Inteligencias)
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Puntaje > scores[j].Puntaje })

	predominantes := []inteligencia.Score{}
	if len(scores) > 0 {
		threshold := scores[0].Puntaje * 0.8
		for _, s := range scores {
			if s.Puntaje >= threshold {
				predominantes = append(predominantes, s)
			}
		}
	}

	porCurso := make(map[string][]GradeRef)
	for _, c := range p.Calificaciones {
		porCurso[c.Curso] = append(porCurso[c.Curso], GradeRef{
			Competencia:  c.Competencia,
			Calificacion: c.Calificacion,
			Descripcion:  c.Descripcion,
		})
	}

	return StudentProfile{
		AlumnoID:                   p.Alumno.ID,
		Nombre:                     p.Alumno.Nombre,
		CI:                         ciInfo(p.Alumno.CI),
		Inteligencias:              scores,
		InteligenciasPredominantes: predominantes,
		CalificacionesPorCurso:     porCurso,
		Promedio:                   p.Alumno.PromedioCalificaciones,
		RecomendacionesBasicas:     p.Alumno.RecomendacionesBasicas,
		Estadisticas:               ComputeGradeStats(p.Calificaciones),
	}
}

func ComputeGradeStats(califs []alumno.Calificacion) GradeStats {
	st := GradeStats{TotalCalificaciones: len(califs)}
	for _, c := range califs {
		switch c.Calificacion {
		case core.GradeA:
			st.CalificacionesA++
		case core.GradeB:
			st.CalificacionesB++
		case core.GradeC:
			st.CalificacionesC++
		case core.GradeD:
			st.CalificacionesD++
		}
	}
	if st.TotalCalificaciones > 0 {
		pct := func(n int) float64 { return float64(n) / float64(st.TotalCalificaciones) * 100 }
		st.PorcentajeExcelente = pct(st.CalificacionesA)
		st.PorcentajeBueno = pct(st.CalificacionesB)
		st.PorcentajeRegular = pct(st.CalificacionesC)
		st.PorcentajeDeficiente = pct(st.CalificacionesD)
	}
	return st
}
