package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/chat"
	"github.com/trezcool/tutoria/core/tutor"
)

// Markdown renders md for the terminal, wrapped at width columns.
// The source text is returned as is when rendering fails.
func Markdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md + "\n"
	}
	out, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}

func StudentsTable(students []tutor.Student) string {
	data := make([][]string, 0, len(students))
	for _, s := range students {
		ciText := "-"
		if s.CI != nil {
			ciText = fmt.Sprintf("%d (%s)", s.CI.Valor, s.CI.Categoria)
		}
		data = append(data, []string{
			itoa(s.AlumnoID),
			s.Nombre,
			ciText,
			ftoa(s.Promedio),
			itoa(s.CantidadCompetencias),
			itoa(len(s.Inteligencias)),
		})
	}
	return Table("Estudiantes", []string{"ID", "Nombre", "CI", "Promedio", "Competencias", "Inteligencias"}, data)
}

func StudentProfile(p tutor.StudentProfile) string {
	ciText := "-"
	if p.CI != nil {
		ciText = fmt.Sprintf("%d (%s)", p.CI.Valor, p.CI.Categoria)
	}
	st := p.Estadisticas

	var sb strings.Builder
	sb.WriteString(card(
		p.Nombre,
		[2]string{"CI", ciText},
		[2]string{"Promedio", ftoa(p.Promedio)},
		[2]string{"Calificaciones", itoa(st.TotalCalificaciones)},
		[2]string{"A / B / C / D", fmt.Sprintf("%d / %d / %d / %d",
			st.CalificacionesA, st.CalificacionesB, st.CalificacionesC, st.CalificacionesD)},
		[2]string{"Excelente", ftoa(st.PorcentajeExcelente) + "%"},
	))

	if len(p.InteligenciasPredominantes) > 0 {
		names := make([]string, 0, len(p.InteligenciasPredominantes))
		for _, s := range p.InteligenciasPredominantes {
			names = append(names, fmt.Sprintf("%s (%s)", s.Tipo, ftoa(s.Puntaje)))
		}
		sb.WriteString(styles.Bold.Render("Inteligencias predominantes") + "\n")
		sb.WriteString(bullets(names) + "\n")
	}

	for _, curso := range sortedKeys(p.CalificacionesPorCurso) {
		grades := p.CalificacionesPorCurso[curso]
		data := make([][]string, 0, len(grades))
		for _, g := range grades {
			data = append(data, []string{g.Competencia, g.Calificacion, truncate(orDash(g.Descripcion), 40)})
		}
		sb.WriteString(Table(curso, []string{"Competencia", "Nota", "Descripción"}, data))
	}
	if p.RecomendacionesBasicas != "" {
		sb.WriteString(styles.Subtitle.Render(p.RecomendacionesBasicas) + "\n")
	}
	return sb.String()
}

// Recommendations renders the AI advice as markdown, followed by its structured digest.
func Recommendations(rec tutor.Recommendations, width int) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Recomendaciones para "+rec.StudentName) + "\n")
	if !rec.Success {
		msg := "no se pudieron generar las recomendaciones"
		if rec.Error != nil {
			msg = *rec.Error
		}
		sb.WriteString(styles.Error.Render(msg) + "\n")
		return sb.String()
	}
	sb.WriteString(Markdown(rec.Recommendations, width))
	sb.WriteString(summary(rec.AnalysisSummary))
	return sb.String()
}

func summary(s tutor.Summary) string {
	sections := []struct {
		title string
		items []string
	}{
		{"Fortalezas", s.Fortalezas},
		{"Áreas de mejora", s.AreasMejora},
		{"Recomendaciones principales", s.RecomendacionesPrincipales},
		{"Actividades sugeridas", s.ActividadesSugeridas},
	}
	var sb strings.Builder
	for _, sec := range sections {
		if len(sec.items) == 0 {
			continue
		}
		sb.WriteString(styles.Bold.Render(sec.title) + "\n" + bullets(sec.items) + "\n")
	}
	if sb.Len() == 0 {
		return ""
	}
	return styles.Card.Render(strings.TrimSuffix(sb.String(), "\n")) + "\n"
}

// Conversation renders the in-memory tutor session, skipping the system prompt.
func Conversation(h tutor.History, width int) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Conversación: "+h.StudentName) + "\n")
	if len(h.Messages) == 0 {
		sb.WriteString(styles.Muted.Render("Sin mensajes") + "\n")
		return sb.String()
	}
	for _, m := range h.Messages {
		switch m.Role {
		case core.RoleSystem:
			continue
		case core.RoleUser:
			sb.WriteString(styles.User.Render("Tú") + "\n" + m.Content + "\n\n")
		default:
			sb.WriteString(styles.Assistant.Render(strings.TrimSpace(Markdown(m.Content, width-4))) + "\n\n")
		}
	}
	return sb.String()
}

// ChatHistory renders the persisted conversation of a profesor about an alumno.
func ChatHistory(h chat.History, width int) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("Chat: %s (%d mensajes)", h.AlumnoNombre, h.TotalMensajes)) + "\n")
	if len(h.Mensajes) == 0 {
		sb.WriteString(styles.Muted.Render("Sin mensajes") + "\n")
		return sb.String()
	}
	for _, m := range h.Mensajes {
		stamp := styles.Muted.Render(m.Fecha)
		if m.EsUsuario {
			sb.WriteString(styles.User.Render("Tú") + " " + stamp + "\n" + m.Mensaje + "\n\n")
			continue
		}
		sb.WriteString(styles.Bold.Render("Miko") + " " + stamp + "\n")
		sb.WriteString(styles.Assistant.Render(strings.TrimSpace(Markdown(m.Mensaje, width-4))) + "\n\n")
	}
	return sb.String()
}

func ChatWelcome(w chat.Welcome, width int) string {
	cs := w.ContextSummary
	return Markdown(w.WelcomeMessage, width) + card(
		w.StudentName,
		[2]string{"CI", intPtr(cs.CI)},
		[2]string{"Inteligencias", itoa(cs.InteligenciasCount)},
		[2]string{"Calificaciones", itoa(cs.CalificacionesCount)},
	)
}
