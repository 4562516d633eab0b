package views

import (
	"fmt"
	"strings"

	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/ci"
	"github.com/trezcool/tutoria/core/competencia"
	"github.com/trezcool/tutoria/core/curso"
	"github.com/trezcool/tutoria/core/inteligencia"
	"github.com/trezcool/tutoria/core/profesor"
)

func AlumnosTable(alumnos []alumno.View) string {
	data := make([][]string, 0, len(alumnos))
	for _, a := range alumnos {
		data = append(data, []string{
			itoa(a.ID),
			a.Nombre,
			ftoa(a.PromedioCalificaciones),
			itoa(a.CantidadCompetencias),
			intPtr(a.CI),
			intPtr(a.ClusterKMeans),
			intPtr(a.ClusterDBSCAN),
			itoa(len(a.Inteligencias)),
		})
	}
	return Table("Alumnos", []string{"ID", "Nombre", "Promedio", "Competencias", "CI", "K-Means", "DBSCAN", "Inteligencias"}, data)
}

func CalificacionesTable(califs []alumno.Calificacion) string {
	data := make([][]string, 0, len(califs))
	for _, c := range califs {
		data = append(data, []string{
			orDash(c.Curso),
			c.Competencia,
			c.Calificacion,
			truncate(orDash(c.Conclusion), 40),
		})
	}
	return Table("Calificaciones", []string{"Curso", "Competencia", "Nota", "Conclusión"}, data)
}

func CursosTable(cursos []curso.Curso) string {
	data := make([][]string, 0, len(cursos))
	for _, c := range cursos {
		data = append(data, []string{itoa(c.ID), c.Nombre})
	}
	return Table("Cursos", []string{"ID", "Nombre"}, data)
}

func CompetenciasTable(comps []competencia.View) string {
	data := make([][]string, 0, len(comps))
	for _, c := range comps {
		data = append(data, []string{
			itoa(c.ID),
			itoa(c.CursoID),
			c.Codigo,
			truncate(orDash(c.Descripcion), 50),
		})
	}
	return Table("Competencias", []string{"ID", "Curso", "Código", "Descripción"}, data)
}

func InteligenciasTable(intels []inteligencia.Inteligencia) string {
	data := make([][]string, 0, len(intels))
	for _, i := range intels {
		data = append(data, []string{itoa(i.ID), itoa(i.AlumnoID), i.Tipo, ftoa(i.Puntaje)})
	}
	return Table("Inteligencias", []string{"ID", "Alumno", "Tipo", "Puntaje"}, data)
}

// InteligenciaStats renders a summary card followed by one bar per inteligencia.
func InteligenciaStats(st inteligencia.Stats) string {
	var sb strings.Builder
	sb.WriteString(card(
		st.NombreAlumno,
		[2]string{"Inteligencias", itoa(st.TotalInteligencias)},
		[2]string{"Promedio", ftoa(st.Promedio)},
		[2]string{"Máxima", fmt.Sprintf("%s (%s)", st.InteligenciaMaxima, ftoa(st.PuntajeMaximo))},
		[2]string{"Mínimo", ftoa(st.PuntajeMinimo)},
	))
	for _, s := range st.Inteligencias {
		sb.WriteString(styles.Label.Render(s.Tipo))
		sb.WriteString(bar(s.Puntaje, 100, 30))
		sb.WriteString(" " + ftoa(s.Puntaje) + "\n")
	}
	return sb.String()
}

// bar draws value as a proportion of total over width cells.
func bar(value, total float64, width int) string {
	if total <= 0 {
		return ""
	}
	n := int(value / total * float64(width))
	if n < 0 {
		n = 0
	} else if n > width {
		n = width
	}
	return styles.Success.Render(strings.Repeat("█", n)) + styles.Muted.Render(strings.Repeat("░", width-n))
}

func CITable(records []ci.Record) string {
	data := make([][]string, 0, len(records))
	for _, r := range records {
		data = append(data, []string{
			itoa(r.AlumnoID),
			itoa(r.ValorCI),
			ci.CategoryOf(r.ValorCI),
			strPtr(r.TipoTest),
			strPtr(r.FechaTest),
		})
	}
	return Table("Coeficiente intelectual", []string{"Alumno", "CI", "Categoría", "Test", "Fecha"}, data)
}

func CIStats(st ci.Stats) string {
	var sb strings.Builder
	sb.WriteString(card(
		"Estadísticas de CI",
		[2]string{"Alumnos", itoa(st.TotalAlumnos)},
		[2]string{"Promedio", ftoa(st.PromedioCI)},
		[2]string{"Máximo", itoa(st.CIMaximo)},
		[2]string{"Mínimo", itoa(st.CIMinimo)},
	))
	data := make([][]string, 0, len(ci.Categories))
	for _, c := range ci.Categories {
		b := st.AlumnosPorRango[c.Name]
		data = append(data, []string{c.Name, fmt.Sprintf("%d-%d", c.Min, c.Max), itoa(b.Count)})
	}
	sb.WriteString(Table("", []string{"Categoría", "Rango", "Alumnos"}, data))
	return sb.String()
}

func CIResumen(sum ci.Summary) string {
	return card(
		sum.NombreAlumno,
		[2]string{"CI", itoa(sum.ValorCI)},
		[2]string{"Categoría", sum.Categoria},
		[2]string{"Percentil", floatPtr(sum.Percentil)},
	)
}

func CIRango(alumnos []ci.InRange) string {
	data := make([][]string, 0, len(alumnos))
	for _, a := range alumnos {
		data = append(data, []string{itoa(a.AlumnoID), a.Nombre, itoa(a.CI)})
	}
	return Table("Alumnos en rango", []string{"Alumno", "Nombre", "CI"}, data)
}

func ProfesoresTable(profs []profesor.Profesor) string {
	data := make([][]string, 0, len(profs))
	for _, p := range profs {
		data = append(data, []string{itoa(p.ID), p.Nombre, p.DNI, orDash(p.Email)})
	}
	return Table("Profesores", []string{"ID", "Nombre", "DNI", "Email"}, data)
}

func ProfesorStats(st profesor.Stats) string {
	var sb strings.Builder
	sb.WriteString(card(
		st.Nombre,
		[2]string{"Cursos", itoa(st.TotalCursos)},
		[2]string{"Alumnos", itoa(st.TotalAlumnos)},
		[2]string{"Promedio calificaciones", ftoa(st.PromedioCalificaciones)},
	))
	sb.WriteString(CursosTable(st.CursosAsignados))
	return sb.String()
}
