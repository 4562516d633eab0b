package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/trezcool/tutoria/core/clustering"
	"github.com/trezcool/tutoria/core/importer"
)

// ClusteringDashboard shows both algorithms side by side, then the alumnos with their clusters.
func ClusteringDashboard(ov clustering.Overview, alumnos []clustering.AlumnoClusters) string {
	var sb strings.Builder
	sb.WriteString(card(
		"Clustering",
		[2]string{"Alumnos", itoa(ov.TotalAlumnos)},
		[2]string{"Clusters K-Means", itoa(ov.ClustersKMeans)},
		[2]string{"Clusters DBSCAN", itoa(ov.ClustersDBSCAN)},
		[2]string{"Sin cluster", itoa(ov.Estadisticas.SinCluster)},
	))
	sb.WriteString(statsSideBySide(ov.Estadisticas))
	sb.WriteString(ClusteredAlumnosTable(alumnos))
	return sb.String()
}

func ClusteringStatistics(st clustering.Statistics) string {
	return statsSideBySide(st) + styles.Muted.Render(fmt.Sprintf("Sin cluster: %d", st.SinCluster)) + "\n"
}

func statsSideBySide(st clustering.Statistics) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		clusterStats("K-Means", st.KMeans),
		"  ",
		clusterStats("DBSCAN", st.DBSCAN),
	) + "\n"
}

func clusterStats(algo string, stats map[string]clustering.ClusterStats) string {
	data := make([][]string, 0, len(stats))
	for _, name := range sortedKeys(stats) {
		st := stats[name]
		data = append(data, []string{name, itoa(st.Total), floatPtr(st.PromedioCI), ftoa(st.PromedioCalificaciones)})
	}
	return Table(algo, []string{"Cluster", "Alumnos", "CI", "Promedio"}, data)
}

func ClusteredAlumnosTable(alumnos []clustering.AlumnoClusters) string {
	data := make([][]string, 0, len(alumnos))
	for _, a := range alumnos {
		data = append(data, []string{
			itoa(a.AlumnoID),
			a.Nombre,
			intPtr(a.CI),
			ftoa(a.PromedioCalificaciones),
			intPtr(a.ClusterKMeans),
			intPtr(a.ClusterDBSCAN),
		})
	}
	return Table("Alumnos", []string{"ID", "Nombre", "CI", "Promedio", "K-Means", "DBSCAN"}, data)
}

func ClusteredAlumno(d clustering.AlumnoDetail) string {
	var sb strings.Builder
	sb.WriteString(card(
		d.Nombre,
		[2]string{"CI", intPtr(d.CI)},
		[2]string{"Promedio", ftoa(d.PromedioCalificaciones)},
		[2]string{"Competencias", itoa(d.CantidadCompetencias)},
		[2]string{"Cluster K-Means", intPtr(d.ClusterKMeans)},
		[2]string{"Cluster DBSCAN", intPtr(d.ClusterDBSCAN)},
	))
	scores := make([][]string, 0, len(d.Inteligencias))
	for _, s := range d.Inteligencias {
		scores = append(scores, []string{s.Tipo, ftoa(s.Puntaje)})
	}
	sb.WriteString(Table("Inteligencias", []string{"Tipo", "Puntaje"}, scores))
	grades := make([][]string, 0, len(d.Calificaciones))
	for _, g := range d.Calificaciones {
		grades = append(grades, []string{g.Competencia, g.Calificacion})
	}
	sb.WriteString(Table("Calificaciones", []string{"Competencia", "Nota"}, grades))
	return sb.String()
}

// ClusteringResult reports a clustering run with the insights of each algorithm.
func ClusteringResult(res clustering.Result) string {
	var sb strings.Builder
	sb.WriteString(styles.Success.Render(res.Message) + "\n")
	sb.WriteString(styles.Muted.Render(fmt.Sprintf("run %s, %d alumnos actualizados", res.RunID, res.AlumnosActualizados)) + "\n")
	for _, rec := range []clustering.Recommendations{res.Recomendaciones.KMeans, res.Recomendaciones.DBSCAN} {
		if len(rec.GeneralInsights) == 0 && len(rec.ClusterRecommendations) == 0 {
			continue
		}
		sb.WriteString(styles.Title.Render(rec.ClusterType) + "\n")
		if len(rec.GeneralInsights) > 0 {
			sb.WriteString(bullets(rec.GeneralInsights) + "\n")
		}
		for _, name := range sortedKeys(rec.ClusterRecommendations) {
			sb.WriteString(styles.Bold.Render(name) + "\n" + bullets(rec.ClusterRecommendations[name]) + "\n")
		}
	}
	return sb.String()
}

func ImportResult(res importer.Result) string {
	var sb strings.Builder
	sb.WriteString(styles.Success.Render(res.Mensaje) + "\n")
	sb.WriteString(card(
		"Importación",
		[2]string{"Alumnos procesados", itoa(res.AlumnosProcesados)},
		[2]string{"Alumnos creados", itoa(res.AlumnosCreados)},
		[2]string{"Alumnos actualizados", itoa(res.AlumnosActualizados)},
		[2]string{"Cursos", itoa(res.CursosProcesados)},
		[2]string{"Competencias", itoa(res.CompetenciasProcesadas)},
		[2]string{"Inteligencias", itoa(res.Inteligencias.Procesadas)},
		[2]string{"Alumnos con CI", itoa(res.CI.AlumnosConCI)},
	))
	if msg := res.Inteligencias.ErrorMensaje; msg != nil {
		sb.WriteString(styles.Warning.Render("Inteligencias: "+*msg) + "\n")
	}
	if msg := res.CI.ErrorMensaje; msg != nil {
		sb.WriteString(styles.Warning.Render("CI: "+*msg) + "\n")
	}
	return sb.String()
}
