package clustering

import (
	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/inteligencia"
	"github.com/trezcool/tutoria/core/tutor"
)

type (
	ByAlgorithm struct {
		KMeans Analysis `json:"kmeans"`
		DBSCAN Analysis `json:"dbscan"`
	}

	RecommendationsByAlgorithm struct {
		KMeans Recommendations `json:"kmeans"`
		DBSCAN Recommendations `json:"dbscan"`
	}

	// Result is the outcome of a clustering run.
	Result struct {
		Success             bool                       `json:"success"`
		RunID               string                     `json:"run_id"`
		Message             string                     `json:"message"`
		AlumnosProcesados   int                        `json:"alumnos_procesados"`
		AlumnosActualizados int                        `json:"alumnos_actualizados"`
		Analisis            ByAlgorithm                `json:"analisis"`
		Recomendaciones     RecommendationsByAlgorithm `json:"recomendaciones"`
	}

	ClusterStats struct {
		Total                  int      `json:"total"`
		PromedioCI             *float64 `json:"promedio_ci"`
		PromedioCalificaciones float64  `json:"promedio_calificaciones"`
	}

	Statistics struct {
		KMeans     map[string]ClusterStats `json:"kmeans"`
		DBSCAN     map[string]ClusterStats `json:"dbscan"`
		SinCluster int                     `json:"sin_cluster"`
	}

	AlumnoClusters struct {
		AlumnoID               int     `json:"alumno_id"`
		Nombre                 string  `json:"nombre"`
		CI                     *int    `json:"ci"`
		PromedioCalificaciones float64 `json:"promedio_calificaciones"`
		CantidadCompetencias   int     `json:"cantidad_competencias"`
		ClusterKMeans          *int    `json:"cluster_kmeans"`
		ClusterDBSCAN          *int    `json:"cluster_dbscan"`
		RecomendacionesBasicas string  `json:"recomendaciones_basicas"`
	}

	AlumnoDetail struct {
		AlumnoClusters
		Inteligencias  []inteligencia.Score `json:"inteligencias"`
		Calificaciones []tutor.GradeRef     `json:"calificaciones"`
	}

	// Overview is the current distribution of alumnos across clusters.
	Overview struct {
		TotalAlumnos       int            `json:"total_alumnos"`
		ClustersKMeans     int            `json:"clusters_kmeans"`
		ClustersDBSCAN     int            `json:"clusters_dbscan"`
		Estadisticas       Statistics     `json:"estadisticas"`
		DistribucionKMeans map[string]int `json:"distribucion_kmeans"`
		DistribucionDBSCAN map[string]int `json:"distribucion_dbscan"`
	}
)

func newAlumnoClusters(p alumno.Profile) AlumnoClusters {
	a := p.Alumno
	return AlumnoClusters{
		AlumnoID:               a.ID,
		Nombre:                 a.Nombre,
		CI:                     a.CI,
		PromedioCalificaciones: a.PromedioCalificaciones,
		CantidadCompetencias:   a.CantidadCompetencias,
		ClusterKMeans:          a.ClusterKMeans,
		ClusterDBSCAN:          a.ClusterDBSCAN,
		RecomendacionesBasicas: a.RecomendacionesBasicas,
	}
}

// ComputeStatistics groups the alumnos by stored cluster. Alumnos never clustered by K-Means count as sin_cluster.
func ComputeStatistics(alumnos []alumno.Alumno) Statistics {
	stats := Statistics{
		KMeans: clusterStats(alumnos, func(a alumno.Alumno) *int { return a.ClusterKMeans }),
		DBSCAN: clusterStats(alumnos, func(a alumno.Alumno) *int { return a.ClusterDBSCAN }),
	}
	for _, a := range alumnos {
		if a.ClusterKMeans == nil {
			stats.SinCluster++
		}
	}
	return stats
}

func clusterStats(alumnos []alumno.Alumno, label func(alumno.Alumno) *int) map[string]ClusterStats {
	type acc struct {
		total  int
		ci     []float64
		grades []float64
	}
	groups := make(map[string]*acc)
	for _, a := range alumnos {
		l := label(a)
		if l == nil {
			continue
		}
		name := clusterName(*l)
		g, ok := groups[name]
		if !ok {
			g = &acc{}
			groups[name] = g
		}
		g.total++
		g.grades = append(g.grades, a.PromedioCalificaciones)
		if a.CI != nil {
			g.ci = append(g.ci, float64(*a.CI))
		}
	}

	out := make(map[string]ClusterStats, len(groups))
	for name, g := range groups {
		cs := ClusterStats{
			Total:                  g.total,
			PromedioCalificaciones: core.Round(core.Mean(g.grades), 2),
		}
		if len(g.ci) > 0 {
			m := core.Round(core.Mean(g.ci), 2)
			cs.PromedioCI = &m
		}
		out[name] = cs
	}
	return out
}

// ComputeOverview counts the alumnos per stored cluster; unassigned alumnos are left out of the distributions.
func ComputeOverview(alumnos []alumno.Alumno) Overview {
	ov := Overview{
		TotalAlumnos:       len(alumnos),
		Estadisticas:       ComputeStatistics(alumnos),
		DistribucionKMeans: make(map[string]int),
		DistribucionDBSCAN: make(map[string]int),
	}
	for _, a := range alumnos {
		if a.ClusterKMeans != nil {
			ov.DistribucionKMeans[clusterName(*a.ClusterKMeans)]++
		}
		if a.ClusterDBSCAN != nil {
			ov.DistribucionDBSCAN[clusterName(*a.ClusterDBSCAN)]++
		}
	}
	ov.ClustersKMeans = len(ov.DistribucionKMeans)
	ov.ClustersDBSCAN = len(ov.DistribucionDBSCAN)
	return ov
}
