package clustering

import (
	"fmt"
	"sort"

	"github.com/trezcool/tutoria/core"
)

// Algorithm names, as reported in analyses.
const (
	TypeKMeans = "K-Means"
	TypeDBSCAN = "DBSCAN"
)

type (
	Characteristics struct {
		Size             int     `json:"size"`
		MeanCI           float64 `json:"mean_ci"`
		MeanIntelligence float64 `json:"mean_intelligence"`
		MeanGrades       float64 `json:"mean_grades"`
	}

	Analysis struct {
		ClusterType            string                     `json:"cluster_type"`
		NClusters              int                        `json:"n_clusters"`
		ClusterDistribution    map[string]int             `json:"cluster_distribution"`
		ClusterCharacteristics map[string]Characteristics `json:"cluster_characteristics"`
	}

	Recommendations struct {
		ClusterType            string              `json:"cluster_type"`
		GeneralInsights        []string            `json:"general_insights"`
		ClusterRecommendations map[string][]string `json:"cluster_recommendations"`
	}
)

func clusterName(label int) string {
	return fmt.Sprintf("Cluster %d", label)
}

// Analyze describes each cluster using the raw (unscaled) features.
func Analyze(clusterType string, features [][]float64, labels []int) Analysis {
	members := make(map[int][][]float64)
	for i, l := range labels {
		members[l] = append(members[l], features[i])
	}

	an := Analysis{
		ClusterType:            clusterType,
		NClusters:              len(members),
		ClusterDistribution:    make(map[string]int, len(members)),
		ClusterCharacteristics: make(map[string]Characteristics, len(members)),
	}
	for l, rows := range members {
		var ci, intel, grades []float64
		for _, r := range rows {
			ci = append(ci, r[FeatCI])
			intel = append(intel, r[FeatIntelMean])
			grades = append(grades, r[FeatGradeMean])
		}
		name := clusterName(l)
		an.ClusterDistribution[name] = len(rows)
		an.ClusterCharacteristics[name] = Characteristics{
			Size:             len(rows),
			MeanCI:           core.Mean(ci),
			MeanIntelligence: core.Mean(intel),
			MeanGrades:       core.Mean(grades),
		}
	}
	return an
}

// Recommend turns an analysis into pedagogical insights.
func Recommend(an Analysis) Recommendations {
	recs := Recommendations{
		ClusterType:            an.ClusterType,
		ClusterRecommendations: make(map[string][]string, len(an.ClusterCharacteristics)),
	}

	switch an.NClusters {
	case 2:
		recs.GeneralInsights = []string{"Se identificaron dos grupos principales de alumnos con perfiles distintos"}
	case 3:
		recs.GeneralInsights = []string{"Se identificaron tres grupos de alumnos: alto, medio y bajo rendimiento"}
	default:
		recs.GeneralInsights = []string{
			fmt.Sprintf("Se identificaron %d grupos de alumnos con características únicas", an.NClusters),
		}
	}

	names := make([]string, 0, len(an.ClusterCharacteristics))
	for name := range an.ClusterCharacteristics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		recs.ClusterRecommendations[name] = clusterAdvice(an.ClusterCharacteristics[name])
	}
	return recs
}

func clusterAdvice(c Characteristics) []string {
	advice := []string{}

	switch {
	case c.MeanCI > 110:
		advice = append(advice, "Alumnos con alto potencial intelectual")
	case c.MeanCI < 90:
		advice = append(advice, "Alumnos que requieren apoyo adicional")
	}
	switch {
	case c.MeanIntelligence > 70:
		advice = append(advice, "Fortalezas en inteligencias múltiples")
	case c.MeanIntelligence < 50:
		advice = append(advice, "Oportunidad de desarrollo en inteligencias múltiples")
	}
	switch {
	case c.MeanGrades > 3:
		advice = append(advice, "Buen rendimiento académico")
	case c.MeanGrades < 2.5:
		advice = append(advice, "Necesita mejorar el rendimiento académico")
	}
	return advice
}
