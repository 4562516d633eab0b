package clustering

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/tutoria/core/alumno"
)

func row(ci, intel, grades float64) []float64 {
	f := make([]float64, numFeatures)
	f[FeatCI], f[FeatIntelMean], f[FeatGradeMean] = ci, intel, grades
	return f
}

func TestAnalyzeAndRecommend(t *testing.T) {
	features := [][]float64{
		row(120, 80, 4),
		row(116, 76, 3.5),
		row(85, 40, 1.5),
	}
	an := Analyze(TypeKMeans, features, []int{0, 0, 1})

	want := Analysis{
		ClusterType:         TypeKMeans,
		NClusters:           2,
		ClusterDistribution: map[string]int{"Cluster 0": 2, "Cluster 1": 1},
		ClusterCharacteristics: map[string]Characteristics{
			"Cluster 0": {Size: 2, MeanCI: 118, MeanIntelligence: 78, MeanGrades: 3.75},
			"Cluster 1": {Size: 1, MeanCI: 85, MeanIntelligence: 40, MeanGrades: 1.5},
		},
	}
	if diff := cmp.Diff(want, an); diff != "" {
		t.Errorf("Analyze() mismatch (-want +got):\n%s", diff)
	}

	recs := Recommend(an)
	assert.Equal(t, TypeKMeans, recs.ClusterType)
	assert.Equal(t, []string{"Se identificaron dos grupos principales de alumnos con perfiles distintos"}, recs.GeneralInsights)
	assert.Equal(t, []string{
		"Alumnos con alto potencial intelectual",
		"Fortalezas en inteligencias múltiples",
		"Buen rendimiento académico",
	}, recs.ClusterRecommendations["Cluster 0"])
	assert.Equal(t, []string{
		"Alumnos que requieren apoyo adicional",
		"Oportunidad de desarrollo en inteligencias múltiples",
		"Necesita mejorar el rendimiento académico",
	}, recs.ClusterRecommendations["Cluster 1"])
}

func TestRecommend_Insights(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{3, "Se identificaron tres grupos de alumnos: alto, medio y bajo rendimiento"},
		{1, "Se identificaron 1 grupos de alumnos con características únicas"},
		{5, "Se identificaron 5 grupos de alumnos con características únicas"},
	}
	for _, tc := range tests {
		recs := Recommend(Analysis{NClusters: tc.n})
		assert.Equal(t, []string{tc.want}, recs.GeneralInsights)
	}

	// average profiles get no advice
	recs := Recommend(Analysis{
		NClusters:              1,
		ClusterCharacteristics: map[string]Characteristics{"Cluster 0": {Size: 1, MeanCI: 100, MeanIntelligence: 60, MeanGrades: 2.8}},
	})
	assert.Empty(t, recs.ClusterRecommendations["Cluster 0"])
}

func TestComputeStatistics(t *testing.T) {
	ptr := func(i int) *int { return &i }
	alumnos := []alumno.Alumno{
		{ID: 1, CI: ptr(110), PromedioCalificaciones: 3, ClusterKMeans: ptr(0), ClusterDBSCAN: ptr(1)},
		{ID: 2, CI: ptr(100), PromedioCalificaciones: 2, ClusterKMeans: ptr(0), ClusterDBSCAN: ptr(0)},
		{ID: 3, PromedioCalificaciones: 1, ClusterKMeans: ptr(1), ClusterDBSCAN: ptr(1)},
		{ID: 4},
	}

	stats := ComputeStatistics(alumnos)
	ci105 := 105.0
	ci100 := 100.0
	ci110 := 110.0
	want := Statistics{
		KMeans: map[string]ClusterStats{
			"Cluster 0": {Total: 2, PromedioCI: &ci105, PromedioCalificaciones: 2.5},
			"Cluster 1": {Total: 1, PromedioCalificaciones: 1},
		},
		DBSCAN: map[string]ClusterStats{
			"Cluster 0": {Total: 1, PromedioCI: &ci100, PromedioCalificaciones: 2},
			"Cluster 1": {Total: 2, PromedioCI: &ci110, PromedioCalificaciones: 2},
		},
		SinCluster: 1,
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("ComputeStatistics() mismatch (-want +got):\n%s", diff)
	}

	ov := ComputeOverview(alumnos)
	assert.Equal(t, 4, ov.TotalAlumnos)
	assert.Equal(t, 2, ov.ClustersKMeans)
	assert.Equal(t, 2, ov.ClustersDBSCAN)
	assert.Equal(t, map[string]int{"Cluster 0": 2, "Cluster 1": 1}, ov.DistribucionKMeans)
	assert.Equal(t, map[string]int{"Cluster 0": 1, "Cluster 1": 2}, ov.DistribucionDBSCAN)
}
