package clustering

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/inteligencia"
)

func TestFeatures(t *testing.T) {
	ci := 120
	tests := []struct {
		name string
		p    alumno.Profile
		want []float64
	}{
		{
			name: "no data",
			p:    alumno.Profile{},
			want: []float64{100, 0, 0, 0, 0, 2, 2, 0, 0},
		},
		{
			name: "full profile",
			p: alumno.Profile{
				Alumno: alumno.Alumno{CI: &ci, PromedioCalificaciones: 3.5},
				Inteligencias: []inteligencia.Inteligencia{
					{Tipo: "Lógico", Puntaje: 80},
					{Tipo: "Musical", Puntaje: 60},
				},
				Calificaciones: []alumno.Calificacion{
					{Calificacion: "A"},
					{Calificacion: "B"},
					{Calificacion: "AD"},
				},
			},
			want: []float64{120, 70, 80, 10, 2, 3, 4, 3, 3.5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Features(tc.p)); diff != "" {
				t.Errorf("Features() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScale(t *testing.T) {
	got := Scale([][]float64{{1, 5}, {3, 5}})
	want := [][]float64{{-1, 0}, {1, 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scale() mismatch (-want +got):\n%s", diff)
	}
	if Scale(nil) != nil {
		t.Error("Scale(nil) should be nil")
	}
}
