package tutor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/inteligencia"
)

func TestNewStudentProfile(t *testing.T) {
	ci := 95
	p := alumno.Profile{
		Alumno: alumno.Alumno{ID: 7, Nombre: "Luis Paz", CI: &ci, PromedioCalificaciones: 3.25},
		Inteligencias: []inteligencia.Inteligencia{
			{Tipo: "Musical", Puntaje: 60},
			{Tipo: "Lingüística", Puntaje: 90},
			{Tipo: "Espacial", Puntaje: 75},
		},
		Calificaciones: []alumno.Calificacion{
			{Competencia: "C1_Matematica", Curso: "Matematica", Calificacion: "A"},
			{Competencia: "C2_Matematica", Curso: "Matematica", Calificacion: "B"},
			{Competencia: "C1_Comunicacion", Curso: "Comunicacion", Calificacion: "A"},
			{Competencia: "C2_Comunicacion", Curso: "Comunicacion", Calificacion: "D"},
		},
	}

	sp := NewStudentProfile(p)
	assert.Equal(t, &CIInfo{Valor: 95, Categoria: "Promedio"}, sp.CI)
	assert.Equal(t, []inteligencia.Score{
		{Tipo: "Lingüística", Puntaje: 90},
		{Tipo: "Espacial", Puntaje: 75},
		{Tipo: "Musical", Puntaje: 60},
	}, sp.Inteligencias)
	assert.Equal(t, []inteligencia.Score{{Tipo: "Lingüística", Puntaje: 90}, {Tipo: "Espacial", Puntaje: 75}}, sp.InteligenciasPredominantes)
	assert.Len(t, sp.CalificacionesPorCurso["Matematica"], 2)
	assert.Len(t, sp.CalificacionesPorCurso["Comunicacion"], 2)
	assert.Equal(t, GradeStats{
		TotalCalificaciones:  4,
		CalificacionesA:      2,
		CalificacionesB:      1,
		CalificacionesD:      1,
		PorcentajeExcelente:  50,
		PorcentajeBueno:      25,
		PorcentajeDeficiente: 25,
	}, sp.Estadisticas)
}

func TestNewStudent_NoCI(t *testing.T) {
	s := NewStudent(alumno.Profile{Alumno: alumno.Alumno{ID: 1, Nombre: "Ana"}})
	assert.Nil(t, s.CI)
	assert.Equal(t, 0, s.CantidadCompetencias)
	assert.NotNil(t, s.Inteligencias)
}
