package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/tutoria/core/inteligencia"
	"github.com/trezcool/tutoria/core/tutor"
)

func TestStrengths(t *testing.T) {
	tests := []struct {
		name string
		sc   StudentContext
		want []string
	}{
		{name: "nothing", sc: StudentContext{}, want: nil},
		{
			name: "top three over 70",
			sc: StudentContext{Inteligencias: []inteligencia.Score{
				{Tipo: "Musical", Puntaje: 71},
				{Tipo: "Lingüística", Puntaje: 95},
				{Tipo: "Espacial", Puntaje: 80},
				{Tipo: "Naturalista", Puntaje: 90},
				{Tipo: "Kinestésica", Puntaje: 40},
			}},
			want: []string{"inteligencia lingüística", "inteligencia naturalista", "inteligencia espacial"},
		},
		{
			name: "exactly 70 is not a strength",
			sc:   StudentContext{Inteligencias: []inteligencia.Score{{Tipo: "Musical", Puntaje: 70}}},
			want: nil,
		},
		{
			name: "good grades",
			sc: StudentContext{Calificaciones: []tutor.GradeRef{
				{Calificacion: "A"}, {Calificacion: "B"}, {Calificacion: "C"},
			}},
			want: []string{"buen rendimiento en 2 competencias"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, strengths(tt.sc))
		})
	}
}

func TestWelcomeMessage(t *testing.T) {
	msg := WelcomeMessage(StudentContext{Nombre: "Ana Torres"})
	assert.Contains(t, msg, "¡Hola Ana Torres! 😊 Soy Miko")
	assert.Contains(t, msg, "fortalezas maravillosas en: tus características únicas y especiales. 🌟")

	msg = WelcomeMessage(StudentContext{
		Nombre:         "Ana Torres",
		Inteligencias:  []inteligencia.Score{{Tipo: "Musical", Puntaje: 88}},
		Calificaciones: []tutor.GradeRef{{Calificacion: "A"}},
	})
	assert.Contains(t, msg, "fortalezas maravillosas en: inteligencia musical, buen rendimiento en 1 competencias. 🌟")
}

func TestSystemPrompt(t *testing.T) {
	ci := 125
	sc := StudentContext{
		Nombre:         "Ana Torres",
		CI:             &ci,
		CategoriaCI:    "Superior",
		Inteligencias:  []inteligencia.Score{{Tipo: "Musical", Puntaje: 88}},
		Calificaciones: []tutor.GradeRef{{Competencia: "C1_Arte", Calificacion: "B", Descripcion: "Expresa ideas"}},
	}
	prompt := SystemPrompt(sc, "San Martín de Porres")
	assert.Contains(t, prompt, "Eres Miko, una asistente pedagógica para el colegio San Martín de Porres")
	assert.Contains(t, prompt, "**PERFIL PERSONAL DE ANA TORRES:**")
	assert.Contains(t, prompt, "- Coeficiente Intelectual: 125 (Superior)")
	assert.Contains(t, prompt, "  - Musical: 88/100")
	assert.Contains(t, prompt, "  - C1_Arte: B - Expresa ideas")
	assert.Contains(t, prompt, "- Recomendaciones previas: Sin recomendaciones previas")
}
