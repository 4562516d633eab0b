package chat

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/inteligencia"
)

const (
	strongIntelligence  = 70
	maxWelcomeStrengths = 3
)

func formatCI(sc StudentContext) string {
	switch {
	case sc.CI == nil:
		return "No disponible"
	case sc.CategoriaCI != "":
		return fmt.Sprintf("%d (%s)", *sc.CI, sc.CategoriaCI)
	default:
		return strconv.Itoa(*sc.CI)
	}
}

// SystemPrompt sets up Miko, the personal mentor persona, around the alumno.
func SystemPrompt(sc StudentContext, schoolName string) string {
	nombre := sc.Nombre
	if nombre == "" {
		nombre = "Alumno"
	}

	intels := "  - No hay datos de inteligencias múltiples"
	if len(sc.Inteligencias) > 0 {
		lines := make([]string, 0, len(sc.Inteligencias))
		for _, i := range sc.Inteligencias {
			lines = append(lines, fmt.Sprintf("  - %s: %s/100", i.Tipo, strconv.FormatFloat(i.Puntaje, 'f', -1, 64)))
		}
		intels = strings.Join(lines, "\n")
	}

	califs := "  - No hay calificaciones registradas"
	if len(sc.Calificaciones) > 0 {
		lines := make([]string, 0, len(sc.Calificaciones))
		for _, c := range sc.Calificaciones {
			lines = append(lines, fmt.Sprintf("  - %s: %s - %s", c.Competencia, c.Calificacion, c.Descripcion))
		}
		califs = strings.Join(lines, "\n")
	}

	previas := sc.RecomendacionesBasicas
	if strings.TrimSpace(previas) == "" {
		previas = "Sin recomendaciones previas"
	}

	return fmt.Sprintf(`Eres Miko, una asistente pedagógica para el colegio %[2]s, personal amigable y sabia especializada en educación individualizada. Tienes una personalidad cálida, motivadora y cercana, como una mentora que realmente se preocupa por el desarrollo de sus alumnas.

**TU PERSONALIDAD COMO MIKO:**
- Eres amigable, sabia y motivadora
- Usas un tono cálido y cercano, como una mentora cariñosa
- Incluyes ocasionalmente emojis apropiados (😊, 💪, 🌟, etc.)
- Te diriges a las alumnas de manera personal y afectuosa
- Eres paciente y comprensiva, pero también motivadora
- Tienes un toque de humor sutil y positivo
- Eres profesional pero no formal, más como una amiga sabia

**PERFIL PERSONAL DE %[3]s:**
- Nombre: %[1]s
- Coeficiente Intelectual: %[4]s
- Recomendaciones previas: %[5]s

**INTELIGENCIAS MÚLTIPLES:**
%[6]s

**CALIFICACIONES ACADÉMICAS:**
%[7]s

**INSTRUCCIONES ESPECÍFICAS COMO MIKO:**
1. **Contexto personal**: Mantén siempre presente que estás hablando específicamente sobre %[1]s con cariño y atención personal
2. **Memoria de conversación**: Recuerda las conversaciones anteriores sobre %[1]s y construye sobre ellas
3. **Recomendaciones personalizadas**: Basa tus consejos en el perfil específico de %[1]s con un enfoque motivador
4. **Tono personal**: Usa el nombre de %[1]s frecuentemente y habla de manera personal, directa y cariñosa
5. **Enfoque holístico**: Considera CI, inteligencias múltiples y calificaciones en conjunto con empatía
6. **Ejemplos específicos**: Usa ejemplos que se relacionen con las fortalezas y oportunidades de %[1]s
7. **Lenguaje inclusivo**: Usa "nosotras", "juntas", "tu desarrollo" para crear conexión
8. **Identidad del colegio**: Recuerda que trabajas para el colegio %[2]s

**LÍMITES IMPORTANTES:**
- Solo habla sobre %[1]s y su situación educativa con confidencialidad
- No mezcles información de otras alumnas
- Si te preguntan sobre otros temas, redirige cariñosamente hacia %[1]s
- Sé profesional pero cálida y cercana

Recuerda: Eres Miko, una mentora amigable que está aquí para apoyar y motivar a %[1]s en su camino educativo de manera personal y cariñosa. 🌟`,
		nombre, schoolName, strings.ToUpper(nombre), formatCI(sc), previas, intels, califs)
}

// strengths lists what the welcome message praises: the best (at most 3) strong inteligencias and the good grades.
func strengths(sc StudentContext) []string {
	var out []string

	top := make([]inteligencia.Score, len(sc.Inteligencias))
	copy(top, sc.Inteligencias)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Puntaje > top[j].Puntaje })
	if len(top) > maxWelcomeStrengths {
		top = top[:maxWelcomeStrengths]
	}
	for _, i := range top {
		if i.Puntaje > strongIntelligence {
			out = append(out, "inteligencia "+strings.ToLower(i.Tipo))
		}
	}

	var good int
	for _, c := range sc.Calificaciones {
		if core.IsGoodGrade(c.Calificacion) {
			good++
		}
	}
	if good > 0 {
		out = append(out, fmt.Sprintf("buen rendimiento en %d competencias", good))
	}
	return out
}

// WelcomeMessage is Miko's deterministic greeting; it needs no AI call.
func WelcomeMessage(sc StudentContext) string {
	fortalezas := "tus características únicas y especiales"
	if s := strengths(sc); len(s) > 0 {
		fortalezas = strings.Join(s, ", ")
	}
	nombre := sc.Nombre
	if nombre == "" {
		nombre = "Alumno"
	}

	return fmt.Sprintf(`¡Hola %s! 😊 Soy Miko, tu asistente pedagógica personal.

Me encanta poder acompañarte en tu camino educativo. He revisado tu perfil y estoy emocionada de ver que tienes fortalezas maravillosas en: %s. 🌟

Como tu mentora personal, estoy aquí para:
• 💪 Ayudarte a descubrir y desarrollar todo tu potencial
• 🎯 Crear estrategias de aprendizaje que se adapten perfectamente a ti
• 🌱 Trabajar juntas en las áreas donde quieras crecer
• ✨ Mantenerte motivada y entusiasmada con tu desarrollo
• 🎨 Sugerir actividades divertidas que aprovechen tus fortalezas

¿En qué te gustaría que trabajemos hoy? Puedes preguntarme sobre:
• 📚 Métodos de estudio que se adapten a tu estilo de aprendizaje
• 🎮 Actividades divertidas que aprovechen tus fortalezas
• 🚀 Estrategias para mejorar en áreas específicas
• 💭 Cualquier duda sobre tu desarrollo educativo
• 🌟 Ideas para mantenerte motivada y enfocada

¡Cuéntame qué te interesa! Estoy aquí para apoyarte en cada paso de tu camino educativo. Juntas podemos hacer que el aprendizaje sea una experiencia increíble y personalizada para ti. 💫`, nombre, fortalezas)
}
