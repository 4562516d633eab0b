package tutor

import (
	"fmt"
	"strconv"
	"strings"
)

func formatCI(val *int) string {
	if val == nil {
		return "No disponible"
	}
	return strconv.Itoa(*val)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func inteligenciasLines(sd StudentData, empty string) string {
	if len(sd.Inteligencias) == 0 {
		return empty
	}
	lines := make([]string, 0, len(sd.Inteligencias))
	for _, i := range sd.Inteligencias {
		lines = append(lines, fmt.Sprintf("  - %s: %s/100", i.Tipo, formatScore(i.Puntaje)))
	}
	return strings.Join(lines, "\n")
}

func calificacionesLines(sd StudentData, empty string) string {
	if len(sd.Calificaciones) == 0 {
		return empty
	}
	lines := make([]string, 0, len(sd.Calificaciones))
	for _, c := range sd.Calificaciones {
		lines = append(lines, fmt.Sprintf("  - %s: %s", c.Competencia, c.Calificacion))
	}
	return strings.Join(lines, "\n")
}

func studentName(sd StudentData) string {
	if sd.Nombre == "" {
		return defaultStudentName
	}
	return sd.Nombre
}

// SystemPrompt keeps the assistant focused on one alumno during a conversation.
func SystemPrompt(sd StudentData) string {
	nombre := studentName(sd)
	return fmt.Sprintf(`Eres una asistente pedagógica especializada en educación personalizada. Estás conversando sobre el alumno %[1]s.

CONTEXTO DEL ALUMNO:
- Nombre: %[1]s
- CI: %[2]s
- Inteligencias múltiples:
%[3]s
- Calificaciones:
%[4]s

INSTRUCCIONES:
1. Mantén siempre el contexto del alumno en mente
2. Responde de manera amigable y profesional
3. Proporciona consejos prácticos y específicos
4. Si te preguntan sobre otros temas, redirige amablemente la conversación hacia el alumno
5. Usa ejemplos concretos relacionados con el perfil del alumno
6. Mantén un tono motivador y constructivo

Recuerda que estás aquí para ayudar al docente a entender mejor y trabajar más efectivamente con %[1]s.`,
		nombre, formatCI(sd.CI), inteligenciasLines(sd, ""), calificacionesLines(sd, ""))
}

// StudentPrompt asks for a full pedagogical analysis of the alumno.
func StudentPrompt(sd StudentData) string {
	previas := sd.RecomendacionesBasicas
	if strings.TrimSpace(previas) == "" {
		previas = "Sin recomendaciones previas"
	}
	return fmt.Sprintf(`
Eres una IA educativa especializada en análisis pedagógico y recomendaciones personalizadas. Tu objetivo es ayudar a los docentes a entender mejor a sus alumnos y sugerir estrategias de enseñanza efectivas.

**PERFIL DEL ALUMNO:**
- Nombre: %s
- Coeficiente Intelectual (CI): %s
- Recomendaciones previas: %s

**INTELIGENCIAS MÚLTIPLES:**
%s

**CALIFICACIONES ACADÉMICAS:**
%s

**TAREAS PARA TI:**
1. **Saludo personalizado**: Dirígete al alumno por su nombre y pregúntale qué le gustaría trabajar hoy.

2. **Análisis del perfil**:
   - Interpreta los datos del alumno considerando CI, inteligencias múltiples y calificaciones
   - Identifica fortalezas y áreas de oportunidad
   - Detecta posibles causas de bajo rendimiento en ciertas áreas

3. **Recomendaciones pedagógicas** (mínimo 3):
   - Sugiere métodos de estudio específicos para sus inteligencias predominantes
   - Propón estrategias para mejorar en áreas débiles
   - Recomienda actividades que aprovechen sus fortalezas

4. **Estrategias de motivación**:
   - Sugiere formas de mantener al alumno motivado
   - Propón actividades que conecten con sus intereses

5. **Advertencias importantes**:
   - Advierte sobre posibles prejuicios al juzgar solo por CI o calificaciones
   - Enfatiza la importancia del enfoque holístico

**FORMATO DE RESPUESTA:**
- Usa un tono amigable y motivador
- Sé específico y práctico en las recomendaciones
- Incluye ejemplos concretos de actividades
- Mantén un lenguaje claro para docentes y padres

Genera una respuesta completa y estructurada que ayude al docente a trabajar mejor con este alumno.
`,
		studentName(sd), formatCI(sd.CI), previas,
		inteligenciasLines(sd, "  - No hay datos de inteligencias múltiples"),
		calificacionesLines(sd, "  - No hay calificaciones registradas"))
}

var sectionKeywords = []struct {
	section  int
	keywords []string
}{
	{sectionFortalezas, []string{"fortaleza"}},
	{sectionAreasMejora, []string{"mejora", "oportunidad", "débil"}},
	{sectionRecomendaciones, []string{"recomendación", "sugerencia"}},
	{sectionActividades, []string{"actividad", "ejercicio"}},
}

const (
	sectionNone = iota
	sectionFortalezas
	sectionAreasMejora
	sectionRecomendaciones
	sectionActividades
)

// ExtractSummary scans an AI answer for section headings and collects the bullets under each.
// A line naming a section switches to it, even when it is itself a bullet.
func ExtractSummary(text string) Summary {
	sum := Summary{
		Fortalezas:                 []string{},
		AreasMejora:                []string{},
		RecomendacionesPrincipales: []string{},
		ActividadesSugeridas:       []string{},
	}

	current := sectionNone
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switched := false
		for _, sk := range sectionKeywords {
			for _, kw := range sk.keywords {
				if strings.Contains(lower, kw) {
					current, switched = sk.section, true
					break
				}
			}
			if switched {
				break
			}
		}
		if switched {
			continue
		}

		bullet, ok := trimBullet(line)
		if !ok {
			continue
		}
		switch current {
		case sectionFortalezas:
			sum.Fortalezas = append(sum.Fortalezas, bullet)
		case sectionAreasMejora:
			sum.AreasMejora = append(sum.AreasMejora, bullet)
		case sectionRecomendaciones:
			sum.RecomendacionesPrincipales = append(sum.RecomendacionesPrincipales, bullet)
		case sectionActividades:
			sum.ActividadesSugeridas = append(sum.ActividadesSugeridas, bullet)
		}
	}
	return sum
}

func trimBullet(line string) (string, bool) {
	for _, prefix := range []string{"-", "•", "*"} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}
