package tests

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/services/email"
	"github.com/trezcool/tutoria/tests"
)

const recommendationReply = `## Fortalezas
- Razonamiento lógico
## Áreas de mejora
- Comprensión lectora
## Actividades sugeridas
- Juegos de estrategia`

func Test_tutorApi(t *testing.T) {
	app := newTestApp(t, recommendationReply, "Puede practicar con acertijos.")
	c := testutil.CreateCurso(t, app.repos.Curso, "matematicas")
	comp := testutil.CreateCompetencia(t, app.repos.Competencia, c.ID, "1_matematicas_c1", "Resuelve problemas")
	ana := testutil.CreateAlumno(t, app.repos.Alumno, "Ana Torres", testutil.IntPtr(115))
	testutil.Grade(t, app.repos.Alumno, ana.ID, comp.ID, "A")
	testutil.CreateInteligencia(t, app.repos.Inteligencia, ana.ID, "Lógico-matemática", 90)
	testutil.CreateInteligencia(t, app.repos.Inteligencia, ana.ID, "Musical", 40)
	id := strconv.Itoa(ana.ID)

	rec := app.do(t, http.MethodGet, "/api/ai-assistant/students", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, int64(1), gjson.Get(body, "total").Int())
	assert.Equal(t, "Promedio Alto", gjson.Get(body, "students.0.ci.categoria").String())

	rec = app.do(t, http.MethodGet, "/api/ai-assistant/student/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = rec.Body.String()
	assert.Equal(t, "Lógico-matemática", gjson.Get(body, "alumno.inteligencias.0.tipo").String())
	assert.Equal(t, int64(1), gjson.Get(body, "alumno.inteligencias_predominantes.#").Int())
	assert.Equal(t, int64(1), gjson.Get(body, "alumno.estadisticas.calificaciones_a").Int())
	assert.Equal(t, "A", gjson.Get(body, "alumno.calificaciones_por_curso.matematicas.0.calificacion").String())

	app.run(t, []httpTest{
		{
			name:     "student: not found",
			method:   http.MethodGet,
			path:     "/api/ai-assistant/student/99",
			wantCode: http.StatusNotFound,
			wantData: detail("Alumno no encontrado"),
		},
		{
			name:     "chat: no context yet",
			method:   http.MethodPost,
			path:     "/api/ai-assistant/chat/" + id,
			body:     map[string]string{"message": "¿Cómo la ayudo?"},
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{
				"success":             false,
				"response":            "",
				"student_name":        "Ana Torres",
				"conversation_length": 0,
				"error":               "No hay contexto de alumno. Primero genera recomendaciones para este alumno.",
			},
		},
		{
			name:     "chat: empty message",
			method:   http.MethodPost,
			path:     "/api/ai-assistant/chat/" + id,
			body:     map[string]string{"message": "   "},
			wantCode: http.StatusBadRequest,
			wantData: detail("El mensaje no puede estar vacío"),
		},
		{
			name:     "generate recommendations",
			method:   http.MethodPost,
			path:     "/api/ai-assistant/generate-recommendations/" + id,
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{
				"success":         true,
				"student_name":    "Ana Torres",
				"recommendations": recommendationReply,
				"analysis_summary": map[string]interface{}{
					"fortalezas":                  []string{"Razonamiento lógico"},
					"areas_mejora":                []string{"Comprensión lectora"},
					"recomendaciones_principales": []string{},
					"actividades_sugeridas":       []string{"Juegos de estrategia"},
				},
				"error": nil,
			},
		},
		{
			name:     "chat",
			method:   http.MethodPost,
			path:     "/api/ai-assistant/chat/" + id,
			body:     map[string]string{"message": "¿Qué actividades en casa?"},
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{
				"success":             true,
				"response":            "Puede practicar con acertijos.",
				"student_name":        "Ana Torres",
				"conversation_length": 5,
				"error":               nil,
			},
		},
	})

	reqs := app.llm.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, app.conf.AI.RecommendationModel, reqs[0].Model)
	assert.Equal(t, app.conf.AI.ChatMaxTokens, reqs[1].MaxTokens)
	assert.Len(t, reqs[1].Messages, 4)
	assert.Equal(t, core.RoleSystem, reqs[1].Messages[0].Role)

	rec = app.do(t, http.MethodGet, "/api/ai-assistant/conversation-history/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = rec.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, int64(2), gjson.Get(body, "messages.#").Int())
	assert.Equal(t, "user", gjson.Get(body, "messages.0.role").String())
	assert.True(t, gjson.Get(body, "last_updated").Exists())

	app.run(t, []httpTest{
		{
			name:     "clear",
			method:   http.MethodDelete,
			path:     "/api/ai-assistant/conversation/" + id,
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{"success": true, "message": "Conversación de Ana Torres limpiada exitosamente"},
		},
		{
			name:     "history after clear",
			method:   http.MethodGet,
			path:     "/api/ai-assistant/conversation-history/" + id,
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{
				"success":      false,
				"messages":     []interface{}{},
				"student_name": "Ana Torres",
				"last_updated": nil,
				"error":        "No hay conversación para este alumno",
			},
		},
	})
}

func Test_tutorApi_aiFailure(t *testing.T) {
	app := newTestApp(t)
	ana := testutil.CreateAlumno(t, app.repos.Alumno, "Ana Torres", nil)
	app.llm.SetError(errors.New("boom"))

	rec := app.do(t, http.MethodPost, "/api/ai-assistant/generate-recommendations/"+strconv.Itoa(ana.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.False(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, "No se pudieron generar recomendaciones en este momento.", gjson.Get(body, "recommendations").String())
	assert.Contains(t, gjson.Get(body, "error").String(), "boom")
}

func Test_tutorApi_sendReport(t *testing.T) {
	app := newTestApp(t, recommendationReply)
	rosa := app.createProfesor(t, "Rosa Díaz", "45678912", "rosa@test.pe")
	sinCorreo := app.createProfesor(t, "Juan Pérez", "87654321", "")
	ana := testutil.CreateAlumno(t, app.repos.Alumno, "Ana Torres", nil)
	path := "/api/ai-assistant/send-report/" + strconv.Itoa(ana.ID)
	token := app.login(t, rosa)
	emailsvc.ResetSentMessages()

	app.run(t, []httpTest{
		{
			name:     "no token",
			method:   http.MethodPost,
			path:     path,
			wantCode: http.StatusUnauthorized,
			wantData: detail("Could not validate credentials"),
		},
		{
			name:     "no recommendations yet",
			method:   http.MethodPost,
			path:     path,
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: detail("Aún no hay recomendaciones para este alumno"),
		},
		{
			name:     "profesor without email",
			method:   http.MethodPost,
			path:     path,
			token:    app.login(t, sinCorreo),
			wantCode: http.StatusBadRequest,
			wantData: detail("El profesor no tiene un correo registrado"),
		},
		{
			name:     "generate recommendations",
			method:   http.MethodPost,
			path:     "/api/ai-assistant/generate-recommendations/" + strconv.Itoa(ana.ID),
			wantCode: http.StatusOK,
		},
		{
			name:     "send",
			method:   http.MethodPost,
			path:     path,
			token:    token,
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{"success": true, "message": "Reporte enviado a rosa@test.pe"},
		},
	})

	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	assert.Equal(t, "recommendations_report", msg.TemplateName)
	assert.Equal(t, "rosa@test.pe", msg.To[0].Address)
	assert.Contains(t, msg.TextContent, "Razonamiento lógico")
}
