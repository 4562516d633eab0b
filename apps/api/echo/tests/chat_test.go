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
	"github.com/trezcool/tutoria/tests"
)

func Test_chatApi(t *testing.T) {
	app := newTestApp(t, "¡Claro! Empecemos con la lectura.", "Otra idea: juegos de palabras.", "Y más.")
	rosa := app.createProfesor(t, "Rosa Díaz", "45678912", "rosa@test.pe") // default profesor (ID 1)
	juan := app.createProfesor(t, "Juan Pérez", "87654321", "")
	ana := testutil.CreateAlumno(t, app.repos.Alumno, "Ana Torres", testutil.IntPtr(95))
	testutil.CreateInteligencia(t, app.repos.Inteligencia, ana.ID, "Lingüística", 88)
	id := strconv.Itoa(ana.ID)
	rosaToken := app.login(t, rosa)
	juanToken := app.login(t, juan)

	app.run(t, []httpTest{
		{
			name:     "send: no token",
			method:   http.MethodPost,
			path:     "/api/personal-chat/send-message",
			body:     map[string]interface{}{"mensaje": "Hola", "alumno_id": ana.ID},
			wantCode: http.StatusUnauthorized,
			wantData: detail("Could not validate credentials"),
		},
		{
			name:     "send: missing mensaje",
			method:   http.MethodPost,
			path:     "/api/personal-chat/send-message",
			token:    rosaToken,
			body:     map[string]interface{}{"alumno_id": ana.ID},
			wantCode: http.StatusBadRequest,
			wantData: detail(map[string]string{"mensaje": "this field is required"}),
		},
		{
			name:     "send: unknown alumno",
			method:   http.MethodPost,
			path:     "/api/personal-chat/send-message",
			token:    rosaToken,
			body:     map[string]interface{}{"mensaje": "Hola", "alumno_id": 99},
			wantCode: http.StatusNotFound,
			wantData: detail("Alumno no encontrado"),
		},
		{
			name:     "send",
			method:   http.MethodPost,
			path:     "/api/personal-chat/send-message",
			token:    rosaToken,
			body:     map[string]interface{}{"mensaje": "¿Cómo mejora su lectura?", "alumno_id": ana.ID},
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{
				"success":         true,
				"response":        "¡Claro! Empecemos con la lectura.",
				"student_name":    "Ana Torres",
				"conversacion_id": 2,
			},
		},
		{
			name:     "send public (default profesor)",
			method:   http.MethodPost,
			path:     "/api/personal-chat/send-message-public",
			body:     map[string]interface{}{"mensaje": "¿Algo más?", "alumno_id": ana.ID},
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{
				"success":         true,
				"response":        "Otra idea: juegos de palabras.",
				"student_name":    "Ana Torres",
				"conversacion_id": 4,
			},
		},
	})

	// the second call carries the first exchange as history
	reqs := app.llm.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, app.conf.AI.PersonalChatModel, reqs[1].Model)
	require.Len(t, reqs[1].Messages, 4)
	assert.Equal(t, core.RoleSystem, reqs[1].Messages[0].Role)
	assert.Contains(t, reqs[1].Messages[0].Content, "Ana Torres")
	assert.Equal(t, core.RoleAssistant, reqs[1].Messages[2].Role)

	rec := app.do(t, http.MethodGet, "/api/personal-chat/history/"+id, rosaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Equal(t, "Ana Torres", gjson.Get(body, "alumno_nombre").String())
	assert.Equal(t, int64(4), gjson.Get(body, "total_mensajes").Int())
	assert.True(t, gjson.Get(body, "mensajes.0.es_usuario").Bool())
	assert.False(t, gjson.Get(body, "mensajes.1.es_usuario").Bool())

	// conversations are kept per profesor
	rec = app.do(t, http.MethodGet, "/api/personal-chat/history/"+id, juanToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(0), gjson.Get(rec.Body.String(), "total_mensajes").Int())

	app.run(t, []httpTest{
		{
			name:     "clear",
			method:   http.MethodDelete,
			path:     "/api/personal-chat/clear/" + id,
			token:    rosaToken,
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{"success": true, "message": "Conversación con Ana Torres eliminada exitosamente"},
		},
		{
			name:     "history after clear",
			method:   http.MethodGet,
			path:     "/api/personal-chat/history/" + id,
			token:    rosaToken,
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{
				"alumno_id":      ana.ID,
				"alumno_nombre":  "Ana Torres",
				"mensajes":       []interface{}{},
				"total_mensajes": 0,
			},
		},
	})
}

func Test_chatApi_aiFailure(t *testing.T) {
	app := newTestApp(t)
	rosa := app.createProfesor(t, "Rosa Díaz", "45678912", "")
	ana := testutil.CreateAlumno(t, app.repos.Alumno, "Ana Torres", nil)
	token := app.login(t, rosa)
	app.llm.SetError(errors.New("rate limited"))

	app.run(t, []httpTest{
		{
			name:     "send",
			method:   http.MethodPost,
			path:     "/api/personal-chat/send-message",
			token:    token,
			body:     map[string]interface{}{"mensaje": "Hola", "alumno_id": ana.ID},
			wantCode: http.StatusInternalServerError,
			wantData: detail("Error al procesar el mensaje: rate limited"),
		},
		{
			name:     "recommendations",
			method:   http.MethodGet,
			path:     "/api/personal-chat/recommendations/" + strconv.Itoa(ana.ID),
			wantCode: http.StatusInternalServerError,
			wantData: detail("Error al generar recomendaciones"),
		},
	})

	// the profesor message is kept
	rec := app.do(t, http.MethodGet, "/api/personal-chat/history/"+strconv.Itoa(ana.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "total_mensajes").Int())
}

func Test_chatApi_welcome(t *testing.T) {
	app := newTestApp(t, "- Lectura guiada")
	ana := testutil.CreateAlumno(t, app.repos.Alumno, "Ana Torres", testutil.IntPtr(120))
	testutil.CreateInteligencia(t, app.repos.Inteligencia, ana.ID, "Musical", 85)
	testutil.CreateInteligencia(t, app.repos.Inteligencia, ana.ID, "Espacial", 60)
	id := strconv.Itoa(ana.ID)

	rec := app.do(t, http.MethodGet, "/api/personal-chat/welcome/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.Contains(t, gjson.Get(body, "welcome_message").String(), "¡Hola Ana Torres!")
	assert.Contains(t, gjson.Get(body, "welcome_message").String(), "fortalezas maravillosas en: inteligencia musical.")
	assert.Equal(t, int64(120), gjson.Get(body, "context_summary.ci").Int())
	assert.Equal(t, int64(2), gjson.Get(body, "context_summary.inteligencias_count").Int())
	assert.Empty(t, app.llm.Requests())

	rec = app.do(t, http.MethodGet, "/api/personal-chat/recommendations/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = rec.Body.String()
	assert.Equal(t, "- Lectura guiada", gjson.Get(body, "recommendations").String())
	assert.Equal(t, "Ana Torres", gjson.Get(body, "student_name").String())
	assert.Equal(t, int64(ana.ID), gjson.Get(body, "context_summary.alumno_id").Int())

	app.run(t, []httpTest{
		{
			name:     "welcome: not found",
			method:   http.MethodGet,
			path:     "/api/personal-chat/welcome/99",
			wantCode: http.StatusNotFound,
			wantData: detail("Alumno no encontrado"),
		},
	})
}
