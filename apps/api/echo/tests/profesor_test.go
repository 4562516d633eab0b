package tests

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/trezcool/tutoria/services/email"
	"github.com/trezcool/tutoria/tests"
)

func Test_profesorApi_register(t *testing.T) {
	app := newTestApp(t)

	app.run(t, []httpTest{
		{
			name:     "invalid dni and weak password",
			method:   http.MethodPost,
			path:     "/api/profesores/register",
			body:     map[string]string{"Nombre": "Rosa Díaz", "DNI": "12-34", "Contrasena": "1234"},
			wantCode: http.StatusBadRequest,
			wantData: detail(map[string]string{
				"DNI":        "DNI must be 8 to 12 letters or digits",
				"Contrasena": "password must contain at least 8 characters",
			}),
		},
		{
			name:     "password too similar to the DNI",
			method:   http.MethodPost,
			path:     "/api/profesores/register",
			body:     map[string]string{"Nombre": "Rosa Díaz", "DNI": "45678912", "Contrasena": "45678912a"},
			wantCode: http.StatusBadRequest,
			wantData: detail(map[string]string{"Contrasena": "password cannot be similar to the DNI or the name"}),
		},
		{
			name:     "register",
			method:   http.MethodPost,
			path:     "/api/profesores/register",
			body:     map[string]string{"Nombre": "Rosa Díaz", "DNI": "45678912", "Contrasena": testPassword, "Email": "ROSA@test.pe"},
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{"Profesor_ID": 1, "Nombre": "Rosa Díaz", "DNI": "45678912", "Email": "rosa@test.pe"},
		},
		{
			name:     "duplicate dni",
			method:   http.MethodPost,
			path:     "/api/profesores/register",
			body:     map[string]string{"Nombre": "Otra", "DNI": "45678912", "Contrasena": testPassword},
			wantCode: http.StatusBadRequest,
			wantData: detail("DNI already registered"),
		},
	})
}

func Test_profesorApi_auth(t *testing.T) {
	app := newTestApp(t)
	rosa := app.createProfesor(t, "Rosa Díaz", "45678912", "rosa@test.pe")

	app.run(t, []httpTest{
		{
			name:     "login: wrong password",
			method:   http.MethodPost,
			path:     "/api/profesores/login",
			body:     map[string]string{"username": rosa.DNI, "password": "nope-nope"},
			wantCode: http.StatusUnauthorized,
			wantData: detail("DNI/Nombre o contraseña incorrectos"),
		},
		{
			name:     "login: unknown profesor",
			method:   http.MethodPost,
			path:     "/api/profesores/login",
			body:     map[string]string{"username": "00000000", "password": testPassword},
			wantCode: http.StatusUnauthorized,
			wantData: detail("DNI/Nombre o contraseña incorrectos"),
		},
		{
			name:     "me: no token",
			method:   http.MethodGet,
			path:     "/api/profesores/me",
			wantCode: http.StatusUnauthorized,
			wantData: detail("Could not validate credentials"),
		},
		{
			name:     "me: bad token",
			method:   http.MethodGet,
			path:     "/api/profesores/me",
			token:    "not.a.token",
			wantCode: http.StatusUnauthorized,
			wantData: detail("Could not validate credentials"),
		},
	})

	// login by nombre works as well
	rec := app.do(t, http.MethodPost, "/api/profesores/login", "", map[string]string{
		"username": rosa.Nombre,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "bearer", gjson.Get(rec.Body.String(), "token_type").String())

	token := app.login(t, rosa)
	app.run(t, []httpTest{
		{
			name:     "me",
			method:   http.MethodGet,
			path:     "/api/profesores/me",
			token:    token,
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{"Profesor_ID": rosa.ID, "Nombre": rosa.Nombre, "DNI": rosa.DNI, "Email": rosa.Email},
		},
	})

	rec = app.do(t, http.MethodPost, "/api/profesores/token-refresh", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	refreshed := gjson.Get(rec.Body.String(), "access_token").String()
	require.NotEmpty(t, refreshed)

	rec = app.do(t, http.MethodGet, "/api/profesores/me", refreshed, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func Test_profesorApi_passwordReset(t *testing.T) {
	app := newTestApp(t)
	rosa := app.createProfesor(t, "Rosa Díaz", "45678912", "rosa@test.pe")
	emailsvc.ResetSentMessages()

	wantMsg := map[string]string{
		"message": "Si el correo está asociado a un profesor, recibirá instrucciones para restablecer su contraseña.",
	}
	app.run(t, []httpTest{
		{
			name:     "unknown email",
			method:   http.MethodPost,
			path:     "/api/profesores/password-reset",
			body:     map[string]string{"email": "nadie@test.pe"},
			wantCode: http.StatusOK,
			wantData: wantMsg,
		},
		{
			name:     "known email",
			method:   http.MethodPost,
			path:     "/api/profesores/password-reset",
			body:     map[string]string{"email": "Rosa@Test.pe"},
			wantCode: http.StatusOK,
			wantData: wantMsg,
		},
	})

	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	assert.Equal(t, rosa.Email, msg.To[0].Address)
	data, ok := msg.TemplateData.(map[string]interface{})
	require.True(t, ok)
	uid, _ := data["UID"].(string)
	token, _ := data["Token"].(string)

	newPwd := "Otra.Clave.456"
	app.run(t, []httpTest{
		{
			name:     "confirm: passwords differ",
			method:   http.MethodPost,
			path:     "/api/profesores/password-reset-confirm",
			body:     map[string]string{"uid": uid, "token": token, "password": newPwd, "password_confirm": "x"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "confirm: password too similar to the DNI",
			method:   http.MethodPost,
			path:     "/api/profesores/password-reset-confirm",
			body:     map[string]string{"uid": uid, "token": token, "password": "45678912a", "password_confirm": "45678912a"},
			wantCode: http.StatusBadRequest,
			wantData: detail(map[string]string{"password": "password cannot be similar to the DNI or the name"}),
		},
		{
			name:     "confirm: bad token",
			method:   http.MethodPost,
			path:     "/api/profesores/password-reset-confirm",
			body:     map[string]string{"uid": uid, "token": "abc-123", "password": newPwd, "password_confirm": newPwd},
			wantCode: http.StatusBadRequest,
			wantData: detail("El enlace para restablecer la contraseña ya no es válido"),
		},
		{
			name:     "confirm",
			method:   http.MethodPost,
			path:     "/api/profesores/password-reset-confirm",
			body:     map[string]string{"uid": uid, "token": token, "password": newPwd, "password_confirm": newPwd},
			wantCode: http.StatusOK,
			wantData: map[string]string{"message": "La contraseña ha sido restablecida"},
		},
		{
			name:     "login with the new password",
			method:   http.MethodPost,
			path:     "/api/profesores/login",
			body:     map[string]string{"username": rosa.DNI, "password": newPwd},
			wantCode: http.StatusOK,
		},
	})
}

func Test_profesorApi_cursos(t *testing.T) {
	app := newTestApp(t)
	rosa := app.createProfesor(t, "Rosa Díaz", "45678912", "")
	mate := testutil.CreateCurso(t, app.repos.Curso, "matematicas")
	comu := testutil.CreateCurso(t, app.repos.Curso, "comunicacion")
	comp := testutil.CreateCompetencia(t, app.repos.Competencia, mate.ID, "1_matematicas_c1", "")
	ana := testutil.CreateAlumno(t, app.repos.Alumno, "Ana Torres", nil)
	luis := testutil.CreateAlumno(t, app.repos.Alumno, "Luis Quispe", nil)
	testutil.Grade(t, app.repos.Alumno, ana.ID, comp.ID, "A")
	testutil.Grade(t, app.repos.Alumno, luis.ID, comp.ID, "B")

	base := "/api/profesores/" + strconv.Itoa(rosa.ID)
	cursoJSON := func(id int, nombre string) map[string]interface{} {
		return map[string]interface{}{"Curso_ID": id, "Nombre": nombre}
	}

	app.run(t, []httpTest{
		{
			name:     "assign",
			method:   http.MethodPost,
			path:     base + "/cursos/" + strconv.Itoa(mate.ID),
			wantCode: http.StatusOK,
			wantData: map[string]string{"message": "Curso asignado exitosamente"},
		},
		{
			name:     "assign twice",
			method:   http.MethodPost,
			path:     base + "/cursos/" + strconv.Itoa(mate.ID),
			wantCode: http.StatusBadRequest,
			wantData: detail("No se pudo asignar el curso"),
		},
		{
			name:     "assign unknown curso",
			method:   http.MethodPost,
			path:     base + "/cursos/99",
			wantCode: http.StatusBadRequest,
			wantData: detail("No se pudo asignar el curso"),
		},
		{
			name:     "cursos",
			method:   http.MethodGet,
			path:     base + "/cursos",
			wantCode: http.StatusOK,
			wantData: []interface{}{cursoJSON(mate.ID, "matematicas")},
		},
		{
			name:     "disponibles",
			method:   http.MethodGet,
			path:     "/api/profesores/cursos/disponibles",
			wantCode: http.StatusOK,
			wantData: []interface{}{cursoJSON(comu.ID, "comunicacion")},
		},
		{
			name:     "estadisticas",
			method:   http.MethodGet,
			path:     base + "/estadisticas",
			wantCode: http.StatusOK,
			wantData: map[string]interface{}{
				"profesor_id":             rosa.ID,
				"nombre":                  "Rosa Díaz",
				"total_cursos":            1,
				"cursos_asignados":        []interface{}{cursoJSON(mate.ID, "matematicas")},
				"total_alumnos":           2,
				"promedio_calificaciones": 3.5,
			},
		},
		{
			name:     "unassign not assigned",
			method:   http.MethodDelete,
			path:     base + "/cursos/" + strconv.Itoa(comu.ID),
			wantCode: http.StatusBadRequest,
			wantData: detail("No se pudo desasignar el curso"),
		},
		{
			name:     "unassign",
			method:   http.MethodDelete,
			path:     base + "/cursos/" + strconv.Itoa(mate.ID),
			wantCode: http.StatusOK,
			wantData: map[string]string{"message": "Curso desasignado exitosamente"},
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     base,
			wantCode: http.StatusOK,
			wantData: map[string]string{"message": "Profesor eliminado exitosamente"},
		},
		{
			name:     "retrieve deleted",
			method:   http.MethodGet,
			path:     base,
			wantCode: http.StatusNotFound,
			wantData: detail("Profesor no encontrado"),
		},
	})
}
