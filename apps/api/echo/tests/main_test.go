package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/trezcool/tutoria/apps/api/echo"
	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/chat"
	"github.com/trezcool/tutoria/core/ci"
	"github.com/trezcool/tutoria/core/clustering"
	"github.com/trezcool/tutoria/core/competencia"
	"github.com/trezcool/tutoria/core/curso"
	"github.com/trezcool/tutoria/core/importer"
	"github.com/trezcool/tutoria/core/inteligencia"
	"github.com/trezcool/tutoria/core/profesor"
	"github.com/trezcool/tutoria/core/tutor"
	"github.com/trezcool/tutoria/services/email"
	"github.com/trezcool/tutoria/services/llm"
	"github.com/trezcool/tutoria/storage/database/sqlx"
	"github.com/trezcool/tutoria/storage/inmem"
	"github.com/trezcool/tutoria/tests"
)

const testPassword = "Secreta.123"

func TestMain(m *testing.M) {
	core.ParseEmailTemplates(testutil.NewConfig(), testutil.NopLogger{})
	os.Exit(m.Run())
}

// testApp is a fully wired API over a fresh in-memory database.
type testApp struct {
	echoapi.Server
	conf  *core.Config
	db    *sqlx.DB
	repos testutil.Repos
	llm   *llmsvc.Mock
}

func newTestApp(t *testing.T, replies ...string) *testApp {
	t.Helper()
	return newTestAppWithConfig(t, testutil.NewConfig(), replies...)
}

func newTestAppWithConfig(t *testing.T, conf *core.Config, replies ...string) *testApp {
	t.Helper()

	logger := testutil.NopLogger{}
	db := testutil.PrepareDB(t)
	repos := testutil.NewRepos(db)
	validate, translator := testutil.NewValidator()

	completer := llmsvc.NewMock(replies...)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	alumnoSvc := alumno.NewService(db, repos.Alumno, repos.Inteligencia, repos.Competencia)
	tutorSvc := tutor.NewService(alumnoSvc, completer, inmem.NewConversationStore(), mailSvc, conf.AI, logger)

	srv := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,

		AlumnoSvc:       alumnoSvc,
		CursoSvc:        curso.NewService(repos.Curso),
		CompetenciaSvc:  competencia.NewService(repos.Competencia, repos.Curso),
		InteligenciaSvc: inteligencia.NewService(repos.Inteligencia, repos.Alumno),
		CISvc:           ci.NewService(sqlxrepos.NewAlumnoRepository(db)),
		ProfesorSvc:     profesor.NewService(repos.Profesor, repos.Curso, mailSvc, conf),
		TutorSvc:        tutorSvc,
		ChatSvc:         chat.NewService(sqlxrepos.NewChatRepository(db), alumnoSvc, tutorSvc, completer, conf, logger),
		ClusteringSvc:   clustering.NewService(alumnoSvc, conf, logger),
		ImporterSvc: importer.NewService(
			db, alumnoSvc, repos.Alumno, repos.Curso, repos.Competencia, repos.Inteligencia, logger,
		),
	})
	t.Cleanup(func() { _ = srv.Close() })

	return &testApp{
		Server: srv,
		conf:   conf,
		db:     db,
		repos:  repos,
		llm:    completer,
	}
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     interface{}
	token    string
	wantCode int
	wantData interface{} // compared as JSON when set
}

func newRequest(method, path, token string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func (app *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, newRequest(method, path, token, body))
	return rec
}

func (app *testApp) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, tt.method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	if tt.wantData != nil {
		want, err := json.Marshal(tt.wantData)
		require.NoError(t, err)
		assert.JSONEq(t, string(want), rec.Body.String())
	}
}

// detail builds the error body of the API.
func detail(msg interface{}) map[string]interface{} {
	return map[string]interface{}{"detail": msg}
}

// login authenticates the profesor through the API and returns the access token.
func (app *testApp) login(t *testing.T, p profesor.Profesor) string {
	t.Helper()
	rec := app.do(t, http.MethodPost, "/api/profesores/login", "", map[string]string{
		"username": p.DNI,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := gjson.Get(rec.Body.String(), "access_token").String()
	require.NotEmpty(t, token)
	return token
}

func (app *testApp) createProfesor(t *testing.T, nombre, dni, email string) profesor.Profesor {
	t.Helper()
	return testutil.CreateProfesor(t, app.repos.Profesor, nombre, dni, email, testPassword)
}

func TestHome(t *testing.T) {
	app := newTestApp(t)
	app.run(t, []httpTest{
		{
			name:     "home",
			method:   http.MethodGet,
			path:     "/",
			wantCode: http.StatusOK,
			wantData: map[string]string{"message": "Sistema de Gestión Educativa"},
		},
		{
			name:     "unknown route",
			method:   http.MethodGet,
			path:     "/api/nope",
			wantCode: http.StatusNotFound,
			wantData: detail("Not Found"),
		},
	})
}
