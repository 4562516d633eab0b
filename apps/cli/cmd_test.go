package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	echoapi "github.com/trezcool/tutoria/apps/api/echo"
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
	emailsvc "github.com/trezcool/tutoria/services/email"
	llmsvc "github.com/trezcool/tutoria/services/llm"
	sqlxrepos "github.com/trezcool/tutoria/storage/database/sqlx"
	"github.com/trezcool/tutoria/storage/inmem"
	"github.com/trezcool/tutoria/tests"
)

type harness struct {
	t          *testing.T
	url        string
	configFile string
}

func newHarness(t *testing.T, replies ...string) *harness {
	t.Helper()

	conf := testutil.NewConfig()
	logger := testutil.NopLogger{}
	db := testutil.PrepareDB(t)
	repos := testutil.NewRepos(db)
	validate, translator := testutil.NewValidator()
	core.ParseEmailTemplates(conf, logger)

	completer := llmsvc.NewMock(replies...)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	alumnoSvc := alumno.NewService(db, repos.Alumno, repos.Inteligencia, repos.Competencia)
	tutorSvc := tutor.NewService(alumnoSvc, completer, inmem.NewConversationStore(), mailSvc, conf.AI, logger)

	api := echoapi.NewServer(echoapi.ServerDeps{
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
	srv := httptest.NewServer(api)
	t.Cleanup(func() {
		srv.Close()
		_ = api.Close()
	})
	return &harness{t: t, url: srv.URL, configFile: filepath.Join(t.TempDir(), configFileName)}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--config", h.configFile, "--api-url", h.url}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func TestCLI_Alumnos(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("alumnos", "create", "--nombre", "Ana", "--apellido", "Torres", "-o", "json")
	var created alumno.View
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "Ana Torres", created.Nombre)

	out = h.mustRun("alumnos", "list")
	assert.Contains(t, out, "Ana Torres")

	out = h.mustRun("alumnos", "nombres", "-o", "yaml")
	var nombres []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &nombres))
	require.Len(t, nombres, 1)
	assert.Equal(t, "Ana Torres", nombres[0]["Nombre"])

	_, err := h.run("alumnos", "get", "99")
	assert.EqualError(t, err, "404: Alumno no encontrado")

	_, err = h.run("alumnos", "get", "abc")
	assert.EqualError(t, err, `invalid id "abc"`)

	_, err = h.run("alumnos", "create", "--nombre", "Ana")
	assert.Error(t, err)

	out = h.mustRun("alumnos", "delete", "1")
	assert.NotEmpty(t, out)
	out = h.mustRun("alumnos", "list", "-o", "json")
	assert.JSONEq(t, "[]", out)
}

func TestCLI_Output(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("cursos", "list", "-o", "xml")
	assert.EqualError(t, err, `unknown output format "xml"`)

	require.NoError(t, os.WriteFile(h.configFile, []byte("output: json\n"), 0o600))
	out := h.mustRun("cursos", "create", "--nombre", "Matemáticas")
	var c curso.Curso
	require.NoError(t, json.Unmarshal([]byte(out), &c), out)
	assert.Equal(t, "Matemáticas", c.Nombre)
}

func TestCLI_Login(t *testing.T) {
	h := newHarness(t)

	h.mustRun("profesores", "register", "--nombre", "Rosa Díaz", "--dni", "12345678", "--password", "Secreta.123")

	_, err := h.run("profesores", "me")
	assert.EqualError(t, err, "401: Could not validate credentials")

	defer func(orig func(int) ([]byte, error)) { readPasswordFunc = orig }(readPasswordFunc)
	readPasswordFunc = func(int) ([]byte, error) { return []byte("Secreta.123\n"), nil }

	out := h.mustRun("profesores", "login", "--dni", "12345678")
	assert.Contains(t, out, "Sesión iniciada")

	content, err := os.ReadFile(h.configFile)
	require.NoError(t, err)
	var settings map[string]string
	require.NoError(t, yaml.Unmarshal(content, &settings))
	assert.NotEmpty(t, settings[cfgKeyToken])

	out = h.mustRun("profesores", "me", "-o", "json")
	var me profesor.Profesor
	require.NoError(t, json.Unmarshal([]byte(out), &me))
	assert.Equal(t, "Rosa Díaz", me.Nombre)
	assert.Equal(t, "12345678", me.DNI)
}

func TestCLI_Stats(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("ci", "stats")
	assert.Equal(t, "No hay datos de CI registrados\n", out)

	out = h.mustRun("ci", "stats", "-o", "json")
	assert.JSONEq(t, `{"message": "No hay datos de CI registrados"}`, out)
}

func TestCLI_Upload(t *testing.T) {
	h := newHarness(t)

	f := excelize.NewFile()
	f.NewSheet("notas")
	for i, row := range [][]interface{}{
		{"grado_seccion", "nom", "1_matematicas_c1"},
		{"1A", "Ana Torres", "A"},
	} {
		row := row
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("notas", cell, &row))
	}
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "notas.xlsx")
	require.NoError(t, f.SaveAs(xlsx))

	_, err := h.run("upload", filepath.Join(dir, "notas.csv"))
	assert.EqualError(t, err, importer.ErrInvalidFormat.Error())

	out := h.mustRun("upload", xlsx, "-o", "json")
	var res importer.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, 1, res.AlumnosCreados)

	out = h.mustRun("alumnos", "list")
	assert.Contains(t, out, "Ana Torres")
}

func TestCLI_Tutor(t *testing.T) {
	h := newHarness(t, "## Fortalezas\n- Lectura", "Practique cada día.")
	h.mustRun("alumnos", "create", "--nombre", "Ana", "--apellido", "Torres")

	_, err := h.run("tutor", "chat", "1", "¿Cómo", "mejora?")
	assert.EqualError(t, err, "No hay contexto de alumno. Primero genera recomendaciones para este alumno.")

	out := h.mustRun("tutor", "recommend", "1", "-o", "json")
	var rec tutor.Recommendations
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.True(t, rec.Success)
	assert.Contains(t, rec.Recommendations, "Fortalezas")

	out = h.mustRun("tutor", "chat", "1", "¿Cómo", "mejora?", "-o", "json")
	var reply tutor.ChatReply
	require.NoError(t, json.Unmarshal([]byte(out), &reply))
	assert.Equal(t, "Practique cada día.", reply.Response)

	out = h.mustRun("tutor", "clear", "1")
	assert.Equal(t, "Conversación de Ana Torres limpiada exitosamente\n", out)
}
