package client_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	echoapi "github.com/trezcool/tutoria/apps/api/echo"
	"github.com/trezcool/tutoria/client"
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

// newClient serves a fresh API over HTTP and returns a client of it.
func newClient(t *testing.T, replies ...string) (*client.Client, testutil.Repos) {
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
	return client.New(srv.URL+"/", client.WithHTTPClient(srv.Client()), client.WithUserAgent("tutoria-test")), repos
}

func TestClient_Home(t *testing.T) {
	c, _ := newClient(t)
	msg, err := c.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sistema de Gestión Educativa", msg)
}

func TestClient_Alumnos(t *testing.T) {
	c, repos := newClient(t)
	ctx := context.Background()

	_, err := c.CreateAlumno(ctx, alumno.NewAlumno{Nombre: "Ana"})
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Fields)

	a, err := c.CreateAlumno(ctx, alumno.NewAlumno{Nombre: "Ana", Apellido: "Torres"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres", a.Nombre)

	a, err = c.UpdateAlumno(ctx, a.ID, alumno.UpdateAlumno{Nombre: "Ana María", Apellido: "Torres"})
	require.NoError(t, err)
	assert.Equal(t, "Ana María Torres", a.Nombre)

	alumnos, err := c.ListAlumnos(ctx, core.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, alumnos, 1)
	assert.Equal(t, a.ID, alumnos[0].ID)

	cur := testutil.CreateCurso(t, repos.Curso, "Matemática")
	comp := testutil.CreateCompetencia(t, repos.Competencia, cur.ID, "MAT1", "Resuelve problemas")
	calif, err := c.Calificar(ctx, a.ID, alumno.SetCalificacion{CompetenciaID: comp.ID, Calificacion: "a"})
	require.NoError(t, err)
	assert.Equal(t, "A", calif.Calificacion)

	califs, err := c.Calificaciones(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, califs, 1)

	msg, err := c.DeleteAlumno(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alumno eliminado exitosamente", msg)

	_, err = c.GetAlumno(ctx, a.ID)
	assert.True(t, client.IsNotFound(err))
	assert.EqualError(t, err, "404: Alumno no encontrado")
}

func TestClient_Profesores(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	_, err := c.Me(ctx)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	p, err := c.Register(ctx, profesor.NewProfesor{Nombre: "Rosa Díaz", DNI: "12345678", Contrasena: "Secreta.123"})
	require.NoError(t, err)

	_, err = c.Login(ctx, "12345678", "wrong-password")
	assert.Error(t, err)

	token, err := c.Login(ctx, "12345678", "Secreta.123")
	require.NoError(t, err)
	assert.Equal(t, token, c.Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.ID, me.ID)

	refreshed, err := c.RefreshToken(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed)

	cur, err := c.CreateCurso(ctx, curso.NewCurso{Nombre: "Ciencias"})
	require.NoError(t, err)
	msg, err := c.AsignarCurso(ctx, p.ID, cur.ID)
	require.NoError(t, err)
	assert.Equal(t, "Curso asignado exitosamente", msg)

	cursos, err := c.ProfesorCursos(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, cursos, 1)
	assert.Equal(t, cur.ID, cursos[0].ID)

	st, err := c.ProfesorStats(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalCursos)
}

func TestClient_Stats(t *testing.T) {
	c, repos := newClient(t)
	ctx := context.Background()
	a := testutil.CreateAlumno(t, repos.Alumno, "Ana Torres", nil)

	_, err := c.CIStats(ctx)
	assert.True(t, errors.Is(err, client.ErrNoData), "got %v", err)
	_, err = c.CIResumen(ctx, a.ID)
	assert.True(t, errors.Is(err, client.ErrNoData), "got %v", err)
	_, err = c.InteligenciaStats(ctx, a.ID)
	assert.True(t, errors.Is(err, client.ErrNoData), "got %v", err)

	_, err = c.SetCI(ctx, ci.NewRecord{AlumnoID: a.ID, ValorCI: testutil.IntPtr(125)})
	require.NoError(t, err)
	st, err := c.CIStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalAlumnos)
	assert.Equal(t, 1, st.AlumnosPorRango["Superior"].Count)

	sum, err := c.CIResumen(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Superior", sum.Categoria)

	_, err = c.CreateInteligencia(ctx, inteligencia.NewInteligencia{AlumnoID: a.ID, Tipo: "Musical", Puntaje: testutil.FloatPtr(70)})
	require.NoError(t, err)
	ist, err := c.InteligenciaStats(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Musical", ist.InteligenciaMaxima)

	tipos, err := c.TiposInteligencia(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Musical"}, tipos)
}

func TestClient_Tutor(t *testing.T) {
	c, repos := newClient(t, "## Fortalezas\n- Lectura", "Practique cada día.")
	ctx := context.Background()
	a := testutil.CreateAlumno(t, repos.Alumno, "Ana Torres", testutil.IntPtr(110))

	students, err := c.TutorStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)

	rec, err := c.GenerateRecommendations(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, rec.Success)
	assert.Contains(t, rec.Recommendations, "Fortalezas")

	reply, err := c.TutorChat(ctx, a.ID, "¿Qué hago en casa?")
	require.NoError(t, err)
	assert.Equal(t, "Practique cada día.", reply.Response)

	h, err := c.TutorHistory(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, h.Success)

	msg, err := c.ClearTutorConversation(ctx, a.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "Ana Torres")
}

func TestClient_Upload(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

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
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = c.Upload(ctx, "notas.csv", bytes.NewReader(buf.Bytes()), true)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	res, err := c.Upload(ctx, "notas.xlsx", bytes.NewReader(buf.Bytes()), true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.AlumnosCreados)

	nombres, err := c.AlumnoNombres(ctx)
	require.NoError(t, err)
	assert.Equal(t, []alumno.Nombre{{ID: 1, Nombre: "Ana Torres"}}, nombres)
}

func TestClient_Headers(t *testing.T) {
	var gotAuth, gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth, gotUA, gotPath = r.Header.Get("Authorization"), r.Header.Get("User-Agent"), r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": {"Nombre": "Nombre is required", "DNI": "DNI is required"}}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithToken("tok"))
	_, err := c.ListCursos(context.Background(), core.Page{Skip: 5, Limit: 10})
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "tutoria-client", gotUA)
	assert.Equal(t, "/api/cursos?limit=10&skip=5", gotPath)
	assert.EqualError(t, err, "400: DNI: DNI is required; Nombre: Nombre is required")
	assert.False(t, client.IsNotFound(err))
}
