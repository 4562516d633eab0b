package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tutoria/client"
	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/ci"
	"github.com/trezcool/tutoria/core/clustering"
	"github.com/trezcool/tutoria/core/competencia"
	"github.com/trezcool/tutoria/core/curso"
	"github.com/trezcool/tutoria/core/inteligencia"
	"github.com/trezcool/tutoria/core/profesor"
	"github.com/trezcool/tutoria/core/tutor"
)

type fakeAPI struct {
	alumnos     []alumno.View
	students    []tutor.Student
	err         error
	recommended map[int]bool
	questions   []string
	chatErr     string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		alumnos: []alumno.View{alumno.NewView(alumno.Alumno{ID: 1, Nombre: "Ana Torres"}, nil)},
		students: []tutor.Student{
			{AlumnoID: 1, Nombre: "Ana Torres"},
			{AlumnoID: 2, Nombre: "Luis Quispe", CI: &tutor.CIInfo{Valor: 95, Categoria: "Promedio"}},
		},
		recommended: make(map[int]bool),
	}
}

func (f *fakeAPI) ListAlumnos(context.Context, core.Page) ([]alumno.View, error) {
	return f.alumnos, f.err
}

func (f *fakeAPI) ListCursos(context.Context, core.Page) ([]curso.Curso, error) {
	return []curso.Curso{{ID: 1, Nombre: "Matemática"}}, f.err
}

func (f *fakeAPI) ListCompetencias(context.Context, core.Page) ([]competencia.View, error) {
	return nil, f.err
}

func (f *fakeAPI) ListInteligencias(context.Context, core.Page) ([]inteligencia.Inteligencia, error) {
	return nil, f.err
}

func (f *fakeAPI) ListCI(context.Context, core.Page) ([]ci.Record, error) {
	return []ci.Record{{ID: 2, AlumnoID: 2, ValorCI: 95}}, f.err
}

func (f *fakeAPI) CIStats(context.Context) (ci.Stats, error) {
	return ci.Stats{}, errors.Wrap(client.ErrNoData, "no data")
}

func (f *fakeAPI) ListProfesores(context.Context, core.Page) ([]profesor.Profesor, error) {
	return nil, f.err
}

func (f *fakeAPI) TutorStudents(context.Context) ([]tutor.Student, error) {
	return f.students, f.err
}

func (f *fakeAPI) GenerateRecommendations(_ context.Context, id int) (tutor.Recommendations, error) {
	f.recommended[id] = true
	return tutor.Recommendations{Success: true, StudentName: "Luis Quispe", Recommendations: "Leer cada día"}, f.err
}

func (f *fakeAPI) TutorChat(_ context.Context, id int, q string) (tutor.ChatReply, error) {
	f.questions = append(f.questions, q)
	if f.chatErr != "" {
		msg := f.chatErr
		return tutor.ChatReply{StudentName: "Luis Quispe", Error: &msg}, nil
	}
	if !f.recommended[id] {
		msg := tutor.NoContextMessage
		return tutor.ChatReply{Error: &msg}, nil
	}
	return tutor.ChatReply{Success: true, Response: "Practique acertijos", ConversationLength: 5}, nil
}

func (f *fakeAPI) ClusteringAnalysis(context.Context) (clustering.Overview, error) {
	return clustering.Overview{TotalAlumnos: 2}, f.err
}

func (f *fakeAPI) ClusteredAlumnos(context.Context) ([]clustering.AlumnoClusters, error) {
	return nil, f.err
}

// update feeds msg to the model and runs the resulting commands until no message is left.
func update(t *testing.T, m Model, msg tea.Msg) (Model, []tea.Msg) {
	t.Helper()
	var seen []tea.Msg
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next, cmd := m.Update(queue[0])
		queue = queue[1:]
		m = next.(Model)
		for _, out := range run(cmd) {
			seen = append(seen, out)
			if _, ok := out.(tea.QuitMsg); !ok {
				queue = append(queue, out)
			}
		}
	}
	return m, seen
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, run(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, api API) Model {
	t.Helper()
	m := New(context.Background(), api)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, m.load(m.active)())
	return m
}

func TestModel_Tabs(t *testing.T) {
	m := loaded(t, newFakeAPI())
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "Ana Torres")

	m, _ = update(t, m, key("right"))
	assert.Equal(t, tabCursos, m.active)
	assert.Contains(t, m.View(), "Matemática")

	m, _ = update(t, m, key("left"))
	m, _ = update(t, m, key("left"))
	assert.Equal(t, tabClustering, m.active)

	m, _ = update(t, m, key("left"))
	m, _ = update(t, m, key("left"))
	m, _ = update(t, m, key("left"))
	assert.Equal(t, tabCI, m.active)
	view := m.View()
	assert.Contains(t, view, "Promedio")
	assert.Nil(t, m.err, "missing CI stats are not an error")

	_, msgs := update(t, m, key("q"))
	require.NotEmpty(t, msgs)
	assert.IsType(t, tea.QuitMsg{}, msgs[len(msgs)-1])
}

func TestModel_Refresh(t *testing.T) {
	api := newFakeAPI()
	m := loaded(t, api)

	api.alumnos = append(api.alumnos, alumno.NewView(alumno.Alumno{ID: 2, Nombre: "Luis Quispe"}, nil))
	assert.NotContains(t, m.View(), "Luis Quispe")
	m, _ = update(t, m, key("r"))
	assert.Contains(t, m.View(), "Luis Quispe")

	api.err = errors.New("connection refused")
	m, _ = update(t, m, key("r"))
	assert.Contains(t, m.View(), "Error: connection refused")
}

func TestModel_Tutor(t *testing.T) {
	api := newFakeAPI()
	m := loaded(t, api)
	for m.active != tabTutor {
		m, _ = update(t, m, key("right"))
	}
	require.Len(t, m.students, 2)
	assert.Contains(t, m.View(), "> ")

	m, _ = update(t, m, key("down"))
	s, ok := m.selectedStudent()
	require.True(t, ok)
	assert.Equal(t, 2, s.AlumnoID)

	m, _ = update(t, m, key("i"))
	require.True(t, m.input.Focused())
	m, _ = update(t, m, key("q"))
	assert.Equal(t, "q", m.input.Value(), "keys go to the input while it is focused")
	m.input.SetValue("¿Qué actividades?")

	m, _ = update(t, m, key("enter"))
	assert.False(t, m.loading)
	assert.Nil(t, m.err)
	assert.True(t, api.recommended[2], "recommendations are generated when there is no context")
	assert.Equal(t, []string{"¿Qué actividades?", "¿Qué actividades?"}, api.questions)
	assert.Empty(t, m.input.Value())

	body := m.body()
	assert.Contains(t, body, "Leer cada día")
	assert.Contains(t, body, "Practique acertijos")
	assert.Less(t, strings.Index(body, "Leer cada día"), strings.Index(body, "Practique acertijos"))

	m, _ = update(t, m, key("esc"))
	assert.False(t, m.input.Focused())
}

func TestModel_TutorChatFailure(t *testing.T) {
	api := newFakeAPI()
	m := loaded(t, api)
	for m.active != tabTutor {
		m, _ = update(t, m, key("right"))
	}
	// recommendations succeed but the tutor still has no context
	m, _ = update(t, m, chatReplyMsg{alumnoID: 1, question: "hola", retry: true, reply: tutor.ChatReply{}})
	require.Error(t, m.err)
	assert.Equal(t, "sin respuesta", m.err.Error())
}

func TestModel_TutorChatFailureKeepsConversation(t *testing.T) {
	api := newFakeAPI()
	api.chatErr = "Error al procesar el mensaje: llm down"
	m := loaded(t, api)
	for m.active != tabTutor {
		m, _ = update(t, m, key("right"))
	}
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("i"))
	m.input.SetValue("¿Y en casa?")

	m, _ = update(t, m, key("enter"))
	assert.False(t, m.loading)
	assert.False(t, api.recommended[2], "a failed answer must not regenerate recommendations")
	assert.Equal(t, []string{"¿Y en casa?"}, api.questions)
	assert.Empty(t, m.pending)
	require.Error(t, m.err)
	assert.Equal(t, "Error al procesar el mensaje: llm down", m.err.Error())
}

func TestModel_TutorRecommendationFailure(t *testing.T) {
	api := newFakeAPI()
	m := loaded(t, api)
	for m.active != tabTutor {
		m, _ = update(t, m, key("right"))
	}
	m, _ = update(t, m, key("down"))
	m, _ = update(t, m, key("i"))
	m.input.SetValue("¿Qué actividades?")

	api.err = errors.New("service unavailable")
	m, _ = update(t, m, key("enter"))
	assert.False(t, m.loading)
	assert.Equal(t, []string{"¿Qué actividades?"}, api.questions)
	assert.Empty(t, m.pending, "the question is dropped once recommendations fail")
	require.Error(t, m.err)
	assert.Equal(t, "service unavailable", m.err.Error())
}
