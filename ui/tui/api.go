// Package tui is the interactive terminal dashboard over the Tutoria API.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

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
	"github.com/trezcool/tutoria/ui/views"
)

// API is the part of the client the dashboard needs.
type API interface {
	ListAlumnos(ctx context.Context, page core.Page) ([]alumno.View, error)
	ListCursos(ctx context.Context, page core.Page) ([]curso.Curso, error)
	ListCompetencias(ctx context.Context, page core.Page) ([]competencia.View, error)
	ListInteligencias(ctx context.Context, page core.Page) ([]inteligencia.Inteligencia, error)
	ListCI(ctx context.Context, page core.Page) ([]ci.Record, error)
	CIStats(ctx context.Context) (ci.Stats, error)
	ListProfesores(ctx context.Context, page core.Page) ([]profesor.Profesor, error)
	TutorStudents(ctx context.Context) ([]tutor.Student, error)
	GenerateRecommendations(ctx context.Context, alumnoID int) (tutor.Recommendations, error)
	TutorChat(ctx context.Context, alumnoID int, message string) (tutor.ChatReply, error)
	ClusteringAnalysis(ctx context.Context) (clustering.Overview, error)
	ClusteredAlumnos(ctx context.Context) ([]clustering.AlumnoClusters, error)
}

var _ API = (*client.Client)(nil)

const (
	tabAlumnos = iota
	tabCursos
	tabCompetencias
	tabInteligencias
	tabCI
	tabProfesores
	tabTutor
	tabClustering
)

var listPage = core.Page{Limit: 1000}

type (
	// loadedMsg carries the rendered content of a tab.
	loadedMsg struct {
		tab      int
		content  string
		students []tutor.Student
	}

	errMsg struct {
		tab      int
		alumnoID int // set when a tutor request failed
		err      error
	}

	recommendationsMsg struct {
		alumnoID int
		rec      tutor.Recommendations
	}

	chatReplyMsg struct {
		alumnoID int
		question string
		retry    bool // asked again after generating recommendations
		reply    tutor.ChatReply
	}
)

func (m Model) load(tab int) tea.Cmd {
	api, ctx, width := m.api, m.ctx, m.contentWidth()
	return func() tea.Msg {
		content, students, err := fetch(ctx, api, tab, width)
		if err != nil {
			return errMsg{tab: tab, err: err}
		}
		return loadedMsg{tab: tab, content: content, students: students}
	}
}

func fetch(ctx context.Context, api API, tab, width int) (string, []tutor.Student, error) {
	switch tab {
	case tabAlumnos:
		res, err := api.ListAlumnos(ctx, listPage)
		return views.AlumnosTable(res), nil, err
	case tabCursos:
		res, err := api.ListCursos(ctx, listPage)
		return views.CursosTable(res), nil, err
	case tabCompetencias:
		res, err := api.ListCompetencias(ctx, listPage)
		return views.CompetenciasTable(res), nil, err
	case tabInteligencias:
		res, err := api.ListInteligencias(ctx, listPage)
		return views.InteligenciasTable(res), nil, err
	case tabCI:
		res, err := api.ListCI(ctx, listPage)
		if err != nil {
			return "", nil, err
		}
		content := views.CITable(res)
		st, err := api.CIStats(ctx)
		switch {
		case errors.Is(err, client.ErrNoData):
		case err != nil:
			return "", nil, err
		default:
			content += "\n" + views.CIStats(st)
		}
		return content, nil, nil
	case tabProfesores:
		res, err := api.ListProfesores(ctx, listPage)
		return views.ProfesoresTable(res), nil, err
	case tabTutor:
		res, err := api.TutorStudents(ctx)
		return "", res, err
	case tabClustering:
		ov, err := api.ClusteringAnalysis(ctx)
		if err != nil {
			return "", nil, err
		}
		alumnos, err := api.ClusteredAlumnos(ctx)
		return views.ClusteringDashboard(ov, alumnos), nil, err
	}
	return "", nil, fmt.Errorf("unknown tab %d", tab)
}

func (m Model) recommend(alumnoID int) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		rec, err := api.GenerateRecommendations(ctx, alumnoID)
		if err != nil {
			return errMsg{tab: tabTutor, alumnoID: alumnoID, err: err}
		}
		return recommendationsMsg{alumnoID: alumnoID, rec: rec}
	}
}

func (m Model) ask(alumnoID int, question string, retry bool) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		reply, err := api.TutorChat(ctx, alumnoID, question)
		if err != nil {
			return errMsg{tab: tabTutor, alumnoID: alumnoID, err: err}
		}
		return chatReplyMsg{alumnoID: alumnoID, question: question, retry: retry, reply: reply}
	}
}
