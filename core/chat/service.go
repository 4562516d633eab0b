package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/ci"
	"github.com/trezcool/tutoria/core/inteligencia"
	"github.com/trezcool/tutoria/core/tutor"
)

var ErrRecommendationsFailed = core.NewInternalError("Error al generar recomendaciones")

type Repository interface {
	CreateConversacion(ctx context.Context, c Conversacion, exec ...core.DBExecutor) (Conversacion, error)
	// QueryConversaciones returns the messages between the profesor and the AI about the alumno, oldest first.
	QueryConversaciones(ctx context.Context, alumnoID, profesorID int, exec ...core.DBExecutor) ([]Conversacion, error)
	DeleteConversaciones(ctx context.Context, alumnoID, profesorID int, exec ...core.DBExecutor) (int, error)
}

type Service struct {
	repo      Repository
	alumnoSvc *alumno.Service
	tutorSvc  *tutor.Service
	completer core.Completer
	ai        core.AIConfig
	chat      core.ChatConfig
	logger    core.Logger
}

func NewService(
	repo Repository,
	alumnoSvc *alumno.Service,
	tutorSvc *tutor.Service,
	completer core.Completer,
	conf *core.Config,
	logger core.Logger,
) *Service {
	return &Service{
		repo:      repo,
		alumnoSvc: alumnoSvc,
		tutorSvc:  tutorSvc,
		completer: completer,
		ai:        conf.AI,
		chat:      conf.Chat,
		logger:    logger,
	}
}

// Context gathers the current profile of the alumno for the AI.
func (svc *Service) Context(ctx context.Context, alumnoID int) (StudentContext, error) {
	p, err := svc.alumnoSvc.Profile(ctx, alumnoID)
	if err != nil {
		return StudentContext{}, err
	}
	sc := StudentContext{
		AlumnoID:               p.Alumno.ID,
		Nombre:                 p.Alumno.Nombre,
		CI:                     p.Alumno.CI,
		Inteligencias:          inteligencia.Scores(p.Inteligencias),
		Calificaciones:         make([]tutor.GradeRef, 0, len(p.Calificaciones)),
		RecomendacionesBasicas: p.Alumno.RecomendacionesBasicas,
	}
	if sc.CI != nil {
		sc.CategoriaCI = ci.CategoryOf(*sc.CI)
	}
	for _, c := range p.Calificaciones {
		sc.Calificaciones = append(sc.Calificaciones, tutor.GradeRef{
			Competencia:  c.Competencia,
			Calificacion: c.Calificacion,
			Descripcion:  c.Descripcion,
		})
	}
	return sc, nil
}

// Send persists the profesor message, asks the AI with the recent history and persists its answer.
// On AI failure the profesor message stays stored.
func (svc *Service) Send(ctx context.Context, profesorID int, sm SendMessage) (Reply, error) {
	sc, err := svc.Context(ctx, sm.AlumnoID)
	if err != nil {
		return Reply{}, err
	}
	history, err := svc.repo.QueryConversaciones(ctx, sm.AlumnoID, profesorID)
	if err != nil {
		return Reply{}, errors.Wrap(err, "querying history")
	}

	contexto, err := json.Marshal(sc)
	if err != nil {
		return Reply{}, errors.Wrap(err, "encoding student context")
	}
	_, err = svc.repo.CreateConversacion(ctx, Conversacion{
		AlumnoID:       sm.AlumnoID,
		ProfesorID:     profesorID,
		Mensaje:        sm.Mensaje,
		EsUsuario:      true,
		FechaCreacion:  time.Now().UTC(),
		ContextoAlumno: string(contexto),
	})
	if err != nil {
		return Reply{}, errors.Wrap(err, "saving message")
	}

	answer, err := svc.completer.Complete(ctx, core.CompletionRequest{
		Model:       svc.ai.PersonalChatModel,
		Messages:    svc.messages(sc, history, sm.Mensaje),
		MaxTokens:   svc.ai.PersonalMaxTokens,
		Temperature: svc.ai.Temperature,
	})
	if err != nil {
		svc.logger.Error("chat.Send: answering", errors.Wrap(err, sc.Nombre))
		return Reply{}, core.NewInternalError(fmt.Sprintf("Error al procesar el mensaje: %v", err))
	}

	conv, err := svc.repo.CreateConversacion(ctx, Conversacion{
		AlumnoID:       sm.AlumnoID,
		ProfesorID:     profesorID,
		Mensaje:        answer,
		FechaCreacion:  time.Now().UTC(),
		ContextoAlumno: string(contexto),
	})
	if err != nil {
		return Reply{}, errors.Wrap(err, "saving answer")
	}
	return Reply{
		Success:        true,
		Response:       answer,
		StudentName:    sc.Nombre,
		ConversacionID: conv.ID,
	}, nil
}

// SendPublic is Send on behalf of the default profesor.
func (svc *Service) SendPublic(ctx context.Context, sm SendMessage) (Reply, error) {
	return svc.Send(ctx, svc.chat.DefaultProfesorID, sm)
}

func (svc *Service) messages(sc StudentContext, history []Conversacion, msg string) []core.ChatMessage {
	if window := svc.ai.HistoryWindow; window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	msgs := make([]core.ChatMessage, 0, len(history)+2)
	msgs = append(msgs, core.ChatMessage{Role: core.RoleSystem, Content: SystemPrompt(sc, svc.chat.SchoolName)})
	for _, c := range history {
		role := core.RoleAssistant
		if c.EsUsuario {
			role = core.RoleUser
		}
		msgs = append(msgs, core.ChatMessage{Role: role, Content: c.Mensaje})
	}
	return append(msgs, core.ChatMessage{Role: core.RoleUser, Content: msg})
}

func (svc *Service) History(ctx context.Context, profesorID, alumnoID int) (History, error) {
	a, err := svc.alumnoSvc.Get(ctx, alumnoID)
	if err != nil {
		return History{}, err
	}
	convs, err := svc.repo.QueryConversaciones(ctx, alumnoID, profesorID)
	if err != nil {
		return History{}, errors.Wrap(err, "querying history")
	}
	msgs := newMessages(convs)
	return History{
		AlumnoID:      a.ID,
		AlumnoNombre:  a.Nombre,
		Mensajes:      msgs,
		TotalMensajes: len(msgs),
	}, nil
}

// Clear deletes the conversation of the profesor about the alumno and returns the alumno name.
func (svc *Service) Clear(ctx context.Context, profesorID, alumnoID int) (string, error) {
	a, err := svc.alumnoSvc.Get(ctx, alumnoID)
	if err != nil {
		return "", err
	}
	if _, err = svc.repo.DeleteConversaciones(ctx, alumnoID, profesorID); err != nil {
		return "", errors.Wrap(err, "clearing conversation")
	}
	return a.Nombre, nil
}

func (svc *Service) Welcome(ctx context.Context, alumnoID int) (Welcome, error) {
	sc, err := svc.Context(ctx, alumnoID)
	if err != nil {
		return Welcome{}, err
	}
	return Welcome{
		Success:        true,
		WelcomeMessage: WelcomeMessage(sc),
		StudentName:    sc.Nombre,
		ContextSummary: sc.summary(),
	}, nil
}

// Recommendations runs the tutor recommendations on the chat context of the alumno.
func (svc *Service) Recommendations(ctx context.Context, alumnoID int) (Recommendations, error) {
	sc, err := svc.Context(ctx, alumnoID)
	if err != nil {
		return Recommendations{}, err
	}
	res := svc.tutorSvc.Recommend(ctx, sc.studentData())
	if !res.Success {
		return Recommendations{}, ErrRecommendationsFailed
	}
	return Recommendations{
		Success:         true,
		Recommendations: res.Recommendations,
		StudentName:     sc.Nombre,
		AnalysisSummary: res.AnalysisSummary,
		ContextSummary:  sc.summary(),
	}, nil
}
