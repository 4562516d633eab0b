package tutor

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
)

// NoContextMessage is the chat error returned while an alumno has no conversation.
const NoContextMessage = "No hay contexto de alumno. Primero genera recomendaciones para este alumno."

const (
	noRecommendations = "No se pudieron generar recomendaciones en este momento."
	noConversation    = "No hay conversación para este alumno"
)

var (
	ErrEmptyMessage      = core.NewBadRequestError("El mensaje no puede estar vacío")
	ErrNoProfesorEmail   = core.NewBadRequestError("El profesor no tiene un correo registrado")
	ErrNoRecommendations = core.NewBadRequestError("Aún no hay recomendaciones para este alumno")
)

// Store keeps the AI conversations, one per alumno.
type Store interface {
	Get(alumnoID int) (Conversation, bool)
	Save(conv Conversation)
	// Append adds msgs to the conversation of the alumno and returns it; false when there is none.
	Append(alumnoID int, msgs ...core.ChatMessage) (Conversation, bool)
	Delete(alumnoID int)
}

type Service struct {
	alumnoSvc *alumno.Service
	completer core.Completer
	store     Store
	mailSvc   core.EmailService
	conf      core.AIConfig
	logger    core.Logger
}

func NewService(
	alumnoSvc *alumno.Service,
	completer core.Completer,
	store Store,
	mailSvc core.EmailService,
	conf core.AIConfig,
	logger core.Logger,
) *Service {
	return &Service{
		alumnoSvc: alumnoSvc,
		completer: completer,
		store:     store,
		mailSvc:   mailSvc,
		conf:      conf,
		logger:    logger,
	}
}

func errMsg(format string, err error) *string {
	msg := fmt.Sprintf(format, err)
	return &msg
}

func (svc *Service) Students(ctx context.Context) ([]Student, error) {
	profiles, err := svc.alumnoSvc.Profiles(ctx)
	if err != nil {
		return nil, err
	}
	students := make([]Student, 0, len(profiles))
	for _, p := range profiles {
		students = append(students, NewStudent(p))
	}
	return students, nil
}

func (svc *Service) StudentProfile(ctx context.Context, alumnoID int) (StudentProfile, error) {
	p, err := svc.alumnoSvc.Profile(ctx, alumnoID)
	if err != nil {
		return StudentProfile{}, err
	}
	return NewStudentProfile(p), nil
}

// GenerateRecommendations asks the AI for a pedagogical analysis of the alumno and
// starts a new conversation about them. AI failures are reported in the result, not as errors.
func (svc *Service) GenerateRecommendations(ctx context.Context, alumnoID int) (Recommendations, error) {
	p, err := svc.alumnoSvc.Profile(ctx, alumnoID)
	if err != nil {
		return Recommendations{}, err
	}
	return svc.Recommend(ctx, NewStudentData(p)), nil
}

// Recommend runs the recommendation prompt on sd and stores the resulting conversation.
func (svc *Service) Recommend(ctx context.Context, sd StudentData) Recommendations {
	res := Recommendations{StudentName: studentName(sd), AnalysisSummary: ExtractSummary("")}

	prompt := StudentPrompt(sd)
	answer, err := svc.completer.Complete(ctx, core.CompletionRequest{
		Model:       svc.conf.RecommendationModel,
		Messages:    []core.ChatMessage{{Role: core.RoleUser, Content: prompt}},
		MaxTokens:   svc.conf.RecommendationMaxTokens,
		Temperature: svc.conf.Temperature,
	})
	if err != nil {
		svc.logger.Error("tutor.Recommend: generating recommendations", errors.Wrap(err, res.StudentName))
		res.Recommendations = noRecommendations
		res.Error = errMsg("Error al procesar la solicitud: %v", err)
		return res
	}

	svc.store.Save(Conversation{
		SessionID: uuid.New(),
		Student:   sd,
		Messages: []core.ChatMessage{
			{Role: core.RoleSystem, Content: SystemPrompt(sd)},
			{Role: core.RoleUser, Content: prompt},
			{Role: core.RoleAssistant, Content: answer},
		},
		LastUpdated: time.Now().UTC(),
	})

	res.Success = true
	res.Recommendations = answer
	res.AnalysisSummary = ExtractSummary(answer)
	return res
}

// Chat continues the conversation about the alumno. The user message is kept even when the AI fails.
func (svc *Service) Chat(ctx context.Context, alumnoID int, message string) (ChatReply, error) {
	message = core.CleanString(message)
	if message == "" {
		return ChatReply{}, ErrEmptyMessage
	}
	a, err := svc.alumnoSvc.Get(ctx, alumnoID)
	if err != nil {
		return ChatReply{}, err
	}

	conv, ok := svc.store.Append(alumnoID, core.ChatMessage{Role: core.RoleUser, Content: message})
	if !ok {
		msg := NoContextMessage
		return ChatReply{StudentName: a.Nombre, Error: &msg}, nil
	}

	answer, err := svc.completer.Complete(ctx, core.CompletionRequest{
		Model:       svc.conf.ChatModel,
		Messages:    conv.Messages,
		MaxTokens:   svc.conf.ChatMaxTokens,
		Temperature: svc.conf.Temperature,
	})
	if err != nil {
		svc.logger.Error("tutor.Chat: answering", errors.Wrap(err, a.Nombre))
		return ChatReply{StudentName: studentName(conv.Student), Error: errMsg("Error al procesar el mensaje: %v", err)}, nil
	}

	conv, _ = svc.store.Append(alumnoID, core.ChatMessage{Role: core.RoleAssistant, Content: answer})
	return ChatReply{
		Success:            true,
		Response:           answer,
		StudentName:        studentName(conv.Student),
		ConversationLength: len(conv.Messages),
	}, nil
}

// History returns the exchanges that followed the initial recommendations.
func (svc *Service) History(ctx context.Context, alumnoID int) (History, error) {
	a, err := svc.alumnoSvc.Get(ctx, alumnoID)
	if err != nil {
		return History{}, err
	}
	conv, ok := svc.store.Get(alumnoID)
	if !ok {
		msg := noConversation
		return History{StudentName: a.Nombre, Messages: []core.ChatMessage{}, Error: &msg}, nil
	}

	msgs := []core.ChatMessage{}
	if len(conv.Messages) > 3 {
		msgs = append(msgs, conv.Messages[3:]...)
	}
	lastUpdated := conv.LastUpdated
	return History{
		Success:     true,
		Messages:    msgs,
		StudentName: studentName(conv.Student),
		LastUpdated: &lastUpdated,
	}, nil
}

// Clear forgets the conversation about the alumno and returns their name.
func (svc *Service) Clear(ctx context.Context, alumnoID int) (string, error) {
	a, err := svc.alumnoSvc.Get(ctx, alumnoID)
	if err != nil {
		return "", err
	}
	svc.store.Delete(alumnoID)
	return a.Nombre, nil
}

// SendReport mails the latest recommendations about the alumno to the profesor.
func (svc *Service) SendReport(ctx context.Context, alumnoID int, to mail.Address) error {
	if to.Address == "" {
		return ErrNoProfesorEmail
	}
	if _, err := svc.alumnoSvc.Get(ctx, alumnoID); err != nil {
		return err
	}
	conv, ok := svc.store.Get(alumnoID)
	if !ok || len(conv.Messages) < 3 {
		return ErrNoRecommendations
	}
	recommendations := conv.Messages[2].Content

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{to},
		Subject:      "Recomendaciones pedagógicas: " + studentName(conv.Student),
		TemplateName: "recommendations_report",
		TemplateData: map[string]interface{}{
			"ProfesorName":    to.Name,
			"StudentName":     studentName(conv.Student),
			"GeneratedAt":     conv.LastUpdated.Format("02/01/2006 15:04"),
			"Recommendations": recommendations,
			"Summary":         ExtractSummary(recommendations),
		},
	})
	return nil
}
