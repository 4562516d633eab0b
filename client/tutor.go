package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trezcool/tutoria/core/chat"
	"github.com/trezcool/tutoria/core/tutor"
)

type (
	StudentsResponse struct {
		Success  bool            `json:"success"`
		Students []tutor.Student `json:"students"`
		Total    int             `json:"total"`
	}

	StudentResponse struct {
		Success bool                 `json:"success"`
		Alumno  tutor.StudentProfile `json:"alumno"`
	}
)

func (c *Client) TutorStudents(ctx context.Context) ([]tutor.Student, error) {
	var res StudentsResponse
	err := c.get(ctx, "/ai-assistant/students", &res)
	return res.Students, err
}

func (c *Client) TutorStudent(ctx context.Context, alumnoID int) (tutor.StudentProfile, error) {
	var res StudentResponse
	err := c.get(ctx, fmt.Sprintf("/ai-assistant/student/%d", alumnoID), &res)
	return res.Alumno, err
}

// GenerateRecommendations starts a new AI conversation about the alumno.
// An AI failure is reported through Recommendations.Error, not as an error.
func (c *Client) GenerateRecommendations(ctx context.Context, alumnoID int) (tutor.Recommendations, error) {
	var res tutor.Recommendations
	err := c.send(ctx, http.MethodPost, fmt.Sprintf("/ai-assistant/generate-recommendations/%d", alumnoID), nil, &res)
	return res, err
}

func (c *Client) TutorChat(ctx context.Context, alumnoID int, message string) (tutor.ChatReply, error) {
	var res tutor.ChatReply
	err := c.send(ctx, http.MethodPost, fmt.Sprintf("/ai-assistant/chat/%d", alumnoID), map[string]string{"message": message}, &res)
	return res, err
}

func (c *Client) TutorHistory(ctx context.Context, alumnoID int) (tutor.History, error) {
	var res tutor.History
	err := c.get(ctx, fmt.Sprintf("/ai-assistant/conversation-history/%d", alumnoID), &res)
	return res, err
}

func (c *Client) ClearTutorConversation(ctx context.Context, alumnoID int) (string, error) {
	var res SuccessResponse
	err := c.send(ctx, http.MethodDelete, fmt.Sprintf("/ai-assistant/conversation/%d", alumnoID), nil, &res)
	return res.Message, err
}

// SendReport emails the current recommendations of the alumno to the logged-in profesor.
func (c *Client) SendReport(ctx context.Context, alumnoID int) (string, error) {
	var res SuccessResponse
	err := c.send(ctx, http.MethodPost, fmt.Sprintf("/ai-assistant/send-report/%d", alumnoID), nil, &res)
	return res.Message, err
}

// SendChatMessage talks to the AI about an alumno as the logged-in profesor; the exchange is stored.
func (c *Client) SendChatMessage(ctx context.Context, sm chat.SendMessage) (chat.Reply, error) {
	var res chat.Reply
	err := c.send(ctx, http.MethodPost, "/personal-chat/send-message", sm, &res)
	return res, err
}

// SendPublicChatMessage is SendChatMessage without a login; the exchange is stored for the default profesor.
func (c *Client) SendPublicChatMessage(ctx context.Context, sm chat.SendMessage) (chat.Reply, error) {
	var res chat.Reply
	err := c.send(ctx, http.MethodPost, "/personal-chat/send-message-public", sm, &res)
	return res, err
}

func (c *Client) ChatHistory(ctx context.Context, alumnoID int) (chat.History, error) {
	var res chat.History
	err := c.get(ctx, fmt.Sprintf("/personal-chat/history/%d", alumnoID), &res)
	return res, err
}

func (c *Client) ClearChat(ctx context.Context, alumnoID int) (string, error) {
	var res SuccessResponse
	err := c.send(ctx, http.MethodDelete, fmt.Sprintf("/personal-chat/clear/%d", alumnoID), nil, &res)
	return res.Message, err
}

func (c *Client) ChatWelcome(ctx context.Context, alumnoID int) (chat.Welcome, error) {
	var res chat.Welcome
	err := c.get(ctx, fmt.Sprintf("/personal-chat/welcome/%d", alumnoID), &res)
	return res, err
}

func (c *Client) ChatRecommendations(ctx context.Context, alumnoID int) (chat.Recommendations, error) {
	var res chat.Recommendations
	err := c.get(ctx, fmt.Sprintf("/personal-chat/recommendations/%d", alumnoID), &res)
	return res, err
}
