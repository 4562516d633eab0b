package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/tutoria/core/chat"
	"github.com/trezcool/tutoria/ui/views"
)

const markdownWidth = 100

// alumnoCmd builds a command taking a single ALUMNO_ID argument.
func alumnoCmd(use, short string, run func(cmd *cobra.Command, id int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ALUMNO_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			return run(cmd, id)
		},
	}
}

func (c *cli) tutorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tutor",
		Short: "AI tutor: student profiles, recommendations and conversations",
	}

	students := &cobra.Command{
		Use:   "students",
		Short: "List the alumnos the tutor knows about",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.client.TutorStudents(cmd.Context())
			if err != nil {
				return err
			}
			return c.render(res, func() string { return views.StudentsTable(res) })
		},
	}

	profile := alumnoCmd("profile", "Show the full profile of an alumno", func(cmd *cobra.Command, id int) error {
		p, err := c.client.TutorStudent(cmd.Context(), id)
		if err != nil {
			return err
		}
		return c.render(p, func() string { return views.StudentProfile(p) })
	})

	recommend := alumnoCmd("recommend", "Generate AI recommendations for an alumno", func(cmd *cobra.Command, id int) error {
		rec, err := c.client.GenerateRecommendations(cmd.Context(), id)
		if err != nil {
			return err
		}
		return c.render(rec, func() string { return views.Recommendations(rec, markdownWidth) })
	})

	ask := &cobra.Command{
		Use:   "chat ALUMNO_ID MESSAGE...",
		Short: "Ask the tutor about an alumno (run recommend first)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			reply, err := c.client.TutorChat(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if !reply.Success && reply.Error != nil {
				return errors.New(*reply.Error)
			}
			return c.render(reply, func() string { return views.Markdown(reply.Response, markdownWidth) })
		},
	}

	history := alumnoCmd("history", "Show the tutor conversation about an alumno", func(cmd *cobra.Command, id int) error {
		h, err := c.client.TutorHistory(cmd.Context(), id)
		if err != nil {
			return err
		}
		return c.render(h, func() string { return views.Conversation(h, markdownWidth) })
	})

	clearConv := alumnoCmd("clear", "Forget the tutor conversation about an alumno", func(cmd *cobra.Command, id int) error {
		msg, err := c.client.ClearTutorConversation(cmd.Context(), id)
		if err != nil {
			return err
		}
		return c.message(msg)
	})

	report := alumnoCmd("send-report", "Email the latest recommendations to the authenticated profesor", func(cmd *cobra.Command, id int) error {
		msg, err := c.client.SendReport(cmd.Context(), id)
		if err != nil {
			return err
		}
		return c.message(msg)
	})

	cmd.AddCommand(students, profile, recommend, ask, history, clearConv, report)
	return cmd
}

func (c *cli) chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Personal chat with the assistant about an alumno (saved per profesor)",
	}

	var public bool
	send := &cobra.Command{
		Use:   "send ALUMNO_ID MESSAGE...",
		Short: "Send a message about an alumno",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			sm := chat.SendMessage{AlumnoID: id, Mensaje: strings.Join(args[1:], " ")}
			var reply chat.Reply
			if public {
				reply, err = c.client.SendPublicChatMessage(cmd.Context(), sm)
			} else {
				reply, err = c.client.SendChatMessage(cmd.Context(), sm)
			}
			if err != nil {
				return err
			}
			return c.render(reply, func() string { return views.Markdown(reply.Response, markdownWidth) })
		},
	}
	send.Flags().BoolVar(&public, "public", false, "send without authentication, as the default profesor")

	history := alumnoCmd("history", "Show the chat about an alumno", func(cmd *cobra.Command, id int) error {
		h, err := c.client.ChatHistory(cmd.Context(), id)
		if err != nil {
			return err
		}
		return c.render(h, func() string { return views.ChatHistory(h, markdownWidth) })
	})

	clearConv := alumnoCmd("clear", "Delete the chat about an alumno", func(cmd *cobra.Command, id int) error {
		msg, err := c.client.ClearChat(cmd.Context(), id)
		if err != nil {
			return err
		}
		return c.message(msg)
	})

	welcome := alumnoCmd("welcome", "Greeting of the assistant for an alumno", func(cmd *cobra.Command, id int) error {
		w, err := c.client.ChatWelcome(cmd.Context(), id)
		if err != nil {
			return err
		}
		return c.render(w, func() string { return views.ChatWelcome(w, markdownWidth) })
	})

	recommendations := alumnoCmd("recommendations", "Recommendations from the assistant for an alumno", func(cmd *cobra.Command, id int) error {
		rec, err := c.client.ChatRecommendations(cmd.Context(), id)
		if err != nil {
			return err
		}
		return c.render(rec, func() string { return views.Markdown(rec.Recommendations, markdownWidth) })
	})

	cmd.AddCommand(send, history, clearConv, welcome, recommendations)
	return cmd
}
