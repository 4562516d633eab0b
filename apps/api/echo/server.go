package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

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
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		AlumnoSvc       *alumno.Service
		CursoSvc        *curso.Service
		CompetenciaSvc  *competencia.Service
		InteligenciaSvc *inteligencia.Service
		CISvc           *ci.Service
		ProfesorSvc     *profesor.Service
		TutorSvc        *tutor.Service
		ChatSvc         *chat.Service
		ClusteringSvc   *clustering.Service
		ImporterSvc     *importer.Service
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(ctx context.Context) error
		Close() error
	}

	server struct {
		ServerDeps
		app      *echo.Echo
		auth     *authenticator
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		ServerDeps: deps,
		app:        echo.New(),
		auth:       newAuthenticator(deps.Conf, deps.ProfesorSvc),
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.Conf
	s.app.HideBanner = true
	s.app.Debug = conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: newRequestID}))
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     conf.Server.CORSAllowOrigins,
		AllowCredentials: true,
	}))
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.Translator, s.signalShutdown)

	s.app.GET("/", home)

	g := s.app.Group("/api")
	jwt := s.auth.middleware()

	registerAlumnoAPI(g, s.AlumnoSvc, s.Validate)
	registerCursoAPI(g, s.CursoSvc, s.Validate)
	registerCompetenciaAPI(g, s.CompetenciaSvc, s.Validate)
	registerInteligenciaAPI(g, s.InteligenciaSvc, s.Validate)
	registerCIAPI(g, s.CISvc, s.Validate)
	registerProfesorAPI(g, jwt, s.ProfesorSvc, s.auth, s.Validate, s.Logger)
	registerTutorAPI(g, jwt, s.TutorSvc, s.auth)
	registerChatAPI(g, jwt, s.ChatSvc, s.auth, s.Validate)
	registerClusteringAPI(g, s.ClusteringSvc)
	registerUploadAPI(g, s.ImporterSvc, conf.Server.MaxUploadSize)
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *server) Start() {
	if err := s.app.Start(s.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error { return s.errors }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error { return s.app.Close() }

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Sistema de Gestión Educativa"})
}
