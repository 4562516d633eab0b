package profesor

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/curso"
)

var (
	ErrNotFound        = core.NewNotFoundError("Profesor no encontrado")
	ErrDNITaken        = core.NewBadRequestError("DNI already registered")
	ErrAssignFailed    = core.NewBadRequestError("No se pudo asignar el curso")
	ErrUnassignFailed  = core.NewBadRequestError("No se pudo desasignar el curso")
	ErrInvalidResetURL = core.NewBadRequestError("El enlace para restablecer la contraseña ya no es válido")
)

type Repository interface {
	CreateProfesor(ctx context.Context, p Profesor, exec ...core.DBExecutor) (Profesor, error)
	QueryProfesores(ctx context.Context, page core.Page, exec ...core.DBExecutor) ([]Profesor, error)
	GetProfesor(ctx context.Context, id int, exec ...core.DBExecutor) (Profesor, error)
	GetProfesorByDNI(ctx context.Context, dni string, exec ...core.DBExecutor) (Profesor, error)
	// GetProfesorByDNIOrNombre matches the DNI first, then the exact Nombre.
	GetProfesorByDNIOrNombre(ctx context.Context, identifier string, exec ...core.DBExecutor) (Profesor, error)
	// GetProfesorByEmail does a case-insensitive match.
	GetProfesorByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (Profesor, error)
	UpdateProfesor(ctx context.Context, p Profesor, exec ...core.DBExecutor) (Profesor, error)
	SetLastLogin(ctx context.Context, id int, at time.Time, exec ...core.DBExecutor) error
	DeleteProfesor(ctx context.Context, id int, exec ...core.DBExecutor) error

	QueryProfesorCursos(ctx context.Context, profesorID int, exec ...core.DBExecutor) ([]curso.Curso, error)
	// AssignCurso returns false when the course is already assigned to the profesor.
	AssignCurso(ctx context.Context, profesorID, cursoID int, exec ...core.DBExecutor) (bool, error)
	// UnassignCurso returns false when the course was not assigned to the profesor.
	UnassignCurso(ctx context.Context, profesorID, cursoID int, exec ...core.DBExecutor) (bool, error)
	// QueryCursosDisponibles returns the courses no profesor teaches.
	QueryCursosDisponibles(ctx context.Context, exec ...core.DBExecutor) ([]curso.Curso, error)
	// QueryProfesorGrades returns every calificacion given in the courses of the profesor.
	QueryProfesorGrades(ctx context.Context, profesorID int, exec ...core.DBExecutor) ([]Grade, error)
}

type Service struct {
	repo      Repository
	cursoRepo curso.Repository
	mailSvc   core.EmailService
	tokens    *tokenGenerator
	appName   string
}

func NewService(repo Repository, cursoRepo curso.Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:      repo,
		cursoRepo: cursoRepo,
		mailSvc:   mailSvc,
		tokens:    newTokenGenerator(conf.SecretKey, conf.PasswordResetTimeoutDelta),
		appName:   conf.AppName,
	}
}

func (svc *Service) checkDNI(ctx context.Context, dni string, excludedID int) error {
	p, err := svc.repo.GetProfesorByDNI(ctx, dni)
	switch {
	case err == nil:
		if p.ID != excludedID {
			return ErrDNITaken
		}
		return nil
	case errors.Cause(err) == ErrNotFound:
		return nil
	default:
		return errors.Wrap(err, "checking DNI uniqueness")
	}
}

func (svc *Service) Register(ctx context.Context, np NewProfesor) (Profesor, error) {
	if err := svc.checkDNI(ctx, np.DNI, 0); err != nil {
		return Profesor{}, err
	}
	p := Profesor{
		Nombre: np.Nombre,
		DNI:    np.DNI,
		Email:  np.Email,
	}
	if err := p.SetPassword(np.Contrasena); err != nil {
		return Profesor{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateProfesor(ctx, p)
}

// Authenticate finds the profesor by DNI or Nombre, checks the password and records the login.
// It returns ErrNotFound when either the profesor or the password does not match.
func (svc *Service) Authenticate(ctx context.Context, identifier, pwd string) (Profesor, error) {
	p, err := svc.repo.GetProfesorByDNIOrNombre(ctx, core.CleanString(identifier))
	if err != nil {
		return Profesor{}, err
	}
	if err = p.CheckPassword(pwd); err != nil {
		return Profesor{}, ErrNotFound
	}
	p.LastLogin = time.Now().UTC()
	if err = svc.repo.SetLastLogin(ctx, p.ID, p.LastLogin); err != nil {
		return Profesor{}, errors.Wrap(err, "setting last login")
	}
	return p, nil
}

func (svc *Service) Query(ctx context.Context, page core.Page) ([]Profesor, error) {
	return svc.repo.QueryProfesores(ctx, page.Clean())
}

func (svc *Service) Get(ctx context.Context, id int) (Profesor, error) {
	return svc.repo.GetProfesor(ctx, id)
}

func (svc *Service) GetByDNI(ctx context.Context, dni string) (Profesor, error) {
	return svc.repo.GetProfesorByDNI(ctx, core.CleanString(dni))
}

// Update expects up to have been validated against p, which fills in the untouched fields.
func (svc *Service) Update(ctx context.Context, p Profesor, up UpdateProfesor) (Profesor, error) {
	if up.DNI != p.DNI {
		if err := svc.checkDNI(ctx, up.DNI, p.ID); err != nil {
			return Profesor{}, err
		}
	}
	p.Nombre, p.DNI, p.Email = up.Nombre, up.DNI, up.Email
	if up.Contrasena != "" {
		if err := p.SetPassword(up.Contrasena); err != nil {
			return Profesor{}, errors.Wrap(err, "hashing password")
		}
	}
	return svc.repo.UpdateProfesor(ctx, p)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	if _, err := svc.repo.GetProfesor(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteProfesor(ctx, id)
}

func (svc *Service) Cursos(ctx context.Context, id int) ([]curso.Curso, error) {
	if _, err := svc.repo.GetProfesor(ctx, id); err != nil {
		return nil, err
	}
	return svc.repo.QueryProfesorCursos(ctx, id)
}

func (svc *Service) AssignCurso(ctx context.Context, id, cursoID int) error {
	if _, err := svc.repo.GetProfesor(ctx, id); err != nil {
		if core.IsNotFound(err) {
			return ErrAssignFailed
		}
		return err
	}
	if _, err := svc.cursoRepo.GetCurso(ctx, cursoID); err != nil {
		if core.IsNotFound(err) {
			return ErrAssignFailed
		}
		return err
	}
	ok, err := svc.repo.AssignCurso(ctx, id, cursoID)
	if err != nil {
		return errors.Wrap(err, "assigning curso")
	}
	if !ok {
		return ErrAssignFailed
	}
	return nil
}

func (svc *Service) UnassignCurso(ctx context.Context, id, cursoID int) error {
	ok, err := svc.repo.UnassignCurso(ctx, id, cursoID)
	if err != nil {
		return errors.Wrap(err, "unassigning curso")
	}
	if !ok {
		return ErrUnassignFailed
	}
	return nil
}

func (svc *Service) CursosDisponibles(ctx context.Context) ([]curso.Curso, error) {
	return svc.repo.QueryCursosDisponibles(ctx)
}

func (svc *Service) Stats(ctx context.Context, id int) (Stats, error) {
	p, err := svc.repo.GetProfesor(ctx, id)
	if err != nil {
		return Stats{}, err
	}
	cursos, err := svc.repo.QueryProfesorCursos(ctx, id)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying cursos")
	}
	grades, err := svc.repo.QueryProfesorGrades(ctx, id)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying grades")
	}
	return ComputeStats(p, cursos, grades), nil
}

// RequestPasswordReset mails a reset link to the profesor owning email.
// It returns ErrNotFound when no profesor has this email.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	p, err := svc.repo.GetProfesorByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	svc.mailSvc.SendMessages(svc.passwordResetMessage(p))
	return nil
}

func (svc *Service) passwordResetMessage(p Profesor) *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: p.Nombre, Address: p.Email}},
		Subject:      "Password Reset on " + svc.appName,
		TemplateName: "password_reset",
		TemplateData: map[string]interface{}{
			"Name":  p.Nombre,
			"UID":   EncodeUID(p),
			"Token": svc.tokens.makeToken(p),
		},
	}
}

// MakeResetToken returns a fresh password reset token for p.
func (svc *Service) MakeResetToken(p Profesor) string {
	return svc.tokens.makeToken(p)
}

// ResetTarget returns the profesor whose reset link holds rp's uid and token.
func (svc *Service) ResetTarget(ctx context.Context, rp ResetPassword) (Profesor, error) {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return Profesor{}, ErrInvalidResetURL
	}
	p, err := svc.repo.GetProfesor(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Profesor{}, ErrInvalidResetURL
		}
		return Profesor{}, err
	}
	if err = svc.tokens.verifyToken(p, rp.Token); err != nil {
		return Profesor{}, ErrInvalidResetURL
	}
	return p, nil
}

// ResetPassword sets the password of p, which must come from ResetTarget.
func (svc *Service) ResetPassword(ctx context.Context, p Profesor, pwd string) error {
	if err := p.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	_, err := svc.repo.UpdateProfesor(ctx, p)
	return errors.Wrap(err, "saving password")
}

// SetPassword replaces the password of the profesor identified by dni.
func (svc *Service) SetPassword(ctx context.Context, dni, pwd string) error {
	p, err := svc.GetByDNI(ctx, dni)
	if err != nil {
		return err
	}
	if err = p.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	_, err = svc.repo.UpdateProfesor(ctx, p)
	return errors.Wrap(err, "saving password")
}
