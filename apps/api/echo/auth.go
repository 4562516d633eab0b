package echoapi

import (
	"context"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/profesor"
)

const (
	contextTokenKey    = "profesorToken"
	contextProfesorKey = "profesor"
	tokenType          = "bearer"
)

// Claims represents the authorization claims transmitted via a JWT. The subject is the DNI of the profesor.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	ProfesorID   int    `json:"profesor_id"`
	Nombre       string `json:"nombre,omitempty"`
}

type authenticator struct {
	conf      *core.Config
	svc       *profesor.Service
	jwtConfig middleware.JWTConfig
}

func newAuthenticator(conf *core.Config, svc *profesor.Service) *authenticator {
	return &authenticator{
		conf: conf,
		svc:  svc,
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
	}
}

func (a *authenticator) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.jwtConfig)
}

// NewClaims returns fresh claims for p; origIat carries the original issue time over token refreshes.
func (a *authenticator) NewClaims(p profesor.Profesor, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.conf.AppName,
			Subject:   p.DNI,
			Id:        strconv.Itoa(p.ID),
			ExpiresAt: now.Add(a.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		ProfesorID:   p.ID,
		Nombre:       p.Nombre,
	}
}

// GenerateToken signs the claims with the app secret key.
func (a *authenticator) GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.jwtConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (a *authenticator) authenticate(ctx context.Context, identifier, pwd string) (string, error) {
	p, err := a.svc.Authenticate(ctx, identifier, pwd)
	if err != nil {
		if errors.Cause(err) == profesor.ErrNotFound {
			return "", errAuthenticationFailed
		}
		return "", errors.Wrap(err, "authenticating")
	}
	return a.GenerateToken(a.NewClaims(p))
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// contextProfesor returns the authenticated profesor, cached on the context.
func (a *authenticator) contextProfesor(ctx echo.Context) (profesor.Profesor, error) {
	if p, ok := ctx.Get(contextProfesorKey).(profesor.Profesor); ok {
		return p, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return profesor.Profesor{}, err
	}
	p, err := a.svc.GetByDNI(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == profesor.ErrNotFound {
			return profesor.Profesor{}, errUnauthorized
		}
		return profesor.Profesor{}, errors.Wrap(err, "finding profesor by DNI")
	}
	ctx.Set(contextProfesorKey, p)
	return p, nil
}

func (a *authenticator) refreshToken(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", err
	}
	p, err := a.contextProfesor(ctx)
	if err != nil {
		return "", err
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(a.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	token, err := a.GenerateToken(a.NewClaims(p, claims.OrigIssuedAt))
	return token, errors.Wrap(err, "generating token")
}

type (
	LoginRequest struct {
		Username string `json:"username" form:"username" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	TokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
)

func newTokenResponse(token string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: tokenType}
}
