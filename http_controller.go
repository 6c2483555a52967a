package auth

import (
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the authentication endpoints. Login and register
// are public; profile sits behind the authentication guard.
func RegisterAuthRoutes[T any](app router.Router[T], cfg Config, validator TokenValidator, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)
	if controller.ContextKey == "" {
		controller.ContextKey = cfg.GetContextKey()
	}

	protected := Protected(cfg, validator)

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login")

	app.Post(controller.Routes.Register, controller.RegisterPost).
		SetName("auth.register")

	app.Get(controller.Routes.Profile, controller.ProfileShow, protected).
		SetName("auth.profile")

	return controller
}

type AuthControllerRoutes struct {
	Login    string
	Register string
	Profile  string
}

// AuthController serves the JSON authentication endpoints.
type AuthController struct {
	Debug        bool
	Logger       Logger
	Auther       Authenticator
	Routes       *AuthControllerRoutes
	ContextKey   string
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: RespondWithError,
		Routes: &AuthControllerRoutes{
			Login:    "/auth/login",
			Register: "/auth/register",
			Profile:  "/auth/profile",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// WithAuther sets the authenticator used by the controller.
func WithAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// RegisterRequest payload
type RegisterRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// UserResponse is the serializable identity view returned by the endpoints.
type UserResponse struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// NewUserResponse converts an identity into its wire representation.
func NewUserResponse(identity Identity) UserResponse {
	return UserResponse{
		ID:    identity.ID(),
		Email: identity.Email(),
		Roles: identity.Roles(),
	}
}

// LoginResponse is the body returned by login and register.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

// NewLoginResponse converts an AuthResult into its wire representation.
func NewLoginResponse(result *AuthResult) LoginResponse {
	return LoginResponse{
		AccessToken: result.AccessToken,
		User:        NewUserResponse(result.Identity),
	}
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid login payload"))
	}

	if err := payload.Validate(); err != nil {
		return RespondWithValidationError(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	identity, err := a.Auther.ValidateUser(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	result, err := a.Auther.Login(ctx.Context(), identity)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, NewLoginResponse(result))
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid registration payload"))
	}

	if err := payload.Validate(); err != nil {
		return RespondWithValidationError(ctx, err)
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	result, err := a.Auther.Register(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, NewLoginResponse(result))
}

// ProfileShow returns the identity behind the presented token. It runs after
// the authentication guard so a missing identity means the guard was not
// mounted; we still fail closed.
func (a *AuthController) ProfileShow(ctx router.Context) error {
	identity, ok := IdentityFromRouterContext(ctx, a.ContextKey)
	if !ok || identity == nil {
		return a.ErrorHandler(ctx, ErrTokenMissing)
	}

	profile, err := a.Auther.GetProfile(ctx.Context(), identity.ID())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, NewUserResponse(profile))
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message  string `json:"message"`
	TextCode string `json:"code,omitempty"`
	Fields   error  `json:"fields,omitempty"`
}

// RespondWithError maps a rich error to its HTTP status and writes the JSON
// error envelope. Unknown errors are reported as internal without leaking
// the underlying message.
func RespondWithError(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "internal error")
	}

	return ctx.JSON(statusForCategory(richErr.Category), ErrorResponse{
		Error: ErrorBody{
			Message:  richErr.Message,
			TextCode: richErr.TextCode,
		},
	})
}

// RespondWithValidationError writes a 400 with the per-field validation
// failures from ozzo.
func RespondWithValidationError(ctx router.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorBody{
			Message:  "validation failed",
			TextCode: "VALIDATION",
			Fields:   err,
		},
	})
}

func statusForCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
