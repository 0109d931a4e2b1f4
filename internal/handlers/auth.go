package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/crewclock/apiserver/internal/services"
	"github.com/crewclock/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionCookieName = "crewclock_session"
	defaultSessionTTL = 12 * time.Hour
)

// AuthHandler manages the signed session cookie.
type AuthHandler struct {
	employees  *services.EmployeeService
	secret     []byte
	sessionTTL time.Duration
	secure     bool
}

// NewAuthHandler constructs an AuthHandler. secure marks the cookie Secure.
func NewAuthHandler(employees *services.EmployeeService, secret string, secure bool) *AuthHandler {
	return &AuthHandler{
		employees:  employees,
		secret:     []byte(secret),
		sessionTTL: defaultSessionTTL,
		secure:     secure,
	}
}

// AuthRouter registers login and logout routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Get("/login", handler.LoginPage)
	r.Post("/login", handler.Login)
	r.Post("/logout", handler.Logout)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Session  types.Session `json:"session"`
	Redirect string        `json:"redirect"`
}

type LoginPageResponse struct {
	Authenticated bool     `json:"authenticated"`
	Fields        []string `json:"fields"`
}

// LoginPage describes the login form.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	_, err := h.readSession(r)
	writeJSON(w, http.StatusOK, LoginPageResponse{
		Authenticated: err == nil,
		Fields:        []string{"username", "password"},
	})
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	input, err := readInput(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req := LoginRequest{Username: input["username"], Password: input["password"]}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	employee, err := h.employees.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	session := types.NewSession(employee)
	if err := h.SetSession(w, session); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Session: session, Redirect: landingPage(session)})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	redirect(w, r, "/login")
}

// SetSession signs session into the cookie, replacing any previous one.
func (h *AuthHandler) SetSession(w http.ResponseWriter, session types.Session) error {
	token, expires, err := issueToken(session, h.secret, h.sessionTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// RequireAuth redirects requests without a valid session to /login.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := h.readSession(r)
		if err != nil {
			redirect(w, r, "/login")
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
	})
}

// RequireAdmin behaves like RequireAuth and also redirects non-admins to /.
func (h *AuthHandler) RequireAdmin(next http.Handler) http.Handler {
	return h.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessionFromContext(r.Context())
		if !session.IsAdmin() {
			redirect(w, r, "/")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// RequireOnboarding redirects employees who have not submitted the starter
// form to /onboarding. It must run after RequireAuth.
func RequireOnboarding(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromContext(r.Context())
		if !ok {
			redirect(w, r, "/login")
			return
		}
		if !session.IsAdmin() && !session.OnboardingCompleted {
			redirect(w, r, "/onboarding")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AuthHandler) readSession(r *http.Request) (types.Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return types.Session{}, err
	}
	return parseToken(strings.TrimSpace(cookie.Value), h.secret)
}

func landingPage(session types.Session) string {
	switch {
	case session.IsAdmin():
		return "/admin/employees"
	case !session.OnboardingCompleted:
		return "/onboarding"
	default:
		return "/clock"
	}
}

type sessionClaims struct {
	types.Session
	jwt.RegisteredClaims
}

func issueToken(session types.Session, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ttl)
	claims := sessionClaims{
		Session: session,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	return signed, expires, err
}

func parseToken(tokenString string, secret []byte) (types.Session, error) {
	if tokenString == "" {
		return types.Session{}, errors.New("missing session")
	}
	claims := sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return types.Session{}, err
	}
	if !token.Valid {
		return types.Session{}, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.Subject != claims.Username {
		return types.Session{}, errors.New("missing subject")
	}
	return claims.Session, nil
}
