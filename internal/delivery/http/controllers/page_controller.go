package controllers

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"
)

//go:embed templates/*.html
var pageFS embed.FS

var pageFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

// ParsePages parses the embedded HTML page templates.
func ParsePages() (*template.Template, error) {
	return template.New("pages").Funcs(pageFuncs).ParseFS(pageFS, "templates/*.html")
}

// pageData is the data every page template receives.
type pageData struct {
	Title    string
	LoggedIn bool
	Notice   *helpers.Notice
	Errors   []string
	Next     string
	Form     any
	Data     any
}

// PageController serves the server-rendered HTML pages.
type PageController struct {
	Logger       *slog.Logger
	Catalog      domain.CatalogService
	Reservations domain.ReservationService
	Users        domain.UserService
	Cookie       SessionCookie
	Templates    *template.Template
}

func NewPageController(logger *slog.Logger, catalog domain.CatalogService, reservations domain.ReservationService,
	users domain.UserService, cookie SessionCookie, templates *template.Template) *PageController {
	return &PageController{
		Logger:       logger,
		Catalog:      catalog,
		Reservations: reservations,
		Users:        users,
		Cookie:       cookie,
		Templates:    templates,
	}
}

func (c *PageController) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	_, data.LoggedIn = middleware.UserIDFromContext(r.Context())
	if data.Notice == nil {
		data.Notice = helpers.PopNotice(w, r)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Templates.ExecuteTemplate(w, name, data); err != nil {
		c.Logger.ErrorContext(r.Context(), "render page failed", "page", name, "err", err)
	}
}

func (c *PageController) serverError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed",
		"path", r.URL.Path,
		"method", r.Method,
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"err", err,
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// Home lists the events with their occurrences and available seats.
func (c *PageController) Home(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	events, total, err := c.Catalog.ListEvents(r.Context(), params)
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	c.render(w, r, http.StatusOK, "home", pageData{
		Title: "Events",
		Data: ListEventsData{
			Items:      newEventResponses(events),
			Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
		},
	})
}

// Event shows the occurrences of one event with a booking form.
func (c *PageController) Event(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r, "eventID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	out, err := c.Catalog.GetEventOccurrences(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.SetNotice(w, helpers.NoticeWarning, "Event not found.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		c.serverError(w, r, err)
		return
	}
	c.render(w, r, http.StatusOK, "event", pageData{Title: out.EventName, Data: newEventOccurrencesResponse(out)})
}

// MyReservations lists the reservations of the logged-in user.
func (c *PageController) MyReservations(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	list, err := c.Reservations.ListMine(r.Context(), userID)
	if err != nil {
		c.serverError(w, r, err)
		return
	}
	c.render(w, r, http.StatusOK, "reservations", pageData{Title: "My reservations", Data: newReservationResponses(list)})
}

// RegisterForm shows the registration form.
func (c *PageController) RegisterForm(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, "register", pageData{Title: "Register", Form: RegisterRequest{}})
}

// Register handles the registration form.
func (c *PageController) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := RegisterRequest{
		FirstName:       r.PostForm.Get("first_name"),
		LastName:        r.PostForm.Get("last_name"),
		Phone:           r.PostForm.Get("phone"),
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	}
	if errs := helpers.ValidateStruct(&req); len(errs) > 0 {
		c.render(w, r, http.StatusBadRequest, "register", pageData{Title: "Register", Errors: errs, Form: req})
		return
	}
	if _, err := c.Users.Register(r.Context(), req.input()); err != nil {
		if status, _ := statusFor(err); status == http.StatusBadRequest {
			c.render(w, r, http.StatusBadRequest, "register", pageData{Title: "Register", Errors: []string{err.Error()}, Form: req})
			return
		}
		c.serverError(w, r, err)
		return
	}
	helpers.SetNotice(w, helpers.NoticeSuccess, "Registration complete, you can now log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginForm shows the login form. next is kept for the redirect after login.
func (c *PageController) LoginForm(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusOK, "login", pageData{
		Title: "Log in",
		Next:  safeNext(r.URL.Query().Get("next")),
		Form:  LoginRequest{},
	})
}

// Login handles the login form and sets the session cookie.
func (c *PageController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := LoginRequest{Email: r.PostForm.Get("email"), Password: r.PostForm.Get("password")}
	next := safeNext(r.PostForm.Get("next"))
	if errs := helpers.ValidateStruct(&req); len(errs) > 0 {
		c.render(w, r, http.StatusBadRequest, "login", pageData{Title: "Log in", Errors: errs, Next: next, Form: req})
		return
	}
	session, err := c.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.render(w, r, http.StatusUnauthorized, "login", pageData{
				Title:  "Log in",
				Errors: []string{"Invalid email or password."},
				Next:   next,
				Form:   LoginRequest{Email: req.Email},
			})
			return
		}
		c.serverError(w, r, err)
		return
	}
	c.Cookie.set(w, session.Token, session.ExpiresAt)
	helpers.SetNotice(w, helpers.NoticeSuccess, "Welcome back, "+session.User.FirstName+".")
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout clears the session and returns to the home page.
func (c *PageController) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r, c.Cookie.Name); token != "" {
		if err := c.Users.Logout(r.Context(), token); err != nil {
			c.Logger.WarnContext(r.Context(), "logout failed", "err", err)
		}
	}
	c.Cookie.clear(w)
	helpers.SetNotice(w, helpers.NoticeSuccess, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// safeNext keeps only same-site relative paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
