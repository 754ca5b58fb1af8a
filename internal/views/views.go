// Package views renders the HTML pages of Warbler.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/anonto42/warbler/internal/models"
	"github.com/anonto42/warbler/internal/session"
	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Renderer.Render
const (
	HomePage           = "home.html"
	HomeAnonPage       = "home_anon.html"
	SignupPage         = "signup.html"
	LoginPage          = "login.html"
	UsersIndexPage     = "users_index.html"
	UsersShowPage      = "users_show.html"
	UsersFollowingPage = "users_following.html"
	UsersFollowersPage = "users_followers.html"
	UsersLikesPage     = "users_likes.html"
	UsersEditPage      = "users_edit.html"
	MessagesNewPage    = "messages_new.html"
	MessagesShowPage   = "messages_show.html"
	NotFoundPage       = "not_found.html"
	ErrorPage          = "error.html"
)

var pages = []string{
	HomePage, HomeAnonPage, SignupPage, LoginPage,
	UsersIndexPage, UsersShowPage, UsersFollowingPage, UsersFollowersPage, UsersLikesPage, UsersEditPage,
	MessagesNewPage, MessagesShowPage, NotFoundPage, ErrorPage,
}

// Page is the value every template is executed with
type Page struct {
	Title       string
	CurrentUser *models.User
	Flashes     []session.Flash
	Errors      []string
	Data        interface{}
}

// MessageList is the input of the shared "message_list" template
type MessageList struct {
	Messages    []models.Message
	Likes       map[uint]bool
	CurrentUser *models.User
}

// Renderer implements echo.Renderer over the embedded templates. Each page
// is parsed together with the base layout into its own set.
type Renderer struct {
	templates map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
	"liked": func(likes map[uint]bool, id uint) bool {
		return likes[id]
	},
	"messageList": func(messages []models.Message, likes map[uint]bool, user *models.User) MessageList {
		return MessageList{Messages: messages, Likes: likes, CurrentUser: user}
	},
}

// NewRenderer parses every page. It fails when a template does not parse.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}

// Static returns the embedded stylesheet and images, rooted at "static"
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
