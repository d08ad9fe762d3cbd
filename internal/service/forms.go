package service

import (
	"net/url"
	"strings"
	"time"

	"github.com/atinyakov/folio/internal/models"
	"github.com/atinyakov/folio/internal/validate"
)

// ParseList splits a comma separated field into trimmed, non-empty items,
// keeping their order.
func ParseList(s string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// ProjectForm is the submitted create/update form for a project.
type ProjectForm struct {
	Title        string `form:"title" json:"title" validate:"required,max=200"`
	Description  string `form:"description" json:"description" validate:"required"`
	Technologies string `form:"technologies" json:"technologies"`
	RepoURL      string `form:"repoUrl" json:"repoUrl" validate:"omitempty,url"`
	LiveURL      string `form:"liveUrl" json:"liveUrl" validate:"omitempty,url"`
	Visibility   string `form:"visibility" json:"visibility" validate:"oneof=public private"`
	// ImagePath is set by the upload step, never from the request body.
	ImagePath string `form:"-" json:"-"`
}

// Bind reads the form fields from submitted values, trimming text inputs.
func (f *ProjectForm) Bind(v url.Values) {
	f.Title = strings.TrimSpace(v.Get("title"))
	f.Description = strings.TrimSpace(v.Get("description"))
	f.Technologies = v.Get("technologies")
	f.RepoURL = strings.TrimSpace(v.Get("repoUrl"))
	f.LiveURL = strings.TrimSpace(v.Get("liveUrl"))
	f.Visibility = strings.TrimSpace(v.Get("visibility"))
}

// SetImage attaches the stored upload reference.
func (f *ProjectForm) SetImage(path string) { f.ImagePath = path }

// Validate checks the form fields.
func (f *ProjectForm) Validate() error { return validate.Struct(f) }

// New builds a project owned by ownerID from the form.
func (f *ProjectForm) New(ownerID string, now time.Time) *models.Project {
	p := &models.Project{OwnerID: ownerID, CreatedAt: now}
	f.Apply(p, now)
	return p
}

// Apply overwrites the editable fields of p. The image is replaced only
// when a new upload is attached.
func (f *ProjectForm) Apply(p *models.Project, now time.Time) {
	p.Title = f.Title
	p.Description = f.Description
	p.Technologies = ParseList(f.Technologies)
	p.RepoURL = f.RepoURL
	p.LiveURL = f.LiveURL
	p.Visibility = models.Visibility(f.Visibility)
	if f.ImagePath != "" {
		p.ImagePath = f.ImagePath
	}
	p.UpdatedAt = now
}

// PostForm is the submitted create/update form for a blog post.
type PostForm struct {
	Title      string `form:"title" json:"title" validate:"required,max=200"`
	Content    string `form:"content" json:"content" validate:"required"`
	Summary    string `form:"summary" json:"summary" validate:"max=300"`
	Tags       string `form:"tags" json:"tags"`
	Visibility string `form:"visibility" json:"visibility" validate:"oneof=public private"`
	ImagePath  string `form:"-" json:"-"`
}

// Bind reads the form fields from submitted values, trimming text inputs.
func (f *PostForm) Bind(v url.Values) {
	f.Title = strings.TrimSpace(v.Get("title"))
	f.Content = strings.TrimSpace(v.Get("content"))
	f.Summary = strings.TrimSpace(v.Get("summary"))
	f.Tags = v.Get("tags")
	f.Visibility = strings.TrimSpace(v.Get("visibility"))
}

// SetImage attaches the stored upload reference.
func (f *PostForm) SetImage(path string) { f.ImagePath = path }

// Validate checks the form fields.
func (f *PostForm) Validate() error { return validate.Struct(f) }

// New builds a post owned by ownerID from the form.
func (f *PostForm) New(ownerID string, now time.Time) *models.BlogPost {
	p := &models.BlogPost{OwnerID: ownerID, CreatedAt: now}
	f.Apply(p, now)
	return p
}

// Apply overwrites the editable fields of p.
func (f *PostForm) Apply(p *models.BlogPost, now time.Time) {
	p.Title = f.Title
	p.Content = f.Content
	p.Summary = f.Summary
	p.Tags = ParseList(f.Tags)
	p.Visibility = models.Visibility(f.Visibility)
	if f.ImagePath != "" {
		p.ImagePath = f.ImagePath
	}
	p.UpdatedAt = now
}

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Username string `form:"username" json:"username" validate:"required,min=3,max=50"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"-" validate:"required,min=6"`
}

// Bind reads the sign-up fields. The email is normalised to lower case.
func (f *RegisterForm) Bind(v url.Values) {
	f.Username = strings.TrimSpace(v.Get("username"))
	f.Email = strings.ToLower(strings.TrimSpace(v.Get("email")))
	f.Password = v.Get("password")
}

// Validate checks the sign-up fields.
func (f *RegisterForm) Validate() error { return validate.Struct(f) }

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"-" validate:"required"`
}

// Bind reads the sign-in fields. The email is normalised to lower case.
func (f *LoginForm) Bind(v url.Values) {
	f.Email = strings.ToLower(strings.TrimSpace(v.Get("email")))
	f.Password = v.Get("password")
}

// Validate checks the sign-in fields.
func (f *LoginForm) Validate() error { return validate.Struct(f) }
