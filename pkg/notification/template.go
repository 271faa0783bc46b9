package notification

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Template is a reusable notification blueprint. Title and message are
// Go text/template bodies rendered against caller-supplied data, and the
// remaining fields become the defaults of every notification the
// template generates.
type Template struct {
	ID          string
	Name        string
	Description string

	TitleTemplate   string
	MessageTemplate string

	Type            Type
	DefaultPriority Priority
	DefaultChannels ChannelSet

	ActionURLTemplate string
	ExpirationHours   *int

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// NewTemplateAt creates an active template.
func NewTemplateAt(id, name, titleTemplate, messageTemplate string, typ Type, now time.Time) *Template {
	return &Template{
		ID:              id,
		Name:            name,
		TitleTemplate:   titleTemplate,
		MessageTemplate: messageTemplate,
		Type:            typ,
		DefaultPriority: PriorityNormal,
		DefaultChannels: ChannelInApp,
		IsActive:        true,
		CreatedAt:       now,
	}
}

// NewTemplate is NewTemplateAt with the current wall-clock time.
func NewTemplate(id, name, titleTemplate, messageTemplate string, typ Type) *Template {
	return NewTemplateAt(id, name, titleTemplate, messageTemplate, typ, time.Now().UTC())
}

func (t *Template) touchAt(now time.Time) {
	updatedAt := now
	t.UpdatedAt = &updatedAt
}

// Activate makes the template available for generation.
func (t *Template) Activate() {
	t.IsActive = true
	t.touchAt(time.Now().UTC())
}

// Deactivate retires the template without deleting it.
func (t *Template) Deactivate() {
	t.IsActive = false
	t.touchAt(time.Now().UTC())
}

// SetDefaults overrides the priority and channels of generated notifications.
func (t *Template) SetDefaults(priority Priority, channels ChannelSet) {
	t.DefaultPriority = priority
	t.DefaultChannels = channels
	t.touchAt(time.Now().UTC())
}

// SetExpiration makes generated notifications expire after the given
// number of hours.
func (t *Template) SetExpiration(hours int) {
	t.ExpirationHours = &hours
	t.touchAt(time.Now().UTC())
}

// SetActionURLTemplate sets the templated link generated notifications carry.
func (t *Template) SetActionURLTemplate(urlTemplate string) {
	t.ActionURLTemplate = urlTemplate
	t.touchAt(time.Now().UTC())
}

func (t *Template) render(name, body string, data map[string]any) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return "", errors.Join(ErrTemplateRender, fmt.Errorf("parse %s: %w", name, err))
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", errors.Join(ErrTemplateRender, fmt.Errorf("execute %s: %w", name, err))
	}
	return sb.String(), nil
}

// Render evaluates the title and message templates against data.
func (t *Template) Render(data map[string]any) (title, message string, err error) {
	title, err = t.render("title", t.TitleTemplate, data)
	if err != nil {
		return "", "", err
	}
	message, err = t.render("message", t.MessageTemplate, data)
	if err != nil {
		return "", "", err
	}
	return title, message, nil
}

// GenerateAt renders the template and builds a pending notification
// with the template's defaults applied. Inactive templates refuse to
// generate.
func (t *Template) GenerateAt(data map[string]any, now time.Time, opts ...Option) (*Notification, error) {
	if !t.IsActive {
		return nil, ErrTemplateInactive
	}

	title, message, err := t.Render(data)
	if err != nil {
		return nil, err
	}

	defaults := []Option{
		WithPriority(t.DefaultPriority),
		WithChannels(t.DefaultChannels),
	}
	n, err := NewAt(title, message, t.Type, now, append(defaults, opts...)...)
	if err != nil {
		return nil, err
	}
	n.SetTemplate(t.ID)

	if t.ActionURLTemplate != "" {
		actionURL, err := t.render("action_url", t.ActionURLTemplate, data)
		if err != nil {
			return nil, err
		}
		n.SetActionURL(actionURL)
	}
	if t.ExpirationHours != nil {
		n.SetExpiration(now.Add(time.Duration(*t.ExpirationHours) * time.Hour))
	}
	return n, nil
}

// Generate is GenerateAt with the current wall-clock time.
func (t *Template) Generate(data map[string]any, opts ...Option) (*Notification, error) {
	return t.GenerateAt(data, time.Now().UTC(), opts...)
}
