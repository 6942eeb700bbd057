package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	htmpl "html/template"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines standard fields for email templates.
type EmailData struct {
	// Basic info
	Username       string `json:"Username"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`
	SubjectPrefix  string `json:"SubjectPrefix"`

	// Company info
	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	// URLs
	LogoURL    string `json:"LogoURL"`
	SupportURL string `json:"SupportURL"`
	PrivacyURL string `json:"PrivacyURL"`

	// Action URLs
	ResetURL string `json:"ResetURL"`

	// Request context
	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`
	IP            string    `json:"IP"`
	Time          string    `json:"Time"`
	TimeAt        time.Time `json:"TimeAt"`
	UserAgent     string    `json:"UserAgent"`
	Location      string    `json:"Location"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn backs {{ .Value | default "Fallback" }}. Blank strings count as empty.
func defaultFn(fallback, value any) any {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return fallback
	}
	if rv := reflect.ValueOf(value); !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

var funcs = map[string]any{
	"now":     func() time.Time { return time.Now().UTC() },
	"upper":   strings.ToUpper,
	"default": defaultFn,
	"year":    func() int { return time.Now().UTC().Year() },
}

var (
	htmlFuncMap = htmpl.FuncMap(funcs)
	textFuncMap = texttpl.FuncMap(funcs)
)

// Template names
const (
	ResetPassword = "reset_password"
)

// ErrUnknownTemplate is returned for a name with no embedded files.
var ErrUnknownTemplate = errors.New("unknown email template")

type parsedSet struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*parsedSet{}
)

// load parses <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl once per process.
func load(name string) (*parsedSet, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if set, ok := cache[name]; ok {
		return set, nil
	}
	if _, err := fs.Stat(FS, name+".subject.tmpl"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	set := &parsedSet{}
	var err error
	if set.subject, err = texttpl.New(name+".subject.tmpl").Funcs(textFuncMap).ParseFS(FS, name+".subject.tmpl"); err != nil {
		return nil, fmt.Errorf("parse subject %q: %w", name, err)
	}
	if set.text, err = texttpl.New(name+".text.tmpl").Funcs(textFuncMap).ParseFS(FS, name+".text.tmpl"); err != nil {
		return nil, fmt.Errorf("parse text %q: %w", name, err)
	}
	if set.html, err = htmpl.New(name+".html.tmpl").Funcs(htmlFuncMap).ParseFS(FS, name+".html.tmpl"); err != nil {
		return nil, fmt.Errorf("parse html %q: %w", name, err)
	}
	cache[name] = set
	return set, nil
}

type executor interface {
	Execute(w io.Writer, data any) error
}

func execute(t executor, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render produces subject, text and html bodies for the template called name.
func Render(name string, data any) (subject string, text string, html string, err error) {
	set, err := load(name)
	if err != nil {
		return "", "", "", err
	}
	if subject, err = execute(set.subject, data); err != nil {
		return "", "", "", fmt.Errorf("exec subject %q: %w", name, err)
	}
	if text, err = execute(set.text, data); err != nil {
		return "", "", "", fmt.Errorf("exec text %q: %w", name, err)
	}
	if html, err = execute(set.html, data); err != nil {
		return "", "", "", fmt.Errorf("exec html %q: %w", name, err)
	}
	return strings.TrimSpace(subject), text, html, nil
}
