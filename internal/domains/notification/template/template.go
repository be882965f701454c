package template

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"rento/internal/domains/notification/model"
	"strings"
	"sync"
	gotemplate "text/template"

	"gopkg.in/yaml.v3"
)

// Variables understood by the catalogue.
const (
	VarActorName = "actor_name"
	VarItemTitle = "item_title"
	VarStartDate = "start_date"
	VarEndDate   = "end_date"
	VarPreview   = "preview"
)

const previewMaxRunes = 120

//go:embed templates.yaml
var catalogueYAML []byte

var (
	ErrUnknownType      = errors.New("unknown notification type")
	ErrIncompleteEntry  = errors.New("incomplete notification template")
	ErrMissingTemplates = errors.New("notification types without template")
)

type entry struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
	Action  string `yaml:"action"`
}

type compiled struct {
	title   *gotemplate.Template
	message *gotemplate.Template
	action  string
}

// Rendered is the text and deep link action of one notification.
type Rendered struct {
	Title   string
	Message string
	Action  string
}

type Catalogue struct {
	entries map[model.Type]compiled
}

var (
	loadOnce         sync.Once
	defaultCatalogue *Catalogue
	errLoad          error
)

// Parse compiles a YAML catalogue. Every known notification type must be present.
func Parse(raw []byte) (*Catalogue, error) {
	entries := map[string]entry{}
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode notification templates: %w", err)
	}

	catalogue := &Catalogue{entries: make(map[model.Type]compiled, len(entries))}

	for name, ent := range entries {
		if ent.Title == "" || ent.Message == "" || ent.Action == "" {
			return nil, fmt.Errorf("%w: %s", ErrIncompleteEntry, name)
		}

		title, err := gotemplate.New(name + ".title").Option("missingkey=error").Parse(ent.Title)
		if err != nil {
			return nil, fmt.Errorf("failed to parse title of %s: %w", name, err)
		}

		message, err := gotemplate.New(name + ".message").Option("missingkey=error").Parse(ent.Message)
		if err != nil {
			return nil, fmt.Errorf("failed to parse message of %s: %w", name, err)
		}

		catalogue.entries[model.Type(name)] = compiled{title: title, message: message, action: ent.Action}
	}

	missing := []string{}

	for _, typ := range model.Types {
		if _, ok := catalogue.entries[typ]; !ok {
			missing = append(missing, string(typ))
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingTemplates, strings.Join(missing, ", "))
	}

	return catalogue, nil
}

// Default returns the catalogue embedded in the binary.
func Default() (*Catalogue, error) {
	loadOnce.Do(func() {
		defaultCatalogue, errLoad = Parse(catalogueYAML)
	})

	return defaultCatalogue, errLoad
}

// Render renders typ from the embedded catalogue.
func Render(typ model.Type, vars map[string]string) (Rendered, error) {
	catalogue, err := Default()
	if err != nil {
		return Rendered{}, err
	}

	return catalogue.Render(typ, vars)
}

func (c *Catalogue) Render(typ model.Type, vars map[string]string) (Rendered, error) {
	tpl, ok := c.entries[typ]
	if !ok {
		return Rendered{}, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}

	if vars == nil {
		vars = map[string]string{}
	}

	title, err := execute(tpl.title, vars)
	if err != nil {
		return Rendered{}, err
	}

	message, err := execute(tpl.message, vars)
	if err != nil {
		return Rendered{}, err
	}

	return Rendered{Title: title, Message: message, Action: tpl.action}, nil
}

func execute(tpl *gotemplate.Template, vars map[string]string) (string, error) {
	var buf bytes.Buffer

	if err := tpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", tpl.Name(), err)
	}

	return buf.String(), nil
}

// Preview shortens a chat message body for use as notification text.
func Preview(body string) string {
	body = strings.Join(strings.Fields(body), " ")

	runes := []rune(body)
	if len(runes) <= previewMaxRunes {
		return body
	}

	return string(runes[:previewMaxRunes-1]) + "…"
}
