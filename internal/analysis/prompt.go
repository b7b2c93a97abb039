package analysis

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var (
	systemTemplate = template.Must(template.ParseFS(promptFS, "prompts/system.tmpl"))
	userTemplate   = template.Must(template.ParseFS(promptFS, "prompts/user.tmpl"))
)

type promptData struct {
	Transcript string
}

// Prompt is the rendered instruction pair sent to the model.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt renders the analyst persona and the user prompt with the
// transcript embedded verbatim between the delimiters.
func BuildPrompt(transcript string) (Prompt, error) {
	var sys, user strings.Builder
	if err := systemTemplate.Execute(&sys, nil); err != nil {
		return Prompt{}, fmt.Errorf("render system prompt: %w", err)
	}
	if err := userTemplate.Execute(&user, promptData{Transcript: transcript}); err != nil {
		return Prompt{}, fmt.Errorf("render user prompt: %w", err)
	}
	return Prompt{
		System: strings.TrimSpace(sys.String()),
		User:   user.String(),
	}, nil
}
