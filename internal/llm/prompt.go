package llm

import (
	"bytes"
	"embed"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

// carouselFormats maps a carousel type to its slide-body instruction.
var carouselFormats = map[CarouselType]string{
	BulletPoints:        "Include 3-4 concise bullet points per slide",
	TwoParagraphs:       "Include 2 short paragraphs per slide",
	ParagraphAndBullets: "Include 1 short paragraph followed by 3-4 concise bullet points per slide",
}

// PromptData holds the variables available in the prompt templates.
type PromptData struct {
	Topic       string
	Language    Language
	Slides      int
	Format      string
	Inspiration string
	Description string
	Author      Author
}

// renderPrompt executes the named template.
func renderPrompt(name string, data PromptData) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderChat renders the "<kind>.system" and "<kind>.user" templates.
func renderChat(kind string, data PromptData) (system, user string, err error) {
	if system, err = renderPrompt(kind+".system", data); err != nil {
		return "", "", err
	}
	if user, err = renderPrompt(kind+".user", data); err != nil {
		return "", "", err
	}
	return system, user, nil
}
