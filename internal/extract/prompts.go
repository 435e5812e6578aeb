package extract

import (
	"bytes"
	_ "embed"
	"text/template"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

//go:embed caption_system.tmpl
var captionSystemPrompt string

// captionUserPrompt is the fixed instruction for single-image captioning.
const captionUserPrompt = "Please extract the caption for this image from the academic paper. Return only the caption text with no additional commentary."

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// SystemPrompt returns the system instruction for metadata extraction.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt embedding the target schema and the
// (already truncated) paper content.
func UserPrompt(schemaJSON, content string) string {
	var buf bytes.Buffer
	data := struct{ Schema, Content string }{Schema: schemaJSON, Content: content}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}
