package export

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var htmlShell = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; line-height: 1.6; }
        h1, h2, h3 { color: #333; }
        h1 { border-bottom: 2px solid #333; padding-bottom: 10px; }
        code { background-color: #f4f4f4; padding: 2px 5px; border-radius: 3px; }
        pre { background-color: #f4f4f4; padding: 10px; border-radius: 5px; overflow-x: auto; }
        blockquote { border-left: 4px solid #ddd; padding-left: 15px; color: #666; }
        table { border-collapse: collapse; }
        th, td { border: 1px solid #ddd; padding: 4px 8px; }
    </style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// renderHTML converts Markdown to HTML and wraps it in the document shell.
// Raw HTML in the content is dropped by goldmark.
func renderHTML(title, content string) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(content), &body); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err := htmlShell.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  template.HTML(body.String()), //nolint:gosec // goldmark output with raw HTML disabled
	})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
