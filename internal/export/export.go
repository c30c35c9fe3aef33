package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatTXT  Format = "txt"
	FormatMD   Format = "md"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// DefaultTitle is used when a document has no title.
const DefaultTitle = "Lecture Notes"

var contentTypes = map[Format]string{
	FormatTXT:  "text/plain; charset=utf-8",
	FormatMD:   "text/markdown; charset=utf-8",
	FormatHTML: "text/html; charset=utf-8",
	FormatPDF:  "application/pdf",
	FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatTXT, FormatMD, FormatHTML, FormatPDF, FormatDOCX}
}

// ParseFormat resolves a format name case-insensitively. A leading dot is
// accepted, so file extensions parse too.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "."))
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return f, nil
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	return contentTypes[f]
}

// Extension returns the file extension of f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Export renders content in format and returns the bytes with their content
// type. An empty title selects DefaultTitle.
func Export(format Format, title, content string) ([]byte, string, error) {
	if title == "" {
		title = DefaultTitle
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatTXT, FormatMD:
		data = []byte(content)
	case FormatHTML:
		data, err = renderHTML(title, content)
	case FormatPDF:
		data, err = renderPDF(title, content)
	case FormatDOCX:
		data, err = renderDOCX(title, content)
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrRenderFailed, format, err)
	}
	return data, format.ContentType(), nil
}

// WriteFile exports content to dir/name plus the format extension and
// returns the written path. dir is created when missing.
func WriteFile(dir, name string, format Format, title, content string) (string, error) {
	data, _, err := Export(format, title, content)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name+format.Extension())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

// Title returns the document title used for an artifact kind or
// "transcript".
func Title(kind string) string {
	switch kind {
	case "notes":
		return DefaultTitle
	case "quiz":
		return "Quiz"
	case "flashcards":
		return "Flashcards"
	case "transcript":
		return "Transcript"
	default:
		return DefaultTitle
	}
}

// lines splits content on newlines, dropping carriage returns.
func lines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

// heading returns the level and text of a "# ", "## " or "### " line.
func heading(line string) (int, string, bool) {
	for level, prefix := range []string{"# ", "## ", "### "} {
		if strings.HasPrefix(line, prefix) {
			return level + 1, line[len(prefix):], true
		}
	}
	return 0, "", false
}
