// Package export renders a generated artifact or transcript into a
// downloadable document: plain text, Markdown, HTML, PDF or DOCX.
//
// Markdown structure is interpreted line by line for PDF and DOCX: lines
// starting with "# ", "## " and "### " become headings and, for DOCX, lines
// starting with "- " or "* " become bullet items.
package export
