package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// DocumentParser turns resume attachment bytes into plain text.
type DocumentParser interface {
	ExtractText(filename string, content []byte) (string, error)
	Supports(filename string) bool
}

type documentParser struct {
	logger *zap.Logger
}

func NewDocumentParser(logger *zap.Logger) DocumentParser {
	return &documentParser{logger: logger}
}

func (p *documentParser) Supports(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".doc", ".docx", ".rtf", ".odt", ".txt", ".md":
		return true
	}
	return false
}

func (p *documentParser) ExtractText(filename string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty file: %s", filename)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	var text string
	var err error

	switch ext {
	case ".txt", ".md":
		text = string(content)
	case ".pdf":
		text, err = p.extractPDF(content)
	case ".docx":
		text, err = p.extractDocx(content)
	case ".doc", ".rtf", ".odt":
		text, err = p.convert(content, docconv.MimeTypeByExtension(filename))
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", fmt.Errorf("no text content found in %s", filename)
	}
	return text, nil
}

func (p *documentParser) extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		// Some PDFs defeat the native reader; try the converter before
		// giving up.
		return p.convert(content, "application/pdf")
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	if strings.TrimSpace(textBuilder.String()) == "" {
		return p.convert(content, "application/pdf")
	}
	return textBuilder.String(), nil
}

// extractDocx runs up to three passes and concatenates whatever each
// produced: the converter, the raw document XML (catches text boxes
// the converter drops), and OCR over embedded images. Individual pass
// failures are tolerated as long as one yields text.
func (p *documentParser) extractDocx(content []byte) (string, error) {
	var parts []string

	if text, err := p.convert(content, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"); err == nil {
		parts = append(parts, text)
	} else {
		p.logger.Debug("docx converter pass failed", zap.Error(err))
	}

	if text, err := docxRawText(content); err == nil && text != "" {
		parts = append(parts, text)
	}

	if text := p.docxImageText(content); text != "" {
		parts = append(parts, text)
	}

	combined := strings.TrimSpace(strings.Join(parts, "\n\n"))
	if combined == "" {
		return "", fmt.Errorf("no text content found in docx")
	}
	return combined, nil
}

func (p *documentParser) convert(content []byte, mimeType string) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(content), mimeType, true)
	if err != nil {
		return "", fmt.Errorf("failed to convert %s: %w", mimeType, err)
	}
	if strings.TrimSpace(res.Body) == "" {
		return "", fmt.Errorf("no text content found")
	}
	return res.Body, nil
}

// docxRawText walks word/document.xml plus headers and footers and
// collects every <w:t> run.
func docxRawText(content []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("not a valid docx archive: %w", err)
	}

	var textBuilder strings.Builder
	for _, file := range archive.File {
		name := file.Name
		if name != "word/document.xml" &&
			!strings.HasPrefix(name, "word/header") &&
			!strings.HasPrefix(name, "word/footer") {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			continue
		}
		text := collectWordRuns(rc)
		rc.Close()
		if text != "" {
			textBuilder.WriteString(text)
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}

func collectWordRuns(r io.Reader) string {
	decoder := xml.NewDecoder(r)
	var textBuilder strings.Builder
	inRun := false

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRun = true
			}
			if t.Name.Local == "p" && textBuilder.Len() > 0 {
				textBuilder.WriteString("\n")
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inRun = false
			}
		case xml.CharData:
			if inRun {
				textBuilder.Write(t)
			}
		}
	}
	return strings.TrimSpace(textBuilder.String())
}

// docxImageText OCRs images embedded under word/media. Requires a
// tesseract-enabled converter build, so failures are expected and
// swallowed.
func (p *documentParser) docxImageText(content []byte) string {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return ""
	}

	var parts []string
	for _, file := range archive.File {
		if !strings.HasPrefix(file.Name, "word/media/") {
			continue
		}
		mimeType := docconv.MimeTypeByExtension(file.Name)
		if !strings.HasPrefix(mimeType, "image/") {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			continue
		}
		res, err := docconv.Convert(rc, mimeType, false)
		rc.Close()
		if err != nil {
			p.logger.Debug("image ocr pass failed",
				zap.String("file", file.Name), zap.Error(err))
			continue
		}
		if body := strings.TrimSpace(res.Body); body != "" {
			parts = append(parts, body)
		}
	}
	return strings.Join(parts, "\n")
}

// CleanText strips blank lines and trims whitespace per line.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}
	return strings.Join(cleanedLines, "\n")
}
