package extraction

import (
	"bytes"
	"fmt"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// pdfText extracts the text layer of a PDF held in memory.
func pdfText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

// docxText uses docconv to extract the body text of a DOCX file.
func docxText(data []byte) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), MimeDocx, false)
	if err != nil {
		return "", fmt.Errorf("convert docx: %w", err)
	}
	return res.Body, nil
}
