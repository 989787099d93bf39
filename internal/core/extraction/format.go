package extraction

import (
	"path"
	"strings"
)

const (
	MimeGoogleDoc = "application/vnd.google-apps.document"
	MimeDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeMsWord    = "application/msword"
	MimePDF       = "application/pdf"
)

// FormatKind is the closed set of extraction routes.
type FormatKind int

const (
	FormatUnsupported FormatKind = iota
	FormatExportable
	FormatPDF
	FormatDOCX
)

func (k FormatKind) String() string {
	switch k {
	case FormatExportable:
		return "exportable"
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	default:
		return "unsupported"
	}
}

// Format is the sniffed representation of a document. Declared keeps the
// media type or suffix that produced it so rejections can name it.
type Format struct {
	Kind     FormatKind
	Declared string
}

// SniffMimeType routes a declared drive media type. Native documents and
// Word-compatible files go through the plain-text export.
func SniffMimeType(mimeType string) Format {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case MimeGoogleDoc, MimeDocx, MimeMsWord:
		return Format{Kind: FormatExportable, Declared: mimeType}
	case MimePDF:
		return Format{Kind: FormatPDF, Declared: mimeType}
	default:
		return Format{Kind: FormatUnsupported, Declared: mimeType}
	}
}

// SniffPath routes an object-storage path by its file-name suffix.
func SniffPath(p string) Format {
	clean := p
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	ext := strings.ToLower(path.Ext(clean))
	switch ext {
	case ".pdf":
		return Format{Kind: FormatPDF, Declared: ext}
	case ".docx":
		return Format{Kind: FormatDOCX, Declared: ext}
	default:
		if ext == "" {
			ext = path.Base(clean)
		}
		return Format{Kind: FormatUnsupported, Declared: ext}
	}
}
