package extraction

import (
	"context"
	"fmt"

	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/logger"
	"github.com/markdave123-py/Coursely/internal/models"
)

// Mode selects how drive references without a declared media type are handled.
//
// ModeMetadata fetches the media type first and takes exactly one route: one
// extra round trip, but the first attempt is always the right one.
// ModeExportFirst tries the plain-text export and falls back to a PDF
// download: no metadata call, but non-native files pay for a failed export.
type Mode string

const (
	ModeMetadata    Mode = "metadata"
	ModeExportFirst Mode = "export-first"
)

var _ core.TextExtractor = (*Extractor)(nil)

type Extractor struct {
	drive   core.DriveClient
	storage core.StorageReader
	mode    Mode
	log     *logger.Logger

	pdfText  func([]byte) (string, error)
	docxText func([]byte) (string, error)
}

func NewExtractor(drive core.DriveClient, storage core.StorageReader, mode Mode, log *logger.Logger) *Extractor {
	if mode == "" {
		mode = ModeMetadata
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{
		drive:    drive,
		storage:  storage,
		mode:     mode,
		log:      log.With("component", "TextExtractor"),
		pdfText:  pdfText,
		docxText: docxText,
	}
}

// Extract resolves the strategy for ref and returns the document text.
func (e *Extractor) Extract(ctx context.Context, ref models.DocumentRef) (string, error) {
	var (
		strategies []strategy
		err        error
	)
	switch {
	case ref.FileID != "":
		strategies, err = e.planDrive(ctx, ref)
	case ref.StoragePath != "":
		strategies, err = e.planStorage(ref.StoragePath)
	default:
		return "", apperr.NotFound("extract", "course has no document reference")
	}
	if err != nil {
		return "", err
	}

	text, used, err := firstSuccess(ctx, "extract "+ref.String(), strategies)
	if err != nil {
		e.log.Warn("extraction failed", "document", ref.String(), "error", err)
		return "", err
	}
	e.log.Debug("document extracted", "document", ref.String(), "strategy", used, "chars", len(text))
	return text, nil
}

func (e *Extractor) planDrive(ctx context.Context, ref models.DocumentRef) ([]strategy, error) {
	if e.drive == nil {
		return nil, apperr.UnreadableDocument("extract", fmt.Errorf("drive client not configured"))
	}
	if ref.MimeType != "" {
		return e.driveRoute(ref.FileID, SniffMimeType(ref.MimeType))
	}

	if e.mode == ModeExportFirst {
		return []strategy{e.driveExport(ref.FileID), e.drivePDF(ref.FileID)}, nil
	}

	mimeType, err := e.drive.MimeType(ctx, ref.FileID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		return nil, apperr.UnreadableDocument("extract drive:"+ref.FileID, fmt.Errorf("fetch metadata: %w", err))
	}
	return e.driveRoute(ref.FileID, SniffMimeType(mimeType))
}

func (e *Extractor) driveRoute(fileID string, f Format) ([]strategy, error) {
	switch f.Kind {
	case FormatExportable:
		return []strategy{e.driveExport(fileID)}, nil
	case FormatPDF:
		return []strategy{e.drivePDF(fileID)}, nil
	default:
		return nil, apperr.UnsupportedFormat("extract drive:"+fileID, f.Declared)
	}
}

func (e *Extractor) planStorage(path string) ([]strategy, error) {
	if e.storage == nil {
		return nil, apperr.UnreadableDocument("extract", fmt.Errorf("object storage not configured"))
	}
	f := SniffPath(path)
	switch f.Kind {
	case FormatPDF:
		return []strategy{e.storageParse(path, "storage-pdf", e.pdfText)}, nil
	case FormatDOCX:
		return []strategy{e.storageParse(path, "storage-docx", e.docxText)}, nil
	default:
		return nil, apperr.UnsupportedFormat("extract "+path, f.Declared)
	}
}

func (e *Extractor) driveExport(fileID string) strategy {
	return strategy{name: "drive-export", run: func(ctx context.Context) (string, error) {
		return e.drive.ExportText(ctx, fileID)
	}}
}

func (e *Extractor) drivePDF(fileID string) strategy {
	return strategy{name: "drive-pdf", run: func(ctx context.Context) (string, error) {
		data, err := e.drive.Download(ctx, fileID)
		if err != nil {
			return "", err
		}
		return e.pdfText(data)
	}}
}

func (e *Extractor) storageParse(path, name string, parse func([]byte) (string, error)) strategy {
	return strategy{name: name, run: func(ctx context.Context) (string, error) {
		data, err := e.storage.Download(ctx, path)
		if err != nil {
			return "", err
		}
		return parse(data)
	}}
}
