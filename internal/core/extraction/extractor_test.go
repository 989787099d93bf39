package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/models"
	"github.com/markdave123-py/Coursely/internal/testutil"
)

type fakeDrive struct {
	mimeType    string
	mimeErr     error
	exportText  string
	exportErr   error
	data        []byte
	downloadErr error
	calls       []string
}

func (d *fakeDrive) ExportText(_ context.Context, fileID string) (string, error) {
	d.calls = append(d.calls, "export:"+fileID)
	return d.exportText, d.exportErr
}

func (d *fakeDrive) Download(_ context.Context, fileID string) ([]byte, error) {
	d.calls = append(d.calls, "download:"+fileID)
	return d.data, d.downloadErr
}

func (d *fakeDrive) MimeType(_ context.Context, fileID string) (string, error) {
	d.calls = append(d.calls, "meta:"+fileID)
	return d.mimeType, d.mimeErr
}

type fakeStorage struct {
	files map[string][]byte
	calls []string
}

func (s *fakeStorage) Download(_ context.Context, path string) ([]byte, error) {
	s.calls = append(s.calls, path)
	data, ok := s.files[path]
	if !ok {
		return nil, apperr.NotFound("storage", "object %q", path)
	}
	return data, nil
}

func newTestExtractor(d *fakeDrive, s *fakeStorage, mode Mode) *Extractor {
	e := NewExtractor(d, s, mode, nil)
	e.pdfText = func(b []byte) (string, error) { return "pdf:" + string(b), nil }
	e.docxText = func(b []byte) (string, error) { return "docx:" + string(b), nil }
	return e
}

func TestSniffMimeType(t *testing.T) {
	tests := []struct {
		mime string
		want FormatKind
	}{
		{MimeGoogleDoc, FormatExportable},
		{MimeDocx, FormatExportable},
		{MimeMsWord, FormatExportable},
		{MimePDF, FormatPDF},
		{"application/pdf; charset=binary", FormatPDF},
		{"image/png", FormatUnsupported},
		{"application/vnd.google-apps.spreadsheet", FormatUnsupported},
		{"", FormatUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, SniffMimeType(tt.mime).Kind)
		})
	}
}

func TestSniffPath(t *testing.T) {
	tests := []struct {
		path     string
		want     FormatKind
		declared string
	}{
		{"courses/ins-101/policy.pdf", FormatPDF, ".pdf"},
		{"s3://bucket/Policy.PDF", FormatPDF, ".pdf"},
		{"gs://bucket/handbook.docx", FormatDOCX, ".docx"},
		{"https://b.s3.us-east-2.amazonaws.com/a.pdf?X-Amz-Signature=1", FormatPDF, ".pdf"},
		{"notes.txt", FormatUnsupported, ".txt"},
		{"legacy.doc", FormatUnsupported, ".doc"},
		{"README", FormatUnsupported, "README"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f := SniffPath(tt.path)
			assert.Equal(t, tt.want, f.Kind)
			assert.Equal(t, tt.declared, f.Declared)
		})
	}
}

func TestExtract_MetadataMode_PDFNeverExports(t *testing.T) {
	d := &fakeDrive{mimeType: MimePDF, data: []byte("bytes")}
	e := newTestExtractor(d, nil, ModeMetadata)

	text, err := e.Extract(context.Background(), models.DocumentRef{FileID: "f1"})

	require.NoError(t, err)
	assert.Equal(t, "pdf:bytes", text)
	assert.Equal(t, []string{"meta:f1", "download:f1"}, d.calls)
}

func TestExtract_MetadataMode_NativeDocExports(t *testing.T) {
	d := &fakeDrive{mimeType: MimeGoogleDoc, exportText: "Policy covers fire and theft."}
	e := newTestExtractor(d, nil, ModeMetadata)

	text, err := e.Extract(context.Background(), models.DocumentRef{FileID: "f1"})

	require.NoError(t, err)
	assert.Equal(t, "Policy covers fire and theft.", text)
	assert.Equal(t, []string{"meta:f1", "export:f1"}, d.calls)
}

func TestExtract_DeclaredTypeSkipsMetadata(t *testing.T) {
	d := &fakeDrive{data: []byte("x")}
	e := newTestExtractor(d, nil, ModeExportFirst)

	text, err := e.Extract(context.Background(), models.DocumentRef{FileID: "f1", MimeType: MimePDF})

	require.NoError(t, err)
	assert.Equal(t, "pdf:x", text)
	assert.Equal(t, []string{"download:f1"}, d.calls)
}

func TestExtract_UnsupportedDeclaredType(t *testing.T) {
	d := &fakeDrive{mimeType: "image/png"}
	e := newTestExtractor(d, nil, ModeMetadata)

	_, err := e.Extract(context.Background(), models.DocumentRef{FileID: "f1"})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnsupportedFormat))
	assert.Contains(t, err.Error(), "image/png")
	assert.Equal(t, []string{"meta:f1"}, d.calls)
}

func TestExtract_MetadataFailure(t *testing.T) {
	d := &fakeDrive{mimeErr: errors.New("403 forbidden")}
	e := newTestExtractor(d, nil, ModeMetadata)

	_, err := e.Extract(context.Background(), models.DocumentRef{FileID: "f1"})
	assert.True(t, apperr.Is(err, apperr.KindUnreadableDocument))

	d = &fakeDrive{mimeErr: apperr.NotFound("drive", "file %q", "f1")}
	e = newTestExtractor(d, nil, ModeMetadata)

	_, err = e.Extract(context.Background(), models.DocumentRef{FileID: "f1"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestExtract_ExportFirst(t *testing.T) {
	t.Run("export succeeds", func(t *testing.T) {
		d := &fakeDrive{exportText: "exported"}
		text, err := newTestExtractor(d, nil, ModeExportFirst).Extract(context.Background(), models.DocumentRef{FileID: "f1"})

		require.NoError(t, err)
		assert.Equal(t, "exported", text)
		assert.Equal(t, []string{"export:f1"}, d.calls)
	})

	t.Run("falls back to pdf", func(t *testing.T) {
		d := &fakeDrive{exportErr: errors.New("export only supports Docs Editors files"), data: []byte("raw")}
		text, err := newTestExtractor(d, nil, ModeExportFirst).Extract(context.Background(), models.DocumentRef{FileID: "f1"})

		require.NoError(t, err)
		assert.Equal(t, "pdf:raw", text)
		assert.Equal(t, []string{"export:f1", "download:f1"}, d.calls)
	})

	t.Run("both fail", func(t *testing.T) {
		d := &fakeDrive{exportErr: errors.New("export failed"), downloadErr: errors.New("download failed")}
		_, err := newTestExtractor(d, nil, ModeExportFirst).Extract(context.Background(), models.DocumentRef{FileID: "f1"})

		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindUnreadableDocument))
		assert.Contains(t, err.Error(), "drive-export")
		assert.Contains(t, err.Error(), "drive-pdf")
	})

	t.Run("blank export falls through", func(t *testing.T) {
		d := &fakeDrive{exportText: "  \n", data: []byte("raw")}
		text, err := newTestExtractor(d, nil, ModeExportFirst).Extract(context.Background(), models.DocumentRef{FileID: "f1"})

		require.NoError(t, err)
		assert.Equal(t, "pdf:raw", text)
	})
}

func TestExtract_Storage(t *testing.T) {
	s := &fakeStorage{files: map[string][]byte{
		"docs/policy.pdf":    []byte("p"),
		"docs/handbook.docx": []byte("d"),
		"docs/notes.txt":     []byte("t"),
	}}
	e := newTestExtractor(nil, s, ModeMetadata)
	ctx := context.Background()

	text, err := e.Extract(ctx, models.DocumentRef{StoragePath: "docs/policy.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "pdf:p", text)

	text, err = e.Extract(ctx, models.DocumentRef{StoragePath: "docs/handbook.docx"})
	require.NoError(t, err)
	assert.Equal(t, "docx:d", text)

	_, err = e.Extract(ctx, models.DocumentRef{StoragePath: "docs/notes.txt"})
	assert.True(t, apperr.Is(err, apperr.KindUnsupportedFormat))

	_, err = e.Extract(ctx, models.DocumentRef{StoragePath: "docs/missing.pdf"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	assert.Equal(t, []string{"docs/policy.pdf", "docs/handbook.docx", "docs/missing.pdf"}, s.calls)
}

func TestExtract_ParserFailureIsTerminal(t *testing.T) {
	s := &fakeStorage{files: map[string][]byte{"bad.pdf": []byte("not a pdf")}}
	e := NewExtractor(nil, s, ModeMetadata, nil)

	_, err := e.Extract(context.Background(), models.DocumentRef{StoragePath: "bad.pdf"})

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUnreadableDocument))
	assert.Len(t, s.calls, 1)
}

func TestExtract_NoReference(t *testing.T) {
	e := newTestExtractor(&fakeDrive{}, &fakeStorage{}, ModeMetadata)
	_, err := e.Extract(context.Background(), models.DocumentRef{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestParsersRejectGarbage(t *testing.T) {
	_, err := pdfText([]byte("hello world"))
	assert.Error(t, err)

	_, err = docxText([]byte("hello world"))
	assert.Error(t, err)
}

func TestParsersReadRealDocuments(t *testing.T) {
	text, err := pdfText(testutil.PDF("Policy covers fire and theft."))
	require.NoError(t, err)
	assert.Equal(t, "Policy covers fire and theft.", text)

	text, err = docxText(testutil.DOCX("Policy covers fire and theft.", "Floods are excluded."))
	require.NoError(t, err)
	assert.Equal(t, "Policy covers fire and theft.\nFloods are excluded.", text)
}

func TestExtract_StorageWithRealParsers(t *testing.T) {
	s := &fakeStorage{files: map[string][]byte{
		"docs/ins-101.pdf":  testutil.PDF("Policy covers fire and theft."),
		"docs/ins-102.docx": testutil.DOCX("Claims are filed within 30 days."),
	}}
	e := NewExtractor(nil, s, ModeMetadata, nil)
	ctx := context.Background()

	text, err := e.Extract(ctx, models.DocumentRef{StoragePath: "docs/ins-101.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Policy covers fire and theft.", text)

	text, err = e.Extract(ctx, models.DocumentRef{StoragePath: "docs/ins-102.docx"})
	require.NoError(t, err)
	assert.Equal(t, "Claims are filed within 30 days.", text)
}

func TestExtract_DrivePDFWithRealParser(t *testing.T) {
	d := &fakeDrive{mimeType: MimePDF, data: testutil.PDF("Floods are excluded.")}
	text, err := NewExtractor(d, nil, ModeMetadata, nil).Extract(context.Background(), models.DocumentRef{FileID: "f1"})

	require.NoError(t, err)
	assert.Equal(t, "Floods are excluded.", text)
}
