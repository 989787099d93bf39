package sheets

import (
	"net/url"
	"path"
	"strings"

	"github.com/markdave123-py/Coursely/internal/models"
)

// ParseCourses maps catalogue rows (A course_id, B title, C document) to
// registry entries. Rows without an id or a document are returned as skipped
// row numbers, counted from 1 within the range.
func ParseCourses(rows [][]string) ([]models.CourseRef, []int) {
	var (
		courses []models.CourseRef
		skipped []int
	)
	for i, row := range rows {
		id := cell(row, 0)
		doc := ParseDocumentRef(cell(row, 2))
		if id == "" || doc.IsZero() {
			skipped = append(skipped, i+1)
			continue
		}
		courses = append(courses, models.CourseRef{
			CourseID: id,
			Title:    cell(row, 1),
			Document: doc,
		})
	}
	return courses, skipped
}

// ParseDocumentRef reads the document column. Google Docs and Drive links
// yield their file id; bucket URLs, key-like paths and .pdf/.docx names are
// storage paths; anything else is taken as a bare drive file id.
func ParseDocumentRef(v string) models.DocumentRef {
	v = strings.TrimSpace(v)
	if v == "" {
		return models.DocumentRef{}
	}
	if id, ok := driveLinkID(v); ok {
		return models.DocumentRef{FileID: id}
	}
	if strings.Contains(v, "://") || strings.Contains(v, "/") {
		return models.DocumentRef{StoragePath: v}
	}
	switch strings.ToLower(path.Ext(v)) {
	case ".pdf", ".docx":
		return models.DocumentRef{StoragePath: v}
	}
	return models.DocumentRef{FileID: v}
}

func driveLinkID(v string) (string, bool) {
	u, err := url.Parse(v)
	if err != nil || (u.Host != "docs.google.com" && u.Host != "drive.google.com") {
		return "", false
	}
	if id := u.Query().Get("id"); id != "" {
		return id, true
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "d" && parts[i+1] != "" {
			return parts[i+1], true
		}
	}
	return "", false
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
