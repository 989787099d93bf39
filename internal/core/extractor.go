package core

import (
	"context"

	"github.com/markdave123-py/Coursely/internal/models"
)

// TextExtractor turns a document reference into flat UTF-8 text.
type TextExtractor interface {
	Extract(ctx context.Context, ref models.DocumentRef) (string, error)
}
