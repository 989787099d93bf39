package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/markdave123-py/Coursely/internal/core/apperr"
)

// strategy is one way of turning a document into text.
type strategy struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// firstSuccess evaluates strategies in order and returns the first non-blank
// text. When every strategy fails the error names each attempt; if all of
// them failed because the document does not exist the result is NotFound.
func firstSuccess(ctx context.Context, op string, strategies []strategy) (string, string, error) {
	var errs []error
	allNotFound := len(strategies) > 0
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}
		text, err := s.run(ctx)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errors.New("no text extracted")
		}
		if err == nil {
			return strings.ToValidUTF8(text, ""), s.name, nil
		}
		if !apperr.Is(err, apperr.KindNotFound) {
			allNotFound = false
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
	}
	joined := errors.Join(errs...)
	if allNotFound {
		return "", "", apperr.New(apperr.KindNotFound, op, "document not found", joined)
	}
	return "", "", apperr.UnreadableDocument(op, joined)
}
