package services

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/core/regenlock"
	"github.com/markdave123-py/Coursely/internal/logger"
	"github.com/markdave123-py/Coursely/internal/models"
)

// DefaultGenerationTimeout bounds one shared regeneration when none is
// configured.
const DefaultGenerationTimeout = 3 * time.Minute

// ContentService serves cached lesson content and regenerates it on a miss
// or when forced.
type ContentService struct {
	locator   *Locator
	db        core.DbClient
	extractor core.TextExtractor
	generator core.LessonGenerator
	lock      regenlock.Locker
	log       *logger.Logger

	flight     singleflight.Group
	genTimeout time.Duration
	now        func() time.Time
}

func NewContentService(
	locator *Locator,
	db core.DbClient,
	extractor core.TextExtractor,
	generator core.LessonGenerator,
	lock regenlock.Locker,
	log *logger.Logger,
) *ContentService {
	if lock == nil {
		lock = regenlock.Noop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ContentService{
		locator:    locator,
		db:         db,
		extractor:  extractor,
		generator:  generator,
		lock:       lock,
		log:        log.With("service", "ContentService"),
		genTimeout: DefaultGenerationTimeout,
		now:        time.Now,
	}
}

// WithGenerationTimeout sets the deadline of each shared regeneration.
// Non-positive values keep the current one.
func (s *ContentService) WithGenerationTimeout(d time.Duration) *ContentService {
	if d > 0 {
		s.genTimeout = d
	}
	return s
}

// GetOrGenerate returns the stored lesson and questions when both are
// present and force is false. Otherwise it extracts, generates, overwrites
// the cache once and returns the generated content.
func (s *ContentService) GetOrGenerate(ctx context.Context, courseID string, force bool) (models.CourseContent, error) {
	ref, err := s.locator.Lookup(ctx, courseID)
	if err != nil {
		return models.CourseContent{}, err
	}
	if !force && ref.HasCachedContent() {
		s.log.Debug("cache hit", "course_id", ref.CourseID)
		return cachedContent(ref), nil
	}
	if _, err := documentOf(ref); err != nil {
		return models.CourseContent{}, err
	}

	// Concurrent callers for the same course and mode share one
	// regeneration. It outlives any single caller but not its own deadline,
	// so a stalled upstream frees the key for the next request.
	key := ref.CourseID + "|cached"
	if force {
		key = ref.CourseID + "|force"
	}
	ch := s.flight.DoChan(key, func() (any, error) {
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.genTimeout)
		defer cancel()
		return s.regenerate(genCtx, ref.CourseID, force)
	})

	select {
	case <-ctx.Done():
		return models.CourseContent{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.CourseContent{}, res.Err
		}
		return res.Val.(models.CourseContent), nil
	}
}

func (s *ContentService) regenerate(ctx context.Context, courseID string, force bool) (models.CourseContent, error) {
	release, err := s.lock.Acquire(ctx, courseID)
	defer release()
	if err != nil {
		return models.CourseContent{}, err
	}

	// Another instance may have filled the cache while we waited.
	ref, err := s.locator.Lookup(ctx, courseID)
	if err != nil {
		return models.CourseContent{}, err
	}
	if !force && ref.HasCachedContent() {
		return cachedContent(ref), nil
	}
	doc, err := documentOf(ref)
	if err != nil {
		return models.CourseContent{}, err
	}

	start := s.now()
	text, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		return models.CourseContent{}, err
	}
	content, err := s.generator.Generate(ctx, text)
	if err != nil {
		return models.CourseContent{}, err
	}

	updatedAt := s.now().UTC()
	if err := s.db.UpdateCourseContent(ctx, courseID, content.Summary, content.Questions, updatedAt); err != nil {
		s.log.Error("cache write failed", "course_id", courseID, "error", err)
		return models.CourseContent{}, apperr.StorageWriteFailed("content.cache_write", err)
	}

	s.log.Info("content regenerated",
		"course_id", courseID,
		"forced", force,
		"document", doc.String(),
		"slides", len(content.Summary.Slides),
		"questions", len(content.Questions),
		"duration", s.now().Sub(start),
	)
	return content, nil
}

func cachedContent(ref *models.CourseRef) models.CourseContent {
	return models.CourseContent{Summary: ref.CachedContent, Questions: ref.CachedQuestions}
}
