package assistant

import (
	"context"
	"strings"

	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/logger"
)

// FallbackPhrase is the reply the model is told to give, verbatim, when the
// document does not answer the question.
const FallbackPhrase = "Sorry, the provided materials do not contain information on this."

const systemPrompt = `You are an AI assistant and an expert on the company's products. Your task is to answer an employee's question.

RULES:
1. Use ONLY the information in the DOCUMENT TEXT supplied by the user.
2. Do not invent anything that is not in the text.
3. If the document does not contain the answer, reply with exactly this sentence, translated into the language of the question if it is not English: "` + FallbackPhrase + `"
4. Answer briefly and to the point, in the same language the question is asked in.`

// Responder answers free-form questions against a document. It never caches.
type Responder struct {
	llm core.LLMProvider
	log *logger.Logger
}

func NewResponder(llm core.LLMProvider, log *logger.Logger) *Responder {
	if log == nil {
		log = logger.Nop()
	}
	return &Responder{llm: llm, log: log.With("component", "QAResponder")}
}

// Answer returns the model reply unmodified.
func (r *Responder) Answer(ctx context.Context, text, question string) (string, error) {
	const op = "assistant.answer"

	if strings.TrimSpace(question) == "" {
		return "", apperr.InvalidRequest(op, "question is required")
	}

	answer, err := r.llm.Generate(ctx, systemPrompt, buildUserPrompt(text, question))
	if err != nil {
		return "", apperr.Upstream(op, err)
	}
	r.log.Debug("question answered", "question_chars", len(question), "answer_chars", len(answer))
	return answer, nil
}

func buildUserPrompt(text, question string) string {
	var b strings.Builder
	b.WriteString("EMPLOYEE QUESTION: \"")
	b.WriteString(question)
	b.WriteString("\"\n\nDOCUMENT TEXT TO SEARCH FOR THE ANSWER:\n---\n")
	b.WriteString(text)
	b.WriteString("\n---")
	return b.String()
}
