package lesson

import "strings"

const (
	MinSlides     = 3
	MaxSlides     = 5
	QuestionCount = 5
	OptionCount   = 3
)

const systemPrompt = `You are an instructional designer and subject-matter expert preparing internal training for company employees.
Use ONLY the document text supplied by the user. Do not add facts that are not in it.
Return the result STRICTLY as JSON. Do not add any words or markdown formatting before or after the JSON.`

const userPromptTemplate = `Turn the following internal document into a short training module.

The JSON must have this structure:
{
  "summary": [
    {"title": "Slide title", "html_content": "<p>Slide body using <h3>, <p>, <ul> and <li> tags.</p>"}
  ],
  "questions": [
    {
      "question": "Question text",
      "options": ["Option 1", "Option 2", "Option 3"],
      "correct_option_index": 0
    }
  ]
}

Rules:
- "summary" holds between 3 and 5 slides, in reading order.
- "questions" holds exactly 5 questions.
- Every question has exactly 3 options and correct_option_index is the zero-based index of the single correct option.

Document text:
---
{{DOCUMENT}}
---`

// buildPrompts returns the system and user prompts for a document.
func buildPrompts(text string) (string, string) {
	return systemPrompt, strings.Replace(userPromptTemplate, "{{DOCUMENT}}", text, 1)
}
