package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswer is the grounded answer template.
	// It expects two %s placeholders: the context, then the question.
	PromptAnswer = "answer"
)

// AnswerRefusal is what the model is told to answer when the context does
// not contain the answer.
const AnswerRefusal = "Not found in the uploaded documents."

// DefaultAnswerPrompt is the built-in PromptAnswer template.
const DefaultAnswerPrompt = `Answer based ONLY on this context. If not found, say: "` + AnswerRefusal + `"

Context:
%s

Question: %s

Answer:`
