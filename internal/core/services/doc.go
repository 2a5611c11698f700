// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The question-answering pipeline lives here: IngestionService turns
// extracted text into indexed chunks and QueryService turns a question into
// a grounded, cited answer. Both report expected failures as result values.
package services
