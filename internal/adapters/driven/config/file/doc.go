// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML or YAML configuration storage, chosen by file extension
//   - PromptStore: user-editable prompt templates with embedded defaults
package file
