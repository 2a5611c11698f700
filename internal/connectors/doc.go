// Package connectors holds adapters that feed documents into the pipeline
// from outside the API, such as a watched inbox directory.
package connectors
