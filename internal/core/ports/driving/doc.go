// Package driving provides interfaces for application entry points
// (primary/inbound ports): document ingestion and question answering.
package driving
