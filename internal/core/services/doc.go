// Package services contains the application core: document ingestion,
// similarity retrieval, prompt assembly and streamed chat answering.
// Services depend only on the port interfaces, never on adapters.
package services
