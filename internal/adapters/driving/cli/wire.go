package cli

import (
	"fmt"

	embollama "github.com/custodia-labs/ragchat/internal/adapters/driven/embedding/ollama"
	embopenai "github.com/custodia-labs/ragchat/internal/adapters/driven/embedding/openai"
	llmollama "github.com/custodia-labs/ragchat/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/custodia-labs/ragchat/internal/adapters/driven/llm/openai"
	storememory "github.com/custodia-labs/ragchat/internal/adapters/driven/storage/memory"
	storesqlite "github.com/custodia-labs/ragchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragchat/internal/chunker"
	"github.com/custodia-labs/ragchat/internal/config"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/services"
	"github.com/custodia-labs/ragchat/internal/extractors"
	"github.com/custodia-labs/ragchat/internal/logger"
	convmemory "github.com/custodia-labs/ragchat/internal/memory"
)

// initServices builds the full pipeline from the loaded config.
func initServices() error {
	embedder, err := newEmbedder(cfg.Embedding)
	if err != nil {
		return err
	}

	store, err := newStore(cfg.Index, embedder.Dimensions())
	if err != nil {
		embedder.Close()
		return err
	}

	generator, err := newGenerator(cfg.LLM)
	if err != nil {
		embedder.Close()
		store.Close()
		return err
	}

	logger.Debug("Embedding: %s (%d dims), LLM: %s, index: %s",
		embedder.ModelName(), embedder.Dimensions(), generator.ModelName(), cfg.Index.Backend)

	ingestSvc = services.NewIngestor(
		extractors.DefaultRegistry(),
		chunker.New(
			chunker.WithChunkSize(cfg.Chunking.Size),
			chunker.WithOverlap(cfg.Chunking.Overlap),
		),
		embedder,
		store,
	)

	retriever := services.NewRetriever(embedder, store,
		services.WithTopK(cfg.Retrieval.TopK),
		services.WithMinScore(cfg.Retrieval.MinScore),
	)

	chatSvc = services.NewChatEngine(
		retriever,
		services.NewPromptBuilder(),
		convmemory.New(convmemory.WithWindow(cfg.Memory.Window)),
		generator,
	)

	closeApp = func() {
		embedder.Close()
		store.Close()
		generator.Close()
	}
	return nil
}

// newEmbedder builds the configured embedding backend.
func newEmbedder(pc config.ProviderConfig) (driven.EmbeddingService, error) {
	switch pc.Provider {
	case config.ProviderOpenAI:
		return embopenai.NewEmbeddingService(embopenai.Config{
			APIKey:     pc.APIKey,
			BaseURL:    pc.BaseURL,
			Model:      pc.Model,
			Dimensions: pc.Dimensions,
		})
	case config.ProviderOllama:
		return embollama.NewEmbeddingService(embollama.Config{
			BaseURL:    pc.BaseURL,
			Model:      pc.Model,
			Dimensions: pc.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", pc.Provider)
	}
}

// newGenerator builds the configured generation backend.
func newGenerator(pc config.ProviderConfig) (driven.GenerationService, error) {
	switch pc.Provider {
	case config.ProviderOpenAI:
		return llmopenai.NewGenerationService(llmopenai.Config{
			APIKey:  pc.APIKey,
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
		})
	case config.ProviderOllama:
		return llmollama.NewGenerationService(llmollama.Config{
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", pc.Provider)
	}
}

// newStore builds the configured vector store.
func newStore(ic config.IndexConfig, dimensions int) (driven.VectorStore, error) {
	switch ic.Backend {
	case config.IndexSQLite:
		return storesqlite.NewStore(ic.DataDir, dimensions)
	case config.IndexMemory:
		return storememory.NewStore(dimensions)
	default:
		return nil, fmt.Errorf("unknown index backend %q", ic.Backend)
	}
}
