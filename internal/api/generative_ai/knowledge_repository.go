package generativeAI

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/activity"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

var _ KnowledgeRepository = (*KnowledgeRepositoryImpl)(nil)

type KnowledgeRepository interface {
	FindSimilarSnippets(ctx context.Context, vector []float32, limit int) ([]types.KnowledgeSnippet, error)
	ListSnippetsWithoutEmbeddings(ctx context.Context, limit int) ([]types.KnowledgeSnippet, error)
	UpdateSnippetEmbedding(ctx context.Context, id string, vector []float32) error
}

// KnowledgeRepositoryImpl reads the health_knowledge table. Similarity is 1 - cosine distance.
type KnowledgeRepositoryImpl struct {
	logger *slog.Logger
	db     activity.DB
}

func NewKnowledgeRepositoryImpl(db activity.DB, logger *slog.Logger) *KnowledgeRepositoryImpl {
	return &KnowledgeRepositoryImpl{
		logger: logger,
		db:     db,
	}
}

func (r *KnowledgeRepositoryImpl) FindSimilarSnippets(ctx context.Context, vector []float32, limit int) ([]types.KnowledgeSnippet, error) {
	query := `
		SELECT id::text, content, 1 - (embedding <=> $1::vector) AS score
		FROM health_knowledge
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1::vector
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, activity.FormatVector(vector), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge base: %w", err)
	}
	defer rows.Close()

	var snippets []types.KnowledgeSnippet
	for rows.Next() {
		var s types.KnowledgeSnippet
		if err := rows.Scan(&s.ID, &s.Content, &s.Score); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge snippet: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating knowledge rows: %w", err)
	}
	return snippets, nil
}

func (r *KnowledgeRepositoryImpl) ListSnippetsWithoutEmbeddings(ctx context.Context, limit int) ([]types.KnowledgeSnippet, error) {
	query := `
		SELECT id::text, content
		FROM health_knowledge
		WHERE embedding IS NULL
		ORDER BY id
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query knowledge without embeddings: %w", err)
	}
	defer rows.Close()

	var snippets []types.KnowledgeSnippet
	for rows.Next() {
		var s types.KnowledgeSnippet
		if err := rows.Scan(&s.ID, &s.Content); err != nil {
			return nil, fmt.Errorf("failed to scan knowledge snippet: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating knowledge rows: %w", err)
	}
	return snippets, nil
}

func (r *KnowledgeRepositoryImpl) UpdateSnippetEmbedding(ctx context.Context, id string, vector []float32) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE health_knowledge SET embedding = $1::vector WHERE id::text = $2`,
		activity.FormatVector(vector), id)
	if err != nil {
		return fmt.Errorf("failed to update embedding for snippet %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("snippet %s: %w", id, types.ErrNotFound)
	}
	return nil
}
