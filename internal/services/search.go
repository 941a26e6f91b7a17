package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"hirelens/resume-intel/internal/models"
)

const (
	kindSummary     = "summary"
	kindResumeChunk = "resume_chunk"

	chunkSize    = 1000
	chunkOverlap = 120
)

// CandidateIndex is the qdrant-backed semantic search over candidates.
// Structured summaries and chunked resume text are embedded and upserted so
// recruiters can find candidates by free-text queries. The index is advisory:
// it is rebuilt from profile data and failures never block the pipeline.
type CandidateIndex interface {
	InitCollection() error
	IndexCandidate(ctx context.Context, profileID uuid.UUID, resumeText, summaryText string) error
	Search(ctx context.Context, query string, limit int) ([]models.CandidateMatch, error)
	Remove(ctx context.Context, profileID uuid.UUID) error
}

type candidateIndex struct {
	client         *qdrant.Client
	gemini         GeminiService
	chunker        TextChunker
	collectionName string
	vectorSize     uint64
}

func NewCandidateIndex(urlStr, apiKey, collectionName string, gemini GeminiService) (CandidateIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &candidateIndex{
		client:         client,
		gemini:         gemini,
		chunker:        NewTextChunker(),
		collectionName: collectionName,
		vectorSize:     768,
	}, nil
}

// InitCollection implements CandidateIndex.
func (c *candidateIndex) InitCollection() error {
	ctx := context.Background()

	exists, err := c.client.CollectionExists(ctx, c.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		return nil
	}

	err = c.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: c.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     c.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// IndexCandidate implements CandidateIndex. Existing points for the profile
// are dropped first so a re-index never accumulates stale chunks.
func (c *candidateIndex) IndexCandidate(ctx context.Context, profileID uuid.UUID, resumeText, summaryText string) error {
	if err := c.Remove(ctx, profileID); err != nil {
		return err
	}

	var points []*qdrant.PointStruct

	if summaryText != "" {
		point, err := c.buildPoint(ctx, profileID, kindSummary, summaryText)
		if err != nil {
			return err
		}
		points = append(points, point)
	}

	for _, chunk := range c.chunker.ChunkText(resumeText, chunkSize, chunkOverlap) {
		point, err := c.buildPoint(ctx, profileID, kindResumeChunk, chunk)
		if err != nil {
			return err
		}
		points = append(points, point)
	}

	if len(points) == 0 {
		return nil
	}

	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

func (c *candidateIndex) buildPoint(ctx context.Context, profileID uuid.UUID, kind, text string) (*qdrant.PointStruct, error) {
	embedding, err := c.gemini.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %s: %w", kind, err)
	}

	return &qdrant.PointStruct{
		Id:      qdrant.NewID(uuid.NewString()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"profile_id": profileID.String(),
			"kind":       kind,
			"text":       text,
		}),
	}, nil
}

// Search implements CandidateIndex.
func (c *candidateIndex) Search(ctx context.Context, query string, limit int) ([]models.CandidateMatch, error) {
	if limit <= 0 {
		limit = 10
	}

	embedding, err := c.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchResult, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var matches []models.CandidateMatch
	for _, point := range searchResult {
		match := models.CandidateMatch{Score: point.Score}

		if v, ok := point.Payload["profile_id"]; ok {
			if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				match.ProfileID = val.StringValue
			}
		}

		if v, ok := point.Payload["kind"]; ok {
			if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				match.Kind = val.StringValue
			}
		}

		if v, ok := point.Payload["text"]; ok {
			if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
				match.Text = val.StringValue
			}
		}

		matches = append(matches, match)
	}

	return matches, nil
}

// Remove implements CandidateIndex.
func (c *candidateIndex) Remove(ctx context.Context, profileID uuid.UUID) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("profile_id", profileID.String()),
		},
	}

	_, err := c.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: c.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to remove candidate from index: %w", err)
	}

	return nil
}
