// Package search provides full-text search over the reference library.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	_ "github.com/blevesearch/bleve/v2/search/highlight/highlighter/ansi"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/sha1n/mcp-eda-server/internal/domain"
)

const (
	fieldName     = "name"
	fieldContent  = "content"
	fieldKeywords = "keywords"
	fieldSource   = "source"

	defaultMaxResults = 10
	snippetLength     = 200
)

// Settings configures the search service
type Settings struct {
	MaxResults int
}

// SearchOptions narrows a search
type SearchOptions struct {
	Source string // Restrict results to one content location
}

// SearchResult is a single search hit
type SearchResult struct {
	URI     string
	Name    string
	Source  string
	Snippet string
	Score   float64
}

// Searcher is the search capability used by the MCP tools
type Searcher interface {
	Search(query string, opts *SearchOptions) ([]SearchResult, error)
	Index(ctx context.Context, docs <-chan domain.Document) error
	Close()
}

// Service is an in-memory bleve index
type Service struct {
	index      bleve.Index
	maxResults int
}

var _ Searcher = (*Service)(nil)

// NewService creates an empty in-memory index
func NewService(settings Settings) (*Service, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	maxResults := settings.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	return &Service{index: index, maxResults: maxResults}, nil
}

func buildMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Store = true
	text.IncludeTermVectors = true

	source := bleve.NewKeywordFieldMapping()
	source.Store = true

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(fieldName, text)
	doc.AddFieldMappingsAt(fieldContent, text)
	doc.AddFieldMappingsAt(fieldKeywords, text)
	doc.AddFieldMappingsAt(fieldSource, source)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Index consumes documents until the channel is closed or ctx is done
func (s *Service) Index(ctx context.Context, docs <-chan domain.Document) error {
	batch := s.index.NewBatch()
	count := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case doc, ok := <-docs:
			if !ok {
				if err := s.index.Batch(batch); err != nil {
					return fmt.Errorf("failed to index documents: %w", err)
				}
				slog.Debug("Indexed documents", "count", count)
				return nil
			}
			err := batch.Index(doc.URI, map[string]interface{}{
				fieldName:     doc.Name,
				fieldContent:  doc.Content,
				fieldKeywords: strings.Join(doc.Keywords, " "),
				fieldSource:   doc.Source,
			})
			if err != nil {
				return fmt.Errorf("failed to index %s: %w", doc.URI, err)
			}
			count++
		}
	}
}

// Search runs a match query across name, content and keywords
func (s *Service) Search(queryStr string, opts *SearchOptions) ([]SearchResult, error) {
	queryStr = strings.TrimSpace(queryStr)
	if queryStr == "" {
		return nil, fmt.Errorf("search query is required")
	}

	var q query.Query = bleve.NewDisjunctionQuery(
		fieldQuery(queryStr, fieldName, 2.0),
		fieldQuery(queryStr, fieldKeywords, 1.5),
		fieldQuery(queryStr, fieldContent, 1.0),
	)
	if opts != nil && opts.Source != "" {
		sourceQuery := bleve.NewTermQuery(opts.Source)
		sourceQuery.SetField(fieldSource)
		q = bleve.NewConjunctionQuery(q, sourceQuery)
	}

	req := bleve.NewSearchRequestOptions(q, s.maxResults, 0, false)
	req.Fields = []string{fieldName, fieldSource, fieldContent}
	req.Highlight = bleve.NewHighlightWithStyle("ansi")
	req.Highlight.AddField(fieldContent)

	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		name, _ := hit.Fields[fieldName].(string)
		source, _ := hit.Fields[fieldSource].(string)
		results = append(results, SearchResult{
			URI:     hit.ID,
			Name:    name,
			Source:  source,
			Snippet: snippet(hit.Fragments[fieldContent], hit.Fields[fieldContent]),
			Score:   hit.Score,
		})
	}
	return results, nil
}

// Close releases the index
func (s *Service) Close() {
	if err := s.index.Close(); err != nil {
		slog.Error("Failed to close search index", "error", err)
	}
}

func fieldQuery(text, field string, boost float64) query.Query {
	q := bleve.NewMatchQuery(text)
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

func snippet(fragments []string, content interface{}) string {
	if len(fragments) > 0 {
		return stripMarks(fragments[0])
	}
	text, _ := content.(string)
	text = strings.Join(strings.Fields(text), " ")
	if runes := []rune(text); len(runes) > snippetLength {
		return string(runes[:snippetLength]) + "…"
	}
	return text
}

// stripMarks removes ANSI highlight sequences from a fragment
func stripMarks(s string) string {
	r := strings.NewReplacer("\x1b[43m", "", "\x1b[0m", "")
	return strings.Join(strings.Fields(r.Replace(s)), " ")
}
