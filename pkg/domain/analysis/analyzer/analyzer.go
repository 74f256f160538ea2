package analyzer

import (
	"context"

	prose "github.com/jdkato/prose/v2"
	"github.com/textlake/textlake/pkg/domain"
	xe "github.com/textlake/textlake/pkg/xerrors"
)

// Analyzer derives a linguistic analysis from a text.
type Analyzer interface {
	// Analyze tokenizes text, segments it into sentences, tags each
	// token with its part of speech and extracts named entities.
	//
	// Analyze is CPU-bound. The number of analyses running at once is
	// capped; callers over the cap wait for a slot or for ctx.
	Analyze(ctx context.Context, text string) (domain.Analysis, error)
}

type proseAnalyzer struct {
	tickets chan struct{}
}

// New returns an Analyzer running at most workers analyses in parallel.
func New(workers int) Analyzer {
	if workers < 1 {
		workers = 1
	}
	return &proseAnalyzer{tickets: make(chan struct{}, workers)}
}

func (a *proseAnalyzer) Analyze(ctx context.Context, text string) (domain.Analysis, error) {
	select {
	case a.tickets <- struct{}{}:
		defer func() { <-a.tickets }()
	case <-ctx.Done():
		return domain.Analysis{}, ctx.Err()
	}

	doc, err := prose.NewDocument(text)
	if err != nil {
		return domain.Analysis{}, xe.Wrap(err)
	}

	analysis := domain.Analysis{
		Tokens:    []string{},
		Sentences: []string{},
		Tags:      []domain.TokenTag{},
		Entities:  []domain.Entity{},
	}
	for _, tok := range doc.Tokens() {
		analysis.Tokens = append(analysis.Tokens, tok.Text)
		analysis.Tags = append(analysis.Tags, domain.TokenTag{Text: tok.Text, Tag: tok.Tag})
	}
	for _, sent := range doc.Sentences() {
		analysis.Sentences = append(analysis.Sentences, sent.Text)
	}
	for _, ent := range doc.Entities() {
		analysis.Entities = append(analysis.Entities, domain.Entity{Text: ent.Text, Label: ent.Label})
	}

	return analysis, nil
}
