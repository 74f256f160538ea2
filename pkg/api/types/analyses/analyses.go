package analyses

import (
	"github.com/textlake/textlake/pkg/domain"
)

type TokenTag struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
}

type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Detail is one document's linguistic analysis on the wire.
type Detail struct {
	Tokens    []string   `json:"tokens"`
	Sentences []string   `json:"sentences"`
	Tags      []TokenTag `json:"tags"`
	Entities  []Entity   `json:"entities"`
}

func ComposeDetail(a domain.Analysis) Detail {
	tags := make([]TokenTag, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, TokenTag{Text: t.Text, Tag: t.Tag})
	}
	entities := make([]Entity, 0, len(a.Entities))
	for _, e := range a.Entities {
		entities = append(entities, Entity{Text: e.Text, Label: e.Label})
	}
	return Detail{
		Tokens:    a.Tokens,
		Sentences: a.Sentences,
		Tags:      tags,
		Entities:  entities,
	}
}

// Export is the downloadable form, carrying the document id so the
// file stays self-describing outside the service.
type Export struct {
	DocumentID int `json:"documentId"`
	Detail
}

func ComposeExport(a domain.Analysis) Export {
	return Export{
		DocumentID: a.DocumentID,
		Detail:     ComposeDetail(a),
	}
}

type Stored struct {
	Message string `json:"message"`
}

type Deleted struct {
	Message string `json:"message"`
}
