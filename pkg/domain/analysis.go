package domain

import "github.com/textlake/textlake/pkg/utils/cmp"

// TokenTag is a token paired with its part-of-speech tag.
type TokenTag struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
}

// Entity is a named entity found in a document.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Analysis is the linguistic analysis derived from one document.
//
// Each document has at most one Analysis, keyed by DocumentID.
// It is removed together with its document (cascade on delete).
type Analysis struct {
	DocumentID int
	Tokens     []string
	Sentences  []string
	Tags       []TokenTag
	Entities   []Entity
}

func (a Analysis) Equal(o Analysis) bool {
	return a.DocumentID == o.DocumentID &&
		cmp.SliceEq(a.Tokens, o.Tokens) &&
		cmp.SliceEq(a.Sentences, o.Sentences) &&
		cmp.SliceEq(a.Tags, o.Tags) &&
		cmp.SliceEq(a.Entities, o.Entities)
}
