package documents

import (
	"github.com/textlake/textlake/pkg/domain"
)

// Summary is a document as it appears in listings.
type Summary struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
}

func ComposeSummary(d domain.DocumentSummary) Summary {
	return Summary{
		ID:       d.ID,
		Filename: d.Filename,
	}
}

// Detail is a document with its full content.
type Detail struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func ComposeDetail(d domain.Document) Detail {
	return Detail{
		ID:       d.ID,
		Filename: d.Filename,
		Content:  d.Content,
	}
}

// Uploaded tells the caller under which name and id an upload landed.
// The filename can differ from the requested one when it collided.
type Uploaded struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
}

type Deleted struct {
	Message string `json:"message"`
}
