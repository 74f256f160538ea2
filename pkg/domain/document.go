package domain

// DocumentSummary is the listing view of a stored document.
type DocumentSummary struct {
	ID       int
	Filename string
}

// Document is a named content unit in the corpus store.
//
// Filename is unique over the whole store; re-ingesting a document with
// a known filename replaces its content instead of duplicating the row.
type Document struct {
	ID       int
	Filename string
	Content  string
}

func (d Document) Summary() DocumentSummary {
	return DocumentSummary{ID: d.ID, Filename: d.Filename}
}

func (d Document) Equal(o Document) bool {
	return d.ID == o.ID && d.Filename == o.Filename && d.Content == o.Content
}
