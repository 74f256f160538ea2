package domain

// domain package contains the Domain Models and Interfaces for the TextLake application.
//
// `domain/textlake` package exposes the root object for the TextLake application.
// Entrypoints of applications should instantiate the TextLake database object and use it to interact with the domain.
//
// `domain/ENTITY.go` has high-level entities (Domain Model types) and functions.
// For example, `domain/document.go` contains the `Document` entity.
//
// `domain/ENTITY` directory contains the "physical" representation of the domain entities in the RDB.
// For example, `domain/document/db` contains the database expression of the document entity described in `domain/document.go`.
//
// `domain/ENTITY/db/interface.go` exposes the client interface to handle the domain entity in DB.
//
// # Entities
//
// Core entities in the domain are:
//
// - `document`: A text file stored in the lake. Documents carry a unique filename
// and UTF-8 content, and are the unit of upload, download and analysis.
//
// - `analysis`: Linguistic annotations computed over a document: tokens, sentences,
// part-of-speech tags and named entities. At most one analysis is stored per document,
// and it is removed together with the document.
//
// And others:
//
// - `corpus`: Read-only sources of seed documents (a directory of .txt files, or an
// in-memory set for tests). The bootstrap coordinator loads a corpus into the store.
//
// - `bootstrap`: One-time store initialization. Exactly one replica creates the schema,
// loads the corpus and realigns the id sequence while holding an advisory lock;
// the others observe the marker and skip.
