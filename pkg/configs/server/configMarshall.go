package server

import (
	kpgbootstrap "github.com/textlake/textlake/pkg/domain/bootstrap/db/postgres"
)

const (
	DefaultPort       int32 = 8000
	DefaultCorpusRoot       = "/app/texts"
	DefaultWorkers          = 4
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/server.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

// Configuration of the textlake server.
//
// This type is marshalling value and mutable.
// Consider to use immutable version, `ServerConfig`.
// You can get `ServerConfig` instance with `ServerConfigMarshall.TrySeal()`
type ServerConfigMarshall struct {
	Port     int32                   `yaml:"port,omitempty"`
	Database string                  `yaml:"database"`
	Corpus   *CorpusConfigMarshall   `yaml:"corpus,omitempty"`
	Analyzer *AnalyzerConfigMarshall `yaml:"analyzer,omitempty"`
}

var _ Marshalled[*ServerConfig] = &ServerConfigMarshall{}

// verify configuration value and create "readonly" version of this.
//
// IT WILL PANIC if any misconfiguration is found.
func (sm *ServerConfigMarshall) TrySeal() *ServerConfig {
	return sm.trySeal("(root)")
}

func (sm *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	port := sm.Port
	if port == 0 {
		port = DefaultPort
	}

	corpus := sm.Corpus
	if corpus == nil {
		corpus = &CorpusConfigMarshall{}
	}
	analyzer := sm.Analyzer
	if analyzer == nil {
		analyzer = &AnalyzerConfigMarshall{}
	}

	return &ServerConfig{
		port:     port,
		database: required(sm.Database, path+".database"),
		corpus:   corpus.trySeal(path + ".corpus"),
		analyzer: analyzer.trySeal(path + ".analyzer"),
	}
}

type CorpusConfigMarshall struct {
	Root    string `yaml:"root,omitempty"`
	LockKey int64  `yaml:"lockKey,omitempty"`
}

func (cm *CorpusConfigMarshall) trySeal(path string) *CorpusConfig {
	root := cm.Root
	if root == "" {
		root = DefaultCorpusRoot
	}
	lockKey := cm.LockKey
	if lockKey == 0 {
		lockKey = kpgbootstrap.DefaultLockKey
	}
	return &CorpusConfig{
		root:    root,
		lockKey: lockKey,
	}
}

type AnalyzerConfigMarshall struct {
	Workers int `yaml:"workers,omitempty"`
}

func (am *AnalyzerConfigMarshall) trySeal(path string) *AnalyzerConfig {
	workers := am.Workers
	if workers == 0 {
		workers = DefaultWorkers
	}
	if workers < 0 {
		panic(path + ".workers should be positive")
	}
	return &AnalyzerConfig{workers: workers}
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}
