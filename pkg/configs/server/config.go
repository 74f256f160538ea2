package server

// Configuration for the textlake server.
//
// to get `ServerConfig` instance, use `ServerConfigMarshall.TrySeal()` .
type ServerConfig struct {
	port     int32
	database string
	corpus   *CorpusConfig
	analyzer *AnalyzerConfig
}

func (c *ServerConfig) Port() int32 {
	return c.port
}

// Connection string for database.
func (c *ServerConfig) Database() string {
	return c.database
}

func (c *ServerConfig) Corpus() *CorpusConfig {
	return c.corpus
}

func (c *ServerConfig) Analyzer() *AnalyzerConfig {
	return c.analyzer
}

// Configuration for the initial corpus.
type CorpusConfig struct {
	root    string
	lockKey int64
}

// Directory holding the `*.txt` files to seed the store with.
// default = "/app/texts"
func (c *CorpusConfig) Root() string {
	return c.root
}

// Advisory lock key shared by all replicas. default = 1234567890
func (c *CorpusConfig) LockKey() int64 {
	return c.lockKey
}

type AnalyzerConfig struct {
	workers int
}

// How many analyses may run at once. default = 4
func (c *AnalyzerConfig) Workers() int {
	return c.workers
}
