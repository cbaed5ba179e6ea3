package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings is the runtime configuration. Defaults come from the constants in
// environmentVariables.go, then an optional YAML file, then the environment.
type Settings struct {
	LogLevel string `yaml:"log_level"`
	JSONLogs bool   `yaml:"json_logs"`

	Server     ServerSettings     `yaml:"server"`
	Chunking   ChunkingSettings   `yaml:"chunking"`
	Index      IndexSettings      `yaml:"index"`
	Embedding  ProviderSettings   `yaml:"embedding"`
	Generation GenerationSettings `yaml:"generation"`
	Analysis   AnalysisSettings   `yaml:"analysis"`
	Redis      RedisSettings      `yaml:"redis"`
}

type ServerSettings struct {
	ListenAddr   string `yaml:"listen_addr"`
	AuthToken    string `yaml:"-"`
	NoAuthBypass bool   `yaml:"no_auth_bypass"`
	RateLimit    bool   `yaml:"rate_limit"`
}

type ChunkingSettings struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

type IndexSettings struct {
	Backend     string `yaml:"backend"` // chromem or qdrant
	Path        string `yaml:"path"`    // chromem persistence directory
	QdrantHost  string `yaml:"qdrant_host"`
	QdrantPort  int    `yaml:"qdrant_port"`
	QdrantTLS   bool   `yaml:"qdrant_tls"`
	QdrantKey   string `yaml:"-"`
	BatchSize   int    `yaml:"batch_size"`
	Concurrency int    `yaml:"concurrency"`
}

type ProviderSettings struct {
	Provider  string `yaml:"provider"` // google or openai
	Model     string `yaml:"model"`
	Dimension int32  `yaml:"dimension"`
	APIKey    string `yaml:"-"`
}

type GenerationSettings struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	APIKey      string        `yaml:"-"`
}

type AnalysisSettings struct {
	Timeout time.Duration `yaml:"timeout"`
}

type RedisSettings struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"-"`
	Enabled  bool   `yaml:"enabled"`
}

var (
	current   *Settings
	currentMu sync.RWMutex
)

// Defaults returns the settings derived from the compiled-in constants.
func Defaults() *Settings {
	return &Settings{
		LogLevel: "debug",
		JSONLogs: IS_PROD,
		Server: ServerSettings{
			ListenAddr: ServerListenAddr,
			RateLimit:  true,
		},
		Chunking: ChunkingSettings{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap},
		Index: IndexSettings{
			Backend:     IndexBackendChromem,
			Path:        DefaultIndexPath,
			QdrantHost:  QdrantHost,
			QdrantPort:  QdrantGrpcPort,
			QdrantTLS:   QdrantUseTLS,
			BatchSize:   EmbeddingBatchSize,
			Concurrency: EmbeddingConcurrency,
		},
		Embedding: ProviderSettings{
			Provider:  ProviderGoogle,
			Model:     GoogleEmbeddingModel,
			Dimension: EmbeddingOutputDimensionality,
		},
		Generation: GenerationSettings{
			Provider:    ProviderGoogle,
			Model:       GeminiModelName,
			Temperature: ModelTemperature,
			Timeout:     GenerationCallTimeout,
		},
		Analysis: AnalysisSettings{Timeout: AnalysisTimeout},
		Redis:    RedisSettings{Addr: RedisAddr, Enabled: true},
	}
}

// Load builds the settings. A missing YAML file or .env file is not an error.
func Load(path string) (*Settings, error) {
	s := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, s); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	applyEnv(s)
	applyProviderDefaults(s)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func applyEnv(s *Settings) {
	setString(&s.LogLevel, "LOG_LEVEL")
	setString(&s.Server.ListenAddr, "LISTEN_ADDR")
	setString(&s.Server.AuthToken, "AUTH_TOKEN")
	setBool(&s.Server.NoAuthBypass, "NO_AUTH_BYPASS")

	setString(&s.Index.Backend, "INDEX_BACKEND")
	setString(&s.Index.Path, "INDEX_PATH")
	setString(&s.Index.QdrantHost, "QDRANT_HOST")
	setInt(&s.Index.QdrantPort, "QDRANT_PORT")
	setString(&s.Index.QdrantKey, "QDRANT_API_KEY")

	setString(&s.Embedding.Provider, "EMBEDDING_PROVIDER")
	setString(&s.Embedding.Model, "EMBEDDING_MODEL")
	setString(&s.Generation.Provider, "LLM_PROVIDER")
	setString(&s.Generation.Model, "LLM_MODEL")

	setString(&s.Redis.Addr, "REDIS_ADDR")
	setString(&s.Redis.Password, "REDIS_PASSWORD")

	google := os.Getenv("GOOGLE_API_KEY")
	openai := os.Getenv("OPENAI_API_KEY")
	s.Embedding.APIKey = pickKey(s.Embedding.Provider, google, openai)
	s.Generation.APIKey = pickKey(s.Generation.Provider, google, openai)
}

// a provider switched in YAML or env without naming a model gets that provider's default
func applyProviderDefaults(s *Settings) {
	if s.Embedding.Provider == ProviderOpenAI && s.Embedding.Model == GoogleEmbeddingModel {
		s.Embedding.Model = OpenAIEmbeddingModel
	}
	if s.Generation.Provider == ProviderOpenAI && s.Generation.Model == GeminiModelName {
		s.Generation.Model = OpenAIChatModel
	}
}

func pickKey(provider, google, openai string) string {
	if provider == ProviderOpenAI {
		return openai
	}
	return google
}

// Validate rejects settings the pipeline cannot run with.
func (s *Settings) Validate() error {
	if s.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive, got %d", s.Chunking.Size)
	}
	if s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be in [0, %d), got %d", s.Chunking.Size, s.Chunking.Overlap)
	}
	switch s.Index.Backend {
	case IndexBackendChromem, IndexBackendQdrant:
	default:
		return fmt.Errorf("unknown index backend %q", s.Index.Backend)
	}
	for _, p := range []string{s.Embedding.Provider, s.Generation.Provider} {
		if p != ProviderGoogle && p != ProviderOpenAI {
			return fmt.Errorf("unknown provider %q", p)
		}
	}
	if s.Index.BatchSize <= 0 {
		s.Index.BatchSize = EmbeddingBatchSize
	}
	if s.Index.Concurrency <= 0 {
		s.Index.Concurrency = 1
	}
	return nil
}

// SetCurrent publishes the settings for packages that read them globally (middleware, logger).
func SetCurrent(s *Settings) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = s
}

// Current returns the published settings, or the defaults when none were published.
func Current() *Settings {
	currentMu.RLock()
	defer currentMu.RUnlock()
	if current == nil {
		return Defaults()
	}
	return current
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
