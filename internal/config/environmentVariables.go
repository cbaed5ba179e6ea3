package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                     = false
	LOG_LEVEL_PROD              = slog.LevelInfo
	TRACE_ID_KEY                = "traceId"
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking
	DefaultChunkSize    = 1000 // runes
	DefaultChunkOverlap = 200

	//retrieval
	SummaryChunkLimit    = 10
	QATopK               = 5
	ClauseSearchTopK     = 8
	ClauseRelevanceFloor = 0.3
	RiskChunkLimit       = 5

	//embeddings
	EmbeddingOutputDimensionality int32 = 1536
	EmbeddingBatchSize                  = 100
	EmbeddingConcurrency                = 4
	HugeDataSetChunkCount               = 1000000 //above this the google batch job API is used
	GoogleEmbeddingModel                = "gemini-embedding-001"
	OpenAIEmbeddingModel                = "text-embedding-3-small"
	EmbeddingRetryDelay                 = 5 * time.Second
	EmbeddingBatchPollInterval          = 30 * time.Second

	//index backends
	IndexBackendChromem = "chromem"
	IndexBackendQdrant  = "qdrant"
	DefaultIndexPath    = "./contract_index"

	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = "localhost"
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false //set for https
	QdrantPoolSize          = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout  = 30 * time.Second

	//llm
	ProviderGoogle                = "google"
	ProviderOpenAI                = "openai"
	GeminiModelName               = "gemini-2.5-flash-lite-preview-09-2025"
	OpenAIChatModel               = "gpt-4o-mini"
	ModelTemperature      float32 = 0.1
	GenerationCallTimeout         = 60 * time.Second

	//worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	AnalysisTimeout                 = 3 * time.Minute
	EnqueueTimeout                  = 10 * time.Second

	//serverTimeouts
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//uploads
	MaxUploadSize   = 32 << 20 //32mb
	UploadDirectory = "temporary_data"

	//http client pool
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore = 0

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
)
