package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/ContractAPI/internal/config"
	"github.com/akolanti/ContractAPI/internal/domain/commonModels"
	"github.com/akolanti/ContractAPI/internal/rag/vectorDB"
	"github.com/akolanti/ContractAPI/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var once sync.Once

// point ids must be UUIDs or integers, chunk ids are mapped into this namespace
var pointNamespace = uuid.MustParse("6f1c7c56-3d0a-4b3e-9a57-8c1f0e2b7d41")

type ClientHolder struct {
	QObj      *qdrant.Client
	dimension uint64
}

func GetQuadrantClient(ctx context.Context, settings config.IndexSettings, dimension int32) (*ClientHolder, error) {
	var initErr error
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		quadrantInstance, initErr = newClient(settings)
		if quadrantInstance != nil {
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		if initErr == nil {
			initErr = errors.New("qdrant client unavailable")
		}
		return nil, initErr
	}
	return &ClientHolder{
		QObj:      quadrantInstance,
		dimension: uint64(dimension),
	}, nil
}

func newClient(settings config.IndexSettings) (*qdrant.Client, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     settings.QdrantHost,
		Port:     settings.QdrantPort,
		APIKey:   settings.QdrantKey,
		UseTLS:   settings.QdrantTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil, err
	}
	logger.Info("Qdrant client created", "host", settings.QdrantHost, "port", settings.QdrantPort)
	return client, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func pointId(collectionName, chunkId string) *qdrant.PointId {
	return qdrant.NewID(uuid.NewSHA1(pointNamespace, []byte(collectionName+"/"+chunkId)).String())
}

func (db *ClientHolder) CollectionExists(ctx context.Context, collectionName string) (bool, error) {
	return db.QObj.CollectionExists(ctx, collectionName)
}

func (db *ClientHolder) CreateCollection(ctx context.Context, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     db.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (db *ClientHolder) DeleteCollection(ctx context.Context, collectionName string) error {
	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil || !exists {
		return err
	}
	return db.QObj.DeleteCollection(ctx, collectionName)
}

func (db *ClientHolder) Count(ctx context.Context, collectionName string) (int, error) {
	n, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: collectionName,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant count failed: %w", err)
	}
	return int(n), nil
}

func (db *ClientHolder) GetChunks(ctx context.Context, collectionName string, ids []string) (map[string]vectorDB.StoredChunk, error) {
	pointIds := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIds[i] = pointId(collectionName, id)
	}

	points, err := db.QObj.Get(ctx, &qdrant.GetPoints{
		CollectionName: collectionName,
		Ids:            pointIds,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant get failed: %w", err)
	}

	found := make(map[string]vectorDB.StoredChunk, len(points))
	for _, p := range points {
		chunk := fromPayload(p.Payload)
		found[chunk.Id] = vectorDB.StoredChunk{
			Chunk:          chunk,
			EmbeddingModel: p.Payload[vectorDB.KeyEmbeddingModel].GetStringValue(),
		}
	}
	return found, nil
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.Chunk, vectors [][]float32, embeddingModel string) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      pointId(collectionName, chunk.Id),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				vectorDB.KeyChunkId:        chunk.Id,
				vectorDB.KeyChunkOrder:     chunk.Ordinal,
				vectorDB.KeyContent:        chunk.Content,
				vectorDB.KeyPageNum:        chunk.PositionHint,
				vectorDB.KeyElementType:    chunk.Kind,
				vectorDB.KeyEmbeddingModel: embeddingModel,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, collectionName string, vectorFloat []float32, limit int) ([]vectorDB.ScoredChunk, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "collection", collectionName)
	if limit <= 0 {
		return []vectorDB.ScoredChunk{}, nil
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vectorFloat...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	hits := make([]vectorDB.ScoredChunk, 0, len(result))
	for _, hit := range result {
		hits = append(hits, vectorDB.ScoredChunk{
			Chunk:      fromPayload(hit.Payload),
			Similarity: hit.Score,
		})
	}
	loggr.Debug("Found matches", "count", len(hits))
	return hits, nil
}

func fromPayload(payload map[string]*qdrant.Value) commonModels.Chunk {
	return commonModels.Chunk{
		Id:           payload[vectorDB.KeyChunkId].GetStringValue(),
		Ordinal:      int(payload[vectorDB.KeyChunkOrder].GetIntegerValue()),
		Content:      payload[vectorDB.KeyContent].GetStringValue(),
		PositionHint: int(payload[vectorDB.KeyPageNum].GetIntegerValue()),
		Kind:         payload[vectorDB.KeyElementType].GetStringValue(),
	}
}
