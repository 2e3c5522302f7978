package vectorindex

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/embedding"

	goredis "github.com/redis/go-redis/v9"
)

const distanceField = "vector_distance"

// searchClient is the slice of the go-redis client the index talks through.
type searchClient interface {
	FT_List(ctx context.Context) *goredis.StringSliceCmd
	FTCreate(ctx context.Context, index string, options *goredis.FTCreateOptions, schema ...*goredis.FieldSchema) *goredis.StatusCmd
	FTSearchWithArgs(ctx context.Context, index string, query string, options *goredis.FTSearchOptions) *goredis.FTSearchCmd
	HSet(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// RedisIndex stores one hash per document under Prefix and queries it with a RediSearch KNN index.
type RedisIndex struct {
	client   searchClient
	embedder embedding.Embedder
	name     string
	prefix   string
	dim      int
}

type Config struct {
	Name      string
	Prefix    string
	Dimension int
}

func NewRedisIndex(client searchClient, embedder embedding.Embedder, cfg Config) *RedisIndex {
	if cfg.Prefix == "" {
		cfg.Prefix = cfg.Name + ":"
	}
	return &RedisIndex{
		client:   client,
		embedder: embedder,
		name:     cfg.Name,
		prefix:   cfg.Prefix,
		dim:      cfg.Dimension,
	}
}

// EnsureIndex creates the search index when it does not exist yet.
func (r *RedisIndex) EnsureIndex(ctx context.Context) error {
	names, err := r.client.FT_List(ctx).Result()
	if err != nil {
		return fmt.Errorf("vectorindex: list indexes: %w", err)
	}
	for _, name := range names {
		if name == r.name {
			return nil
		}
	}

	tag := func(name string) *goredis.FieldSchema {
		return &goredis.FieldSchema{FieldName: name, FieldType: goredis.SearchFieldTypeTag}
	}
	err = r.client.FTCreate(ctx, r.name,
		&goredis.FTCreateOptions{OnHash: true, Prefix: []interface{}{r.prefix}},
		&goredis.FieldSchema{FieldName: "content", FieldType: goredis.SearchFieldTypeText},
		&goredis.FieldSchema{FieldName: "title", FieldType: goredis.SearchFieldTypeText},
		tag("status"), tag("type"), tag("seniority"), tag("model"),
		&goredis.FieldSchema{
			FieldName: "embedding",
			FieldType: goredis.SearchFieldTypeVector,
			VectorArgs: &goredis.FTVectorArgs{
				HNSWOptions: &goredis.FTHNSWOptions{Type: "FLOAT32", Dim: r.dim, DistanceMetric: "COSINE"},
			},
		},
	).Err()
	if err != nil {
		return fmt.Errorf("vectorindex: create %s: %w", r.name, err)
	}
	return nil
}

func (r *RedisIndex) Upsert(ctx context.Context, doc domain.IndexDocument) error {
	vec, err := r.embedder.EmbedQuery(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("vectorindex: embed %s: %w", doc.ID, err)
	}
	if r.dim > 0 && len(vec) != r.dim {
		return fmt.Errorf("vectorindex: embedding has %d dimensions, index expects %d", len(vec), r.dim)
	}

	values := []interface{}{"content", doc.Content, "embedding", encodeVector(vec)}
	keys := make([]string, 0, len(doc.Metadata))
	for k := range doc.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values = append(values, k, doc.Metadata[k])
	}

	if err := r.client.HSet(ctx, r.prefix+doc.ID, values...).Err(); err != nil {
		return fmt.Errorf("vectorindex: store %s: %w", doc.ID, err)
	}
	return nil
}

func (r *RedisIndex) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.prefix+id).Err(); err != nil {
		return fmt.Errorf("vectorindex: delete %s: %w", id, err)
	}
	return nil
}

// Search returns document ids ordered by similarity, best first, dropping those under threshold.
func (r *RedisIndex) Search(ctx context.Context, query string, topK int, threshold float64) ([]domain.ScoredID, error) {
	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorindex: embed query: %w", err)
	}

	knn := fmt.Sprintf("*=>[KNN %d @embedding $vec AS %s]", topK, distanceField)
	res, err := r.client.FTSearchWithArgs(ctx, r.name, knn, &goredis.FTSearchOptions{
		Return:         []goredis.FTSearchReturn{{FieldName: distanceField}},
		SortBy:         []goredis.FTSearchSortBy{{FieldName: distanceField, Asc: true}},
		Limit:          topK,
		Params:         map[string]interface{}{"vec": encodeVector(vec)},
		DialectVersion: 2,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("vectorindex: search: %w", err)
	}

	out := make([]domain.ScoredID, 0, len(res.Docs))
	for _, doc := range res.Docs {
		raw, ok := doc.Fields[distanceField]
		if !ok {
			continue
		}
		distance, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("vectorindex: bad distance %q for %s", raw, doc.ID)
		}
		score := similarityFromCosineDistance(distance)
		if score < threshold {
			continue
		}
		out = append(out, domain.ScoredID{ID: strings.TrimPrefix(doc.ID, r.prefix), Score: score})
	}
	return out, nil
}

// Cosine distance lies in [0, 2]; map it onto a [0, 1] similarity.
func similarityFromCosineDistance(d float64) float64 {
	s := (2 - d) / 2
	return math.Max(0, math.Min(1, s))
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
