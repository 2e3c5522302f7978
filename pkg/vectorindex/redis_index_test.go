package vectorindex

import (
	"context"
	"errors"
	"testing"

	"go-jobboard-backend/internal/domain"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

// fakeSearch records the typed calls and answers from canned values.
type fakeSearch struct {
	indexes []string
	docs    []goredis.Document
	err     error

	created  []*goredis.FieldSchema
	searched *goredis.FTSearchOptions
	query    string
	hset     map[string][]interface{}
	deleted  []string
}

func (f *fakeSearch) FT_List(ctx context.Context) *goredis.StringSliceCmd {
	cmd := goredis.NewStringSliceCmd(ctx, "FT._LIST")
	cmd.SetVal(f.indexes)
	cmd.SetErr(f.err)
	return cmd
}

func (f *fakeSearch) FTCreate(ctx context.Context, index string, options *goredis.FTCreateOptions, schema ...*goredis.FieldSchema) *goredis.StatusCmd {
	f.created = schema
	cmd := goredis.NewStatusCmd(ctx, "FT.CREATE", index)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeSearch) FTSearchWithArgs(ctx context.Context, index string, query string, options *goredis.FTSearchOptions) *goredis.FTSearchCmd {
	f.query = query
	f.searched = options
	cmd := &goredis.FTSearchCmd{}
	cmd.SetVal(goredis.FTSearchResult{Total: len(f.docs), Docs: f.docs})
	cmd.SetErr(f.err)
	return cmd
}

func (f *fakeSearch) HSet(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd {
	if f.hset == nil {
		f.hset = map[string][]interface{}{}
	}
	f.hset[key] = values
	cmd := goredis.NewIntCmd(ctx, "HSET", key)
	cmd.SetVal(1)
	return cmd
}

func (f *fakeSearch) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	f.deleted = append(f.deleted, keys...)
	cmd := goredis.NewIntCmd(ctx, "DEL")
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func newIndex(r *fakeSearch, e fakeEmbedder) *RedisIndex {
	return NewRedisIndex(r, e, Config{Name: "job_embeddings", Prefix: "job:", Dimension: 3})
}

func hit(key, distance string) goredis.Document {
	return goredis.Document{ID: key, Fields: map[string]string{distanceField: distance}}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by threshold keeping order", func(t *testing.T) {
		r := &fakeSearch{docs: []goredis.Document{hit("job:4", "0.05"), hit("job:1", "0.2"), hit("job:3", "0.6")}}
		idx := newIndex(r, fakeEmbedder{vec: []float32{0.1, 0.2, 0.3}})

		hits, err := idx.Search(ctx, "User Skills: go.", 50, 0.85)

		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "4", hits[0].ID)
		assert.InDelta(t, 0.975, hits[0].Score, 1e-9)
		assert.Equal(t, "1", hits[1].ID)
		assert.InDelta(t, 0.9, hits[1].Score, 1e-9)

		assert.Equal(t, "*=>[KNN 50 @embedding $vec AS vector_distance]", r.query)
		assert.Equal(t, 50, r.searched.Limit)
		assert.Equal(t, 2, r.searched.DialectVersion)
		assert.Len(t, r.searched.Params["vec"], 12)
	})

	t.Run("documents without a distance are skipped", func(t *testing.T) {
		r := &fakeSearch{docs: []goredis.Document{{ID: "job:8", Fields: map[string]string{}}, hit("job:2", "0.3")}}

		hits, err := newIndex(r, fakeEmbedder{vec: []float32{1, 0, 0}}).Search(ctx, "q", 5, 0)

		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "2", hits[0].ID)
	})

	t.Run("malformed distance", func(t *testing.T) {
		r := &fakeSearch{docs: []goredis.Document{hit("job:1", "abc")}}

		_, err := newIndex(r, fakeEmbedder{vec: []float32{1, 0, 0}}).Search(ctx, "q", 5, 0)

		assert.Error(t, err)
	})

	t.Run("redis failure", func(t *testing.T) {
		r := &fakeSearch{err: errors.New("connection refused")}

		_, err := newIndex(r, fakeEmbedder{vec: []float32{1, 0, 0}}).Search(ctx, "q", 5, 0)

		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestSimilarityFromCosineDistance(t *testing.T) {
	assert.Equal(t, 1.0, similarityFromCosineDistance(0))
	assert.Equal(t, 0.5, similarityFromCosineDistance(1))
	assert.Equal(t, 0.0, similarityFromCosineDistance(2.5))
}

func TestUpsert(t *testing.T) {
	t.Run("writes hash with vector and metadata", func(t *testing.T) {
		r := &fakeSearch{}
		idx := newIndex(r, fakeEmbedder{vec: []float32{1, 0, 0}})

		err := idx.Upsert(context.Background(), domain.IndexDocument{
			ID:       "12",
			Content:  "Job Title: Go Dev. Required Skills: Go.",
			Metadata: map[string]string{"status": "OPEN", "jobId": "12"},
		})

		require.NoError(t, err)
		values := r.hset["job:12"]
		require.Len(t, values, 8)
		assert.Equal(t, []byte{0, 0, 0x80, 0x3f, 0, 0, 0, 0, 0, 0, 0, 0}, values[3])
		assert.Equal(t, []interface{}{"jobId", "12", "status", "OPEN"}, values[4:])
	})

	t.Run("rejects wrong dimension", func(t *testing.T) {
		r := &fakeSearch{}
		idx := newIndex(r, fakeEmbedder{vec: []float32{1, 0}})

		err := idx.Upsert(context.Background(), domain.IndexDocument{ID: "1", Content: "x"})

		assert.Error(t, err)
		assert.Empty(t, r.hset)
	})

	t.Run("embedder failure", func(t *testing.T) {
		idx := newIndex(&fakeSearch{}, fakeEmbedder{err: errors.New("quota")})
		assert.Error(t, idx.Upsert(context.Background(), domain.IndexDocument{ID: "1"}))
	})
}

func TestEnsureIndex(t *testing.T) {
	t.Run("creates when missing", func(t *testing.T) {
		r := &fakeSearch{indexes: []string{"other"}}

		require.NoError(t, newIndex(r, fakeEmbedder{}).EnsureIndex(context.Background()))

		require.Len(t, r.created, 7)
		vector := r.created[6]
		assert.Equal(t, goredis.SearchFieldTypeVector, vector.FieldType)
		require.NotNil(t, vector.VectorArgs.HNSWOptions)
		assert.Equal(t, 3, vector.VectorArgs.HNSWOptions.Dim)
		assert.Equal(t, "COSINE", vector.VectorArgs.HNSWOptions.DistanceMetric)
	})

	t.Run("existing index is left alone", func(t *testing.T) {
		r := &fakeSearch{indexes: []string{"job_embeddings"}}

		require.NoError(t, newIndex(r, fakeEmbedder{}).EnsureIndex(context.Background()))
		assert.Nil(t, r.created)
	})
}

func TestDelete(t *testing.T) {
	r := &fakeSearch{}

	require.NoError(t, newIndex(r, fakeEmbedder{}).Delete(context.Background(), "5"))
	assert.Equal(t, []string{"job:5"}, r.deleted)
}
