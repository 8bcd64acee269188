// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package semantic

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/flavorrank/internal/catalog"
	"github.com/tomtom215/flavorrank/internal/config"
	"github.com/tomtom215/flavorrank/internal/embedding"
	"github.com/tomtom215/flavorrank/internal/metrics"
	"github.com/tomtom215/flavorrank/internal/recommend/storage"
)

// blobVersion is bumped when the blob layout changes.
const blobVersion = 1

// blobKind tags index blobs in storage metadata.
const blobKind = "semantic-index"

// Build outcomes, also used as metric labels.
const (
	OutcomeCacheHit     = "cache_hit"
	OutcomeRebuilt      = "rebuilt"
	OutcomeInvalidCache = "invalid_cache"
	OutcomeFailed       = "failed"
)

// errCacheInvalid marks a cached blob that cannot be used for this catalog.
var errCacheInvalid = errors.New("semantic index cache invalid")

// Index holds one unit vector per catalog row, row-major in catalog order.
type Index struct {
	vectors     []float32
	norms       []float32
	rows        int
	dim         int
	modelID     string
	fingerprint string
}

// Rows returns the number of indexed items.
func (idx *Index) Rows() int { return idx.rows }

// Dimension returns the vector width.
func (idx *Index) Dimension() int { return idx.dim }

// ModelID returns the encoder the index was built with.
func (idx *Index) ModelID() string { return idx.modelID }

// Fingerprint returns the content fingerprint of the indexed catalog.
func (idx *Index) Fingerprint() string { return idx.fingerprint }

// Vector returns the stored vector of row r. The slice aliases the index.
func (idx *Index) Vector(r catalog.RowIndex) []float32 {
	start := int(r) * idx.dim
	return idx.vectors[start : start+idx.dim]
}

// blobHeader precedes the vector data in the cached blob.
type blobHeader struct {
	Version     int    `json:"version"`
	Model       string `json:"model"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Fingerprint string `json:"fingerprint"`
}

// Options tune index builds.
type Options struct {
	BatchSize   int
	Concurrency int
	Validation  string // config.IndexValidateFingerprint or config.IndexValidateShape
}

// Builder builds the index or loads it from the blob store.
type Builder struct {
	embedder embedding.Embedder
	blobs    storage.BlobStore
	opts     Options
	logger   zerolog.Logger
}

// NewBuilder creates a Builder. blobs may be nil to disable caching.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBuilder(embedder embedding.Embedder, blobs storage.BlobStore, opts Options, logger zerolog.Logger) *Builder {
	if opts.BatchSize < 1 {
		opts.BatchSize = 64
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Validation == "" {
		opts.Validation = config.IndexValidateFingerprint
	}
	return &Builder{
		embedder: embedder,
		blobs:    blobs,
		opts:     opts,
		logger:   logger.With().Str("component", "semantic").Logger(),
	}
}

// BlobKey returns the storage key for the builder's encoder.
func (b *Builder) BlobKey() string {
	return "index:" + b.embedder.ModelID()
}

// BuildOrLoad returns the cached index when it matches store, otherwise
// encodes every item and refreshes the cache.
func (b *Builder) BuildOrLoad(ctx context.Context, store *catalog.Store) (*Index, error) {
	start := time.Now()
	descriptions := describeAll(store)
	fp := Fingerprint(store, descriptions, b.embedder.ModelID(), b.embedder.Dimension())

	idx, err := b.load(ctx, store.Len(), fp)
	switch {
	case err == nil:
		b.logger.Info().Int("rows", idx.rows).Int("dimension", idx.dim).Dur("duration", time.Since(start)).Msg("Semantic index loaded from cache")
		metrics.RecordIndexBuild(OutcomeCacheHit, idx.rows, time.Since(start))
		return idx, nil
	case errors.Is(err, storage.ErrBlobNotFound):
		b.logger.Info().Str("key", b.BlobKey()).Msg("No cached semantic index, building")
	case errors.Is(err, errCacheInvalid), errors.Is(err, storage.ErrBlobCorrupt):
		b.logger.Info().Err(err).Str("key", b.BlobKey()).Msg("Cached semantic index rejected, rebuilding")
		metrics.RecordIndexBuild(OutcomeInvalidCache, 0, time.Since(start))
	default:
		b.logger.Warn().Err(err).Str("key", b.BlobKey()).Msg("Semantic index cache unreadable, rebuilding")
	}

	idx, err = b.Build(ctx, descriptions)
	if err != nil {
		metrics.RecordIndexBuild(OutcomeFailed, 0, time.Since(start))
		return nil, err
	}
	idx.fingerprint = fp

	if err := b.save(ctx, idx); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to cache semantic index")
	}

	b.logger.Info().Int("rows", idx.rows).Int("dimension", idx.dim).Dur("duration", time.Since(start)).Msg("Semantic index built")
	metrics.RecordIndexBuild(OutcomeRebuilt, idx.rows, time.Since(start))
	return idx, nil
}

// Build encodes descriptions in batches, running up to Concurrency batches at once.
func (b *Builder) Build(ctx context.Context, descriptions []string) (*Index, error) {
	enc := embedding.Uncached(b.embedder)
	dim := enc.Dimension()
	rows := len(descriptions)
	vectors := make([]float32, rows*dim)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)

	for lo := 0; lo < rows; lo += b.opts.BatchSize {
		hi := min(lo+b.opts.BatchSize, rows)
		g.Go(func() error {
			vecs, err := enc.Embed(gctx, descriptions[lo:hi])
			if err != nil {
				return fmt.Errorf("embed rows %d-%d: %w", lo, hi-1, err)
			}
			if len(vecs) != hi-lo {
				return fmt.Errorf("embed rows %d-%d: got %d vectors", lo, hi-1, len(vecs))
			}
			for i, v := range vecs {
				if len(v) != dim {
					return fmt.Errorf("%w: row %d has %d dimensions, want %d", embedding.ErrDimensionMismatch, lo+i, len(v), dim)
				}
				copy(vectors[(lo+i)*dim:], v)
			}
			b.logger.Debug().Int("from", lo).Int("to", hi).Msg("Embedded batch")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build semantic index: %w", err)
	}

	return newIndex(vectors, rows, dim, enc.ModelID()), nil
}

func newIndex(vectors []float32, rows, dim int, modelID string) *Index {
	idx := &Index{vectors: vectors, rows: rows, dim: dim, modelID: modelID, norms: make([]float32, rows)}
	for r := 0; r < rows; r++ {
		var sum float64
		for _, x := range vectors[r*dim : (r+1)*dim] {
			sum += float64(x) * float64(x)
		}
		idx.norms[r] = float32(math.Sqrt(sum))
	}
	return idx
}

// load reads and validates the cached blob.
func (b *Builder) load(ctx context.Context, rows int, fp string) (*Index, error) {
	if b.blobs == nil {
		return nil, storage.ErrBlobNotFound
	}
	data, _, err := b.blobs.Get(ctx, b.BlobKey())
	if err != nil {
		return nil, err
	}

	hdr, vectors, err := decodeBlob(data)
	if err != nil {
		return nil, err
	}

	switch {
	case hdr.Version != blobVersion:
		return nil, fmt.Errorf("%w: blob version %d, want %d", errCacheInvalid, hdr.Version, blobVersion)
	case hdr.Model != b.embedder.ModelID():
		return nil, fmt.Errorf("%w: built with model %q", errCacheInvalid, hdr.Model)
	case hdr.Rows != rows || hdr.Cols != b.embedder.Dimension():
		return nil, fmt.Errorf("%w: shape %dx%d, catalog needs %dx%d", errCacheInvalid, hdr.Rows, hdr.Cols, rows, b.embedder.Dimension())
	case b.opts.Validation == config.IndexValidateFingerprint && hdr.Fingerprint != fp:
		return nil, fmt.Errorf("%w: content fingerprint changed", errCacheInvalid)
	}

	idx := newIndex(vectors, hdr.Rows, hdr.Cols, hdr.Model)
	idx.fingerprint = hdr.Fingerprint
	return idx, nil
}

func (b *Builder) save(ctx context.Context, idx *Index) error {
	if b.blobs == nil {
		return nil
	}
	data, err := encodeBlob(blobHeader{
		Version:     blobVersion,
		Model:       idx.modelID,
		Rows:        idx.rows,
		Cols:        idx.dim,
		Fingerprint: idx.fingerprint,
	}, idx.vectors)
	if err != nil {
		return err
	}
	return b.blobs.Put(ctx, b.BlobKey(), data, storage.BlobMetadata{Kind: blobKind})
}

func encodeBlob(hdr blobHeader, vectors []float32) ([]byte, error) {
	head, err := json.Marshal(hdr)
	if err != nil {
		return nil, fmt.Errorf("marshal index header: %w", err)
	}

	out := make([]byte, 4+len(head)+4*len(vectors))
	binary.LittleEndian.PutUint32(out, uint32(len(head))) //nolint:gosec // header is a few hundred bytes
	copy(out[4:], head)
	body := out[4+len(head):]
	for i, v := range vectors {
		binary.LittleEndian.PutUint32(body[4*i:], math.Float32bits(v))
	}
	return out, nil
}

func decodeBlob(data []byte) (blobHeader, []float32, error) {
	var hdr blobHeader
	if len(data) < 4 {
		return hdr, nil, fmt.Errorf("%w: blob too short", errCacheInvalid)
	}
	n := int(binary.LittleEndian.Uint32(data))
	if n > len(data)-4 {
		return hdr, nil, fmt.Errorf("%w: header length %d exceeds blob", errCacheInvalid, n)
	}
	if err := json.Unmarshal(data[4:4+n], &hdr); err != nil {
		return hdr, nil, fmt.Errorf("%w: decode header: %v", errCacheInvalid, err)
	}

	body := data[4+n:]
	if hdr.Rows < 0 || hdr.Cols < 0 || len(body) != 4*hdr.Rows*hdr.Cols {
		return hdr, nil, fmt.Errorf("%w: %d data bytes for %dx%d vectors", errCacheInvalid, len(body), hdr.Rows, hdr.Cols)
	}
	vectors := make([]float32, hdr.Rows*hdr.Cols)
	for i := range vectors {
		vectors[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[4*i:]))
	}
	return hdr, vectors, nil
}

func describeAll(store *catalog.Store) []string {
	out := make([]string, store.Len())
	store.Each(func(row catalog.RowIndex, item *catalog.Item) {
		out[row] = Describe(item)
	})
	return out
}

// Fingerprint hashes every item id and description together with the
// encoder identity, in catalog order.
func Fingerprint(store *catalog.Store, descriptions []string, modelID string, dim int) string {
	d := xxhash.New()
	_, _ = d.WriteString(modelID)                   //nolint:errcheck // hash writes never fail
	_, _ = d.WriteString("\x00" + strconv.Itoa(dim)) //nolint:errcheck // hash writes never fail

	var buf [8]byte
	store.Each(func(row catalog.RowIndex, item *catalog.Item) {
		binary.LittleEndian.PutUint64(buf[:], uint64(item.ID)) //nolint:gosec // ids are reinterpreted, not sized
		_, _ = d.Write(buf[:])                                 //nolint:errcheck // hash writes never fail
		_, _ = d.WriteString(descriptions[row])                //nolint:errcheck // hash writes never fail
		_, _ = d.Write([]byte{0})                              //nolint:errcheck // hash writes never fail
	})
	return strconv.FormatUint(d.Sum64(), 16)
}
