// Flavorrank - Beverage Similarity and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flavorrank

package embedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/tomtom215/flavorrank/internal/config"
	"github.com/tomtom215/flavorrank/internal/metrics"
)

// onnxruntime keeps one environment per process.
var (
	ortInitOnce sync.Once
	errORTInit  error
)

func initRuntime(libraryPath string) error {
	ortInitOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		errORTInit = ort.InitializeEnvironment()
	})
	return errORTInit
}

// ONNXEmbedder runs a sentence-transformer ONNX export in-process.
type ONNXEmbedder struct {
	// mu serialises Run calls; the session is reused across batches.
	mu         sync.Mutex
	session    *ort.DynamicAdvancedSession
	tk         *tokenizer.Tokenizer
	modelID    string
	dim        int
	maxSeqLen  int
	inputNames []string
	logger     zerolog.Logger
}

// NewONNXEmbedder loads the tokenizer and model from cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewONNXEmbedder(cfg *config.EmbeddingConfig, logger zerolog.Logger) (*ONNXEmbedder, error) {
	if err := initRuntime(cfg.ONNX.LibraryPath); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}

	tk, err := pretrained.FromFile(cfg.ONNX.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", cfg.ONNX.TokenizerPath, err)
	}

	inputNames := []string{"input_ids", "attention_mask", "token_type_ids"}
	session, err := ort.NewDynamicAdvancedSession(cfg.ONNX.ModelPath, inputNames, []string{cfg.ONNX.OutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("load onnx model %s: %w", cfg.ONNX.ModelPath, err)
	}

	e := &ONNXEmbedder{
		session:    session,
		tk:         tk,
		modelID:    cfg.ModelID,
		dim:        cfg.Dimension,
		maxSeqLen:  cfg.ONNX.MaxSeqLen,
		inputNames: inputNames,
		logger:     logger.With().Str("component", "embedding").Str("provider", "onnx").Logger(),
	}
	e.logger.Info().Str("model", cfg.ONNX.ModelPath).Int("dimension", e.dim).Int("max_seq_len", e.maxSeqLen).Msg("ONNX encoder loaded")
	return e, nil
}

// Embed tokenizes texts, runs the model once for the whole batch and
// mean-pools each sequence.
func (e *ONNXEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	vecs, err := e.embedBatch(texts)
	metrics.RecordEmbedding("onnx", len(texts), time.Since(start), err)
	return vecs, err
}

func (e *ONNXEmbedder) embedBatch(texts []string) ([][]float32, error) {
	batch := len(texts)
	ids := make([][]int64, batch)
	masks := make([][]int64, batch)
	types := make([][]int64, batch)
	seqLen := 0

	for i, text := range texts {
		enc, err := e.tk.EncodeSingle(NormalizeText(text), true)
		if err != nil {
			return nil, fmt.Errorf("tokenize input %d: %w", i, err)
		}
		ids[i] = truncate(toInt64(enc.GetIds()), e.maxSeqLen)
		masks[i] = truncate(toInt64(enc.GetAttentionMask()), e.maxSeqLen)
		types[i] = truncate(toInt64(enc.GetTypeIds()), e.maxSeqLen)
		seqLen = max(seqLen, len(ids[i]))
	}

	// Right-pad to the longest sequence; padded positions have mask 0.
	flatIDs := make([]int64, batch*seqLen)
	flatMask := make([]int64, batch*seqLen)
	flatTypes := make([]int64, batch*seqLen)
	for i := range texts {
		copy(flatIDs[i*seqLen:], ids[i])
		copy(flatMask[i*seqLen:], masks[i])
		copy(flatTypes[i*seqLen:], types[i])
	}

	shape := ort.NewShape(int64(batch), int64(seqLen))
	inputs := make([]ort.Value, 0, len(e.inputNames))
	defer func() {
		for _, v := range inputs {
			_ = v.Destroy() //nolint:errcheck // tensor cleanup
		}
	}()
	for _, data := range [][]int64{flatIDs, flatMask, flatTypes} {
		t, err := ort.NewTensor(shape, data)
		if err != nil {
			return nil, fmt.Errorf("create input tensor: %w", err)
		}
		inputs = append(inputs, t)
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(int64(batch), int64(seqLen), int64(e.dim)))
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer func() { _ = output.Destroy() }() //nolint:errcheck // tensor cleanup

	e.mu.Lock()
	err = e.session.Run(inputs, []ort.Value{output})
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("run onnx session: %w", err)
	}

	hidden := output.GetData()
	stride := seqLen * e.dim
	out := make([][]float32, batch)
	for i := range out {
		v := MeanPool(hidden[i*stride:(i+1)*stride], flatMask[i*seqLen:(i+1)*seqLen], e.dim)
		L2Normalize(v)
		out[i] = v
	}
	return out, nil
}

// Dimension returns the configured vector width.
func (e *ONNXEmbedder) Dimension() int { return e.dim }

// ModelID returns the configured model name.
func (e *ONNXEmbedder) ModelID() string { return e.modelID }

// Close destroys the session. The runtime environment stays initialised.
func (e *ONNXEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Destroy()
}

func toInt64(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

// truncate keeps the first maxLen-1 tokens plus the final special token.
func truncate(tokens []int64, maxLen int) []int64 {
	if maxLen <= 1 || len(tokens) <= maxLen {
		return tokens
	}
	out := make([]int64, maxLen)
	copy(out, tokens[:maxLen-1])
	out[maxLen-1] = tokens[len(tokens)-1]
	return out
}
