// Package nn pairs a text encoder with a hosted classifier to form a named
// sentiment model.
package nn

import (
	"context"
	"fmt"
	"log"
	"math"
	"path/filepath"

	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
	"github.com/edh5623/Songtiment-Analysis/internal/core/ports"
	"github.com/edh5623/Songtiment-Analysis/internal/textenc"
)

// Backend runs inference for models it hosts by name.
type Backend interface {
	Status(ctx context.Context, model string) error
	Predict(ctx context.Context, model string, instance []int) (float64, error)
}

// Encoder turns text into model input ids.
type Encoder interface {
	Encode(text string) []int
	Pad(ids []int) []int
}

// encoderShape is implemented by encoders that can describe their input layout.
type encoderShape interface {
	VocabSize() int
	PadLength() int
}

// EncoderLoader builds the encoder for a model; it is called by Load.
type EncoderLoader func() (Encoder, error)

// Model is a named sentiment classifier.
type Model struct {
	name       string
	backend    Backend
	loadEnc    EncoderLoader
	encoder    Encoder
	logits     bool
	preprocess func(string) string
	debug      bool
}

var _ ports.SentimentModel = (*Model)(nil)

// Option configures a Model.
type Option func(*Model)

// WithLogits marks the model output as a raw logit that needs a sigmoid.
func WithLogits(logits bool) Option {
	return func(m *Model) { m.logits = logits }
}

// WithDebug logs encoded sequence sizes.
func WithDebug(debug bool) Option {
	return func(m *Model) { m.debug = debug }
}

// NewModel returns a model that loads its encoder lazily through loadEnc.
func NewModel(name string, backend Backend, loadEnc EncoderLoader, opts ...Option) *Model {
	m := &Model{
		name:       name,
		backend:    backend,
		loadEnc:    loadEnc,
		preprocess: textenc.Preprocess,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// VocabLoader loads "<dir>/<name>.subwords" with the given pad length.
func VocabLoader(dir, name string, padLength int) EncoderLoader {
	return func() (Encoder, error) {
		return textenc.LoadFile(filepath.Join(dir, name+".subwords"), padLength)
	}
}

func (m *Model) Name() string { return m.name }

// Load builds the encoder and checks that the backend serves the model.
func (m *Model) Load(ctx context.Context) error {
	if m.encoder == nil {
		enc, err := m.loadEnc()
		if err != nil {
			return fmt.Errorf("nn: %s: load encoder: %w", m.name, err)
		}
		m.encoder = enc
		if shape, ok := enc.(encoderShape); ok && m.debug {
			log.Printf("DEBUG nn: %s: vocabulary of %d ids, pad length %d", m.name, shape.VocabSize(), shape.PadLength())
		}
	}
	if err := m.backend.Status(ctx, m.name); err != nil {
		return fmt.Errorf("nn: %s: %w", m.name, err)
	}
	return nil
}

// Predict encodes text according to opts and returns the model's positivity in [0, 1].
func (m *Model) Predict(ctx context.Context, text string, opts domain.PredictOptions) (float64, error) {
	if m.encoder == nil {
		return 0, fmt.Errorf("nn: %s: predict before load", m.name)
	}

	if opts.Preprocess {
		text = m.preprocess(text)
	}
	ids := m.encoder.Encode(text)
	if opts.Pad {
		ids = m.encoder.Pad(ids)
	}
	if len(ids) == 0 {
		ids = []int{textenc.PadID}
	}
	if m.debug {
		log.Printf("DEBUG nn: %s: %d input ids (pad=%t preprocess=%t)", m.name, len(ids), opts.Pad, opts.Preprocess)
	}

	out, err := m.backend.Predict(ctx, m.name, ids)
	if err != nil {
		return 0, fmt.Errorf("nn: %s: %w", m.name, err)
	}
	if m.logits {
		out = sigmoid(out)
	}
	return out, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
