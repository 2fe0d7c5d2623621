// Package pipeline coordinates extraction then reconciliation for one
// document: OCR markdown in, reconciled receipt record out. Each
// invocation is an independent sequential run with no shared mutable
// state, so callers may process documents concurrently.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/ecinar/fisrecon/internal/entity"
	"github.com/ecinar/fisrecon/internal/extract"
	"github.com/ecinar/fisrecon/internal/reconcile"
)

type Processor struct {
	logger     *slog.Logger
	model      extract.Extractor // nil when no credential is configured
	fallback   extract.Extractor
	reconciler *reconcile.Reconciler
}

// NewProcessor wires the extraction strategies and the reconciler.
// model may be nil; the fallback is then the only extraction path.
func NewProcessor(logger *slog.Logger, model, fallback extract.Extractor, reconciler *reconcile.Reconciler) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if fallback == nil {
		fallback = extract.NewFallbackExtractor(logger)
	}
	if reconciler == nil {
		reconciler = reconcile.NewReconciler(logger)
	}
	return &Processor{
		logger:     logger,
		model:      model,
		fallback:   fallback,
		reconciler: reconciler,
	}
}

// Process runs one document through extraction and reconciliation.
// A model failure is recovered locally by the regex fallback and never
// surfaced to the caller; the fallback itself cannot fail. The model's
// arithmetic is never trusted as final: the result always passes
// through the reconciler.
func (p *Processor) Process(ctx context.Context, markdown string) entity.ReceiptRecord {
	var rec entity.ReceiptRecord
	switch {
	case p.model != nil:
		r, err := p.model.Extract(ctx, markdown)
		if err != nil {
			p.logger.Warn("processor.model_extract.failed", "error", err, "hint", "falling back to regex extraction")
			rec, _ = p.fallback.Extract(ctx, markdown)
		} else {
			rec = r
		}
	default:
		rec, _ = p.fallback.Extract(ctx, markdown)
	}

	out := p.reconciler.Reconcile(rec)

	p.logger.Info("processor.ok",
		"merchant", out.MerchantName,
		"items", len(out.Items),
		"total", out.Total.String(),
		"tax", out.Tax.String(),
		"subtotal", out.Subtotal.String(),
	)
	return out
}
