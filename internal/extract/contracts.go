package extract

import (
	"context"

	"github.com/ecinar/fisrecon/internal/entity"
)

// Extractor turns raw OCR markdown into a candidate receipt record.
// Two implementations exist: the schema-guided model adapter and the
// deterministic regex fallback. The candidate still goes through the
// reconciler; extraction output is never trusted as final.
type Extractor interface {
	Extract(ctx context.Context, markdown string) (entity.ReceiptRecord, error)
}
