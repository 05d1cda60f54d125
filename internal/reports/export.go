package reports

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"condo/internal/core"
	applog "condo/internal/log"
	"condo/internal/sheets"
)

type Exporter struct {
	writer sheets.ReportWriter
	logger *applog.Logger
}

func NewExporter(w sheets.ReportWriter, logger *applog.Logger) *Exporter {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Exporter{writer: w, logger: logger.WithComponent(applog.ComponentReports)}
}

// Export writes the requested reports concurrently and returns the sheet
// reference of each. No kinds means every report. The first failure
// cancels the remaining writes.
func (e *Exporter) Export(ctx context.Context, snap core.Snapshot, kinds ...Kind) (map[Kind]string, error) {
	if len(kinds) == 0 {
		kinds = Kinds
	}
	tables := make([]sheets.Table, len(kinds))
	for i, k := range kinds {
		t, err := Table(k, snap)
		if err != nil {
			return nil, err
		}
		tables[i] = t
	}

	var mu sync.Mutex
	refs := make(map[Kind]string, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, k := range kinds {
		g.Go(func() error {
			ref, err := e.writer.WriteTable(gctx, tables[i])
			if err != nil {
				return fmt.Errorf("export %s: %w", k, err)
			}
			mu.Lock()
			refs[k] = ref
			mu.Unlock()
			e.logger.InfoContext(gctx, "Report exported", applog.FieldReport, string(k), applog.FieldSheetsRef, ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.ErrorContext(ctx, "Report export failed", applog.FieldOperation, applog.OpExport, applog.FieldError, err.Error())
		return nil, err
	}
	return refs, nil
}
