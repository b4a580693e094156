package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/epic-report/pkg/adapters"
	"github.com/de-tools/epic-report/pkg/models/api"
	"github.com/de-tools/epic-report/pkg/models/domain"
	"github.com/de-tools/epic-report/pkg/store/duckdb/runs"
)

const (
	defaultRunsLimit = 20
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Generator interface {
	Generate(ctx context.Context) (*domain.Report, error)
}

// Workbook renders rows to a spreadsheet stream
type Workbook interface {
	Write(w io.Writer, rows []domain.ReportRow) error
	FileName(ts time.Time) string
}

type Handler struct {
	generator Generator
	workbook  Workbook
	runs      runs.Store
}

// NewHandler creates the report handler. A nil run store disables the history endpoint.
func NewHandler(generator Generator, workbook Workbook, runStore runs.Store) *Handler {
	return &Handler{
		generator: generator,
		workbook:  workbook,
		runs:      runStore,
	}
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	report, err := h.generator.Generate(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to generate report")
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, adapters.MapDomainReportToAPI(report))
}

func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	report, err := h.generator.Generate(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to generate report")
		writeError(w, http.StatusBadGateway, err)
		return
	}

	var buf bytes.Buffer
	if err := h.workbook.Write(&buf, report.Rows); err != nil {
		logger.Error().Err(err).Msg("failed to render workbook")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(h.workbook.FileName(report.GeneratedAt))))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error().Err(err).Msg("failed to stream workbook")
	}
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	if h.runs == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("run history is not enabled"))
		return
	}

	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}
	project := r.URL.Query().Get("project")

	stored, err := h.runs.ListRuns(ctx, project, limit)
	if err != nil {
		logger.Error().Err(err).Str("project", project).Msg("failed to list runs")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	response := make([]api.Run, 0, len(stored))
	for _, run := range stored {
		response = append(response, adapters.MapDomainRunToAPI(adapters.MapStoreRunToDomain(run)))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Error{Message: err.Error()})
}
