package http

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"condmon-cloud/internal/audit"
	dashboard "condmon-cloud/internal/dashboard/domain"
	"condmon-cloud/internal/observability/metrics"
)

// ExportHandler serves file exports of the assembled dashboard view.
type ExportHandler struct {
	source      SnapshotSource
	auditLogger audit.Logger
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(source SnapshotSource, auditLogger audit.Logger) (*ExportHandler, error) {
	if source == nil {
		return nil, errors.New("export handler: nil snapshot source")
	}
	return &ExportHandler{source: source, auditLogger: auditLogger}, nil
}

// ServeHTTP routes export requests by file name.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/exports/")
	switch name {
	case "history.csv":
		h.export(w, r, "csv")
	case "dashboard.xlsx":
		h.export(w, r, "xlsx")
	case "dashboard.pdf":
		h.export(w, r, "pdf")
	case "trend.png":
		h.export(w, r, "png")
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ExportHandler) export(w http.ResponseWriter, r *http.Request, format string) {
	start := time.Now()

	snapshot, err := h.source.Snapshot(r.Context())
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		http.Error(w, "working set unavailable", http.StatusServiceUnavailable)
		return
	}

	sel := selectionFromRequest(r)
	view := dashboard.BuildView(snapshot, sel)
	switch view.State {
	case dashboard.ViewNoPointSelection:
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		http.Error(w, "select at least one point measurement", http.StatusBadRequest)
		return
	case dashboard.ViewEmpty:
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		http.Error(w, "no data for selection", http.StatusNotFound)
		return
	}

	var writeErr error
	switch format {
	case "csv":
		writeErr = writeHistoryCSV(w, view)
	case "xlsx":
		writeErr = writeDashboardXLSX(w, sel, view)
	case "pdf":
		writeErr = writeDashboardPDF(w, sel, view)
	case "png":
		writeErr = writeTrendPNG(w, view)
	}
	if writeErr != nil {
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport(format, metrics.ResultSuccess, time.Since(start))
	logAudit(r, h.auditLogger, "export.download", "export", format, map[string]any{
		"equipment": sel.Equipment,
		"component": sel.Component,
		"points":    sel.Points,
	})
}

func writeHistoryCSV(w http.ResponseWriter, view dashboard.View) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{
		"point_measurement",
		"timestamp",
		"value",
		"unit",
		"status",
		"note",
		"tier",
	})
	for _, row := range view.History {
		_ = writer.Write([]string{
			row.PointMeasurement,
			row.Timestamp,
			row.Value,
			row.Unit,
			row.Status,
			row.Note,
			string(row.Tier),
		})
	}
	writer.Flush()
	return writer.Error()
}

func writeDashboardXLSX(w http.ResponseWriter, sel dashboard.Selection, view dashboard.View) error {
	f := excelize.NewFile()
	historySheet := "history"
	bandsSheet := "alarm_bands"
	f.SetSheetName("Sheet1", historySheet)
	f.NewSheet(bandsSheet)

	historyHeader := []string{"Point Measurement", "Timestamp", "Value", "Unit", "Status", "Note"}
	for i, title := range historyHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(historySheet, cell, title)
	}
	for i, row := range view.History {
		values := []any{row.PointMeasurement, row.Timestamp, row.Value, row.Unit, row.Status, row.Note}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(historySheet, cell, value)
		}
	}

	bandsHeader := []string{"Point Measurement", "Alarm Standard", "Parameter", "Excellent", "Acceptable", "Requires Evaluation", "Unacceptable", "Alarm Set Point", "Rated Load", "Unit"}
	for i, title := range bandsHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bandsSheet, cell, title)
	}
	for i, row := range view.AlarmBands {
		values := []any{row.PointMeasurement, row.AlarmStandard, row.Parameter, row.Excellent, row.Acceptable, row.RequiresEvaluation, row.Unacceptable, row.AlarmSetPoint, row.RatedLoad, row.Unit}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(bandsSheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.xlsx"`)
	_, err := w.Write(buf.Bytes())
	return err
}

func writeDashboardPDF(w http.ResponseWriter, sel dashboard.Selection, view dashboard.View) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Equipment Monitoring Dashboard")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Equipment: %s", sel.Equipment))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Component: %s", sel.Component))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Points: %s", strings.Join(sel.Points, ", ")))
	pdf.Ln(8)

	// Historical table
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(55, 6, "Point Measurement", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Timestamp", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Value", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Unit", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.CellFormat(90, 6, "Note", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, row := range view.History {
		pdf.CellFormat(55, 6, row.PointMeasurement, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, row.Timestamp, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, row.Value, "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, row.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, row.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(90, 6, row.Note, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(50, 6, "Point Measurement", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Alarm Standard", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Parameter", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Excellent", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Acceptable", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Requires Evaluation", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Unacceptable", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Unit", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, row := range view.AlarmBands {
		pdf.CellFormat(50, 6, row.PointMeasurement, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, row.AlarmStandard, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, row.Parameter, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, row.Excellent, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, row.Acceptable, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, row.RequiresEvaluation, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, row.Unacceptable, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, row.Unit, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.pdf"`)
	_, err := w.Write(buf.Bytes())
	return err
}
