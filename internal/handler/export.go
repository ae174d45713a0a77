// Package handler — export.go implements GET /export.
// Returns all of the caller's trips, days, and locations as a flat table.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/curtishsu/travelog/internal/domain"
	"github.com/curtishsu/travelog/internal/middleware"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "trip_start_date", "trip_end_date", "status",
	"day_index", "latitude", "longitude", "captured_at",
	"place", "country", "types",
}

// ExportRowResponse is the JSON shape of one export row.
type ExportRowResponse struct {
	TripID        string   `json:"trip_id"`
	TripTitle     string   `json:"trip_title"`
	TripStartDate string   `json:"trip_start_date"`
	TripEndDate   string   `json:"trip_end_date"`
	Status        string   `json:"status"`
	DayIndex      int      `json:"day_index,omitempty"`
	Latitude      float64  `json:"latitude,omitempty"`
	Longitude     float64  `json:"longitude,omitempty"`
	CapturedAt    string   `json:"captured_at,omitempty"`
	Place         string   `json:"place,omitempty"`
	Country       string   `json:"country,omitempty"`
	Types         []string `json:"types"`
}

// GetExport implements GET /export.
// It returns a flat table of every trip, day, and location combination.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.OwnerID(r.Context())
	if !ok {
		unauthorized(w, "caller identity required")
		return
	}

	rows, err := s.export.Export(r.Context(), owner)
	if err != nil {
		internalError(w)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, rows)
		return
	}

	out := make([]ExportRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes domain rows as CSV. Types within a row are pipe-separated
// ("|") to keep each location on a single CSV line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer writes never fail.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(rowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func rowToResponse(r domain.ExportRow) ExportRowResponse {
	return ExportRowResponse{
		TripID:        r.TripID,
		TripTitle:     r.TripTitle,
		TripStartDate: r.TripStartDate,
		TripEndDate:   r.TripEndDate,
		Status:        string(r.Status),
		DayIndex:      r.DayIndex,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		CapturedAt:    formatOptionalTime(r.CapturedAt),
		Place:         r.Place,
		Country:       r.Country,
		Types:         r.Types,
	}
}

// rowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// The day and location columns are blank for location-less trip rows.
func rowToCSVRecord(r domain.ExportRow) []string {
	dayIndex, lat, lon := "", "", ""
	if r.DayIndex > 0 {
		dayIndex = strconv.Itoa(r.DayIndex)
		lat = strconv.FormatFloat(r.Latitude, 'f', -1, 64)
		lon = strconv.FormatFloat(r.Longitude, 'f', -1, 64)
	}
	return []string{
		r.TripID,
		r.TripTitle,
		r.TripStartDate,
		r.TripEndDate,
		string(r.Status),
		dayIndex,
		lat,
		lon,
		formatOptionalTime(r.CapturedAt),
		r.Place,
		r.Country,
		strings.Join(r.Types, "|"),
	}
}
