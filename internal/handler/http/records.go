// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-salon-keeper/internal/utils"
	"github.com/MKhiriev/go-salon-keeper/models"
)

// Operation labels of the record metrics.
const (
	opCreate = "create"
	opRead   = "read"
	opGet    = "get"
	opUpdate = "update"
	opDelete = "delete"
	opImport = "import"
	opExport = "export"
	opAudit  = "audit"
)

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	dataType := models.DataType(chi.URLParam(r, "dataType"))

	var req models.CreateRecordRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	id, err := h.records.Create(r.Context(), h.actor(r), models.NewRecord{
		DataType:   dataType,
		Data:       req.Data,
		BusinessID: req.BusinessID,
		Tags:       req.Tags,
	})
	h.metrics.ObserveRecordOp(opCreate, dataType, err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.IDsResponse{IDs: []string{id}}, http.StatusCreated)
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	dataType := models.DataType(chi.URLParam(r, "dataType"))

	filter, err := parseRecordFilter(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	records, err := h.records.Read(r.Context(), h.actor(r), dataType, filter)
	h.metrics.ObserveRecordOp(opRead, dataType, err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeRecords(w, records)
}

func (h *Handler) exportRecords(w http.ResponseWriter, r *http.Request) {
	dataType := models.DataType(chi.URLParam(r, "dataType"))

	records, err := h.records.Export(r.Context(), h.actor(r), dataType)
	h.metrics.ObserveRecordOp(opExport, dataType, err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(dataType)+".json"))
	writeRecords(w, records)
}

func (h *Handler) importRecords(w http.ResponseWriter, r *http.Request) {
	var req models.BulkImportRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	ids, err := h.records.BulkImport(r.Context(), h.actor(r), req.Records)
	h.metrics.ObserveRecordOp(opImport, "", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.IDsResponse{IDs: ids}, http.StatusCreated)
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.records.Get(r.Context(), h.actor(r), chi.URLParam(r, "id"))
	h.metrics.ObserveRecordOp(opGet, record.DataType, err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, record, http.StatusOK)
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRecordRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	record, err := h.records.Update(r.Context(), h.actor(r), chi.URLParam(r, "id"), req.Updates)
	h.metrics.ObserveRecordOp(opUpdate, record.DataType, err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, record, http.StatusOK)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	err := h.records.Delete(r.Context(), h.actor(r), chi.URLParam(r, "id"))
	h.metrics.ObserveRecordOp(opDelete, "", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) auditTrail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	trail, err := h.records.GetAuditTrail(r.Context(), h.actor(r), id)
	h.metrics.ObserveRecordOp(opAudit, "", err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if trail == nil {
		trail = []models.AuditEntry{}
	}

	_, _ = utils.WriteJSON(w, models.AuditTrailResponse{RecordID: id, AuditTrail: trail, Length: len(trail)}, http.StatusOK)
}

// actor is the signed-in user on whose behalf the request runs. requireSession
// put the uid in the context; the role comes from the session claims.
func (h *Handler) actor(r *http.Request) models.Actor {
	uid, _ := utils.GetUserIDFromContext(r.Context())
	return utils.ActorFromContext(r.Context(), uid, h.sessions.Role())
}

func writeRecords(w http.ResponseWriter, records []models.Record) {
	if records == nil {
		records = []models.Record{}
	}
	_, _ = utils.WriteJSON(w, models.RecordsResponse{Records: records, Length: len(records)}, http.StatusOK)
}

// parseRecordFilter reads business_id, created_by, created_from, created_to
// (RFC 3339) and limit from the query string.
func parseRecordFilter(query url.Values) (models.RecordFilter, error) {
	var filter models.RecordFilter

	if query.Has("business_id") {
		businessID := query.Get("business_id")
		filter.BusinessID = &businessID
	}
	filter.CreatedBy = query.Get("created_by")

	for param, dst := range map[string]**time.Time{
		"created_from": &filter.CreatedFrom,
		"created_to":   &filter.CreatedTo,
	} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return models.RecordFilter{}, fmt.Errorf("%w: %s: %w", errInvalidRequestBody, param, err)
		}
		*dst = &ts
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return models.RecordFilter{}, fmt.Errorf("%w: limit: %w", errInvalidRequestBody, err)
		}
		filter.Limit = limit
	}

	return filter, nil
}
