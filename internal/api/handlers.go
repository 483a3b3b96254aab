package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	errs "psb-dashboard/internal/common/errors"
	"psb-dashboard/internal/models"
	cplookup "psb-dashboard/internal/services/cp-lookup"
	filetransfer "psb-dashboard/internal/services/file-transfer"
	frqlookup "psb-dashboard/internal/services/frq-lookup"
	invoicefetch "psb-dashboard/internal/services/invoice-fetch"
	responsebuilder "psb-dashboard/internal/services/response-builder"
	"psb-dashboard/internal/store/archive"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ==========================
// Invoice / FRQ / CP
// ==========================

type fetchInvoicesRequest struct {
	PSBIdentifier string `json:"psbIdentifier"`
	Limit         int    `json:"limit"`
}

func (h *Handler) FetchInvoices(w http.ResponseWriter, r *http.Request) {
	var req fetchInvoicesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	invoices, err := h.invoices.Fetch(r.Context(), req.PSBIdentifier, req.Limit)
	if err != nil {
		if errors.Is(err, invoicefetch.ErrEmptyPartnerID) {
			respondWithError(w, http.StatusBadRequest, "PSB Identifier is required")
			return
		}
		respondWithServiceError(w, err)
		return
	}

	enriched := h.enricher.Enrich(r.Context(), invoices)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"count":    len(enriched),
		"invoices": enriched,
	})
}

type fetchFRQRequest struct {
	BatchID string `json:"batchId"`
}

func (h *Handler) FetchFRQ(w http.ResponseWriter, r *http.Request) {
	var req fetchFRQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	resolution, err := h.frq.Resolve(r.Context(), req.BatchID)
	if err != nil {
		if errors.Is(err, frqlookup.ErrEmptyBatchID) {
			respondWithError(w, http.StatusBadRequest, "Batch ID is required")
			return
		}
		respondWithServiceError(w, err)
		return
	}

	if !resolution.Resolved() {
		respondWithError(w, http.StatusNotFound, "No FRQ found for the given Batch ID")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"count":      len(resolution.IDs),
		"frqIds":     resolution.IDs,
		"primaryFrq": resolution.Primary,
	})
}

type fetchCPRequest struct {
	CPIdentifier string `json:"cpIdentifier"`
}

func (h *Handler) FetchChannelPartner(w http.ResponseWriter, r *http.Request) {
	var req fetchCPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	partner, err := h.partners.Lookup(r.Context(), req.CPIdentifier)
	if err != nil {
		switch {
		case errors.Is(err, cplookup.ErrEmptyReferenceID):
			respondWithError(w, http.StatusBadRequest, "CP Identifier is required")
		case errors.Is(err, cplookup.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "No CP data found for the given CP Identifier")
		default:
			respondWithServiceError(w, err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   partner,
	})
}

// ==========================
// Response Documents
// ==========================

type responseRequest struct {
	ResponseType     models.ResponseType     `json:"responseType"`
	FormData         models.ResponseFormData `json:"formData"`
	MaxFinanceAmount string                  `json:"maxFinanceAmount"`
}

func (h *Handler) ValidateResponse(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeResponseRequest(w, r)
	if !ok {
		return
	}

	if fieldErrors := responsebuilder.Validate(req.ResponseType, req.FormData, responsebuilder.Context{MaxFinanceAmount: req.MaxFinanceAmount}); len(fieldErrors) > 0 {
		respondWithFieldErrors(w, fieldErrors)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *Handler) GenerateResponse(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeResponseRequest(w, r)
	if !ok {
		return
	}

	// The gate runs again at generation time; a stale client-side pass
	// is never trusted.
	if fieldErrors := responsebuilder.Validate(req.ResponseType, req.FormData, responsebuilder.Context{MaxFinanceAmount: req.MaxFinanceAmount}); len(fieldErrors) > 0 {
		respondWithFieldErrors(w, fieldErrors)
		return
	}

	content, err := responsebuilder.Render(req.ResponseType, req.FormData)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	name := "Response_" + req.FormData.ID + ".xml"
	if req.ResponseType == models.ResponseTypeExposure {
		name = "Response_" + req.FormData.BankCustomerCode + ".xml"
	}

	doc, err := h.archive.Save(r.Context(), name, req.ResponseType, content)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"data":   doc,
	})
}

func (h *Handler) ListResponses(w http.ResponseWriter, r *http.Request) {
	docs, err := h.archive.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"count":     len(docs),
		"documents": docs,
	})
}

func (h *Handler) DeleteResponse(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.archive.Delete(r.Context(), id); err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "No archived document with id "+id)
			return
		}
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *Handler) decodeResponseRequest(w http.ResponseWriter, r *http.Request) (responseRequest, bool) {
	var req responseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return req, false
	}
	if !req.ResponseType.Valid() {
		respondWithError(w, http.StatusBadRequest, "Unknown response type")
		return req, false
	}
	return req, true
}

// ==========================
// Remote File Drop
// ==========================

type listRemoteRequest struct {
	Path string `json:"path"`
}

func (h *Handler) ListRemote(w http.ResponseWriter, r *http.Request) {
	var req listRemoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	entries, err := h.files.List(r.Context(), req.Path)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"files":  entries,
	})
}

type uploadRemoteRequest struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func (h *Handler) UploadRemote(w http.ResponseWriter, r *http.Request) {
	var req uploadRemoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	if err := h.files.Upload(r.Context(), req.Path, req.Filename, []byte(req.Content)); err != nil {
		if errors.Is(err, filetransfer.ErrPathNotFound) {
			respondWithError(w, http.StatusNotFound, "Remote directory does not exist: "+req.Path)
			return
		}
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "File uploaded successfully",
	})
}

func (h *Handler) RemoteConfig(w http.ResponseWriter, r *http.Request) {
	view := h.files.View()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"protocol":   "SFTP",
		"host":       view.Host,
		"port":       view.Port,
		"user":       view.User,
		"remoteRoot": view.RemoteRoot,
	})
}

// ==========================
// Cron Passthrough
// ==========================

func (h *Handler) forwardCron(upstreamPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Stream read error")
			return
		}

		result, err := h.cron.Forward(r.Context(), upstreamPath, body)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		// Upstream response goes back verbatim, status included.
		if result.ContentType != "" {
			w.Header().Set("Content-Type", result.ContentType)
		}
		w.WriteHeader(result.StatusCode)
		w.Write(result.Body)
	}
}

// ==========================
// Respond Helpers
// ==========================

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"status": "error", "message": message})
}

func respondWithFieldErrors(w http.ResponseWriter, fieldErrors []errs.FieldError) {
	std := errs.NewValidationFailedError(fieldErrors)
	respondWithJSON(w, errs.HTTPStatus(std.Code), map[string]interface{}{
		"status": "error",
		"code":   std.Code,
		"errors": fieldErrors,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
