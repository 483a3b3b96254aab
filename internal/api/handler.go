package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"psb-dashboard/internal/common/logger"
	"psb-dashboard/internal/common/observability"
	"psb-dashboard/internal/models"
	cronforward "psb-dashboard/internal/services/cron-forward"
	filetransfer "psb-dashboard/internal/services/file-transfer"
)

// Service interfaces consumed by the HTTP layer. Each is satisfied by
// the corresponding service package; tests substitute fakes.

type InvoiceFetcher interface {
	Fetch(ctx context.Context, partnerID string, limit int) ([]models.InvoiceRecord, error)
}

type InvoiceEnricher interface {
	Enrich(ctx context.Context, invoices []models.InvoiceRecord) []models.EnrichedInvoiceRecord
}

type FRQResolver interface {
	Resolve(ctx context.Context, batchID string) (*models.FRQResolution, error)
}

type PartnerLookup interface {
	Lookup(ctx context.Context, referenceID string) (*models.ChannelPartner, error)
}

type CronForwarder interface {
	Forward(ctx context.Context, path string, body []byte) (*cronforward.Result, error)
}

type FileTransfer interface {
	List(ctx context.Context, dir string) ([]models.RemoteEntry, error)
	Upload(ctx context.Context, dir, filename string, content []byte) error
	View() filetransfer.ConfigView
}

type Archive interface {
	Save(ctx context.Context, name string, responseType models.ResponseType, content string) (*models.GeneratedDocument, error)
	List(ctx context.Context) ([]models.GeneratedDocument, error)
	Delete(ctx context.Context, id string) error
}

// Handler wires the dashboard services to their HTTP routes.
type Handler struct {
	invoices InvoiceFetcher
	enricher InvoiceEnricher
	frq      FRQResolver
	partners PartnerLookup
	cron     CronForwarder
	files    FileTransfer
	archive  Archive
	obs      *observability.Observability
	logger   logger.Logger
}

func NewHandler(
	invoices InvoiceFetcher,
	enricher InvoiceEnricher,
	frq FRQResolver,
	partners PartnerLookup,
	cron CronForwarder,
	files FileTransfer,
	archive Archive,
	obs *observability.Observability,
	log logger.Logger,
) *Handler {
	return &Handler{
		invoices: invoices,
		enricher: enricher,
		frq:      frq,
		partners: partners,
		cron:     cron,
		files:    files,
		archive:  archive,
		obs:      obs,
		logger:   log,
	}
}

// Router builds the route table. Paths mirror the dashboard's public
// API under /api/v2/bob.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v2/bob").Subrouter()

	api.HandleFunc("/invoices/fetch", h.instrument("invoices_fetch", h.FetchInvoices)).Methods(http.MethodPost)
	api.HandleFunc("/fetch-frq", h.instrument("fetch_frq", h.FetchFRQ)).Methods(http.MethodPost)
	api.HandleFunc("/cp/fetch", h.instrument("cp_fetch", h.FetchChannelPartner)).Methods(http.MethodPost)

	api.HandleFunc("/responses/validate", h.instrument("responses_validate", h.ValidateResponse)).Methods(http.MethodPost)
	api.HandleFunc("/responses/generate", h.instrument("responses_generate", h.GenerateResponse)).Methods(http.MethodPost)
	api.HandleFunc("/responses", h.instrument("responses_list", h.ListResponses)).Methods(http.MethodGet)
	api.HandleFunc("/responses/{id}", h.instrument("responses_delete", h.DeleteResponse)).Methods(http.MethodDelete)

	api.HandleFunc("/sftp/list", h.instrument("sftp_list", h.ListRemote)).Methods(http.MethodPost)
	api.HandleFunc("/sftp/upload", h.instrument("sftp_upload", h.UploadRemote)).Methods(http.MethodPost)
	api.HandleFunc("/sftp/config", h.instrument("sftp_config", h.RemoteConfig)).Methods(http.MethodGet)

	api.HandleFunc("/transactions/ftp-cron-movement", h.instrument("cron_ftp_movement", h.forwardCron(cronforward.PathFTPMovement))).Methods(http.MethodPost)
	api.HandleFunc("/transactions/status-repayment-callback", h.instrument("cron_status_repayment", h.forwardCron(cronforward.PathStatusRepaymentCallback))).Methods(http.MethodPost)
	api.HandleFunc("/cron/h2h-limit-callback", h.instrument("cron_h2h_limit", h.forwardCron(cronforward.PathH2HLimitCallback))).Methods(http.MethodPost)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) instrument(operation string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(recorder, r)

		status := "success"
		if recorder.status >= 400 {
			status = "error"
		}
		if h.obs != nil {
			h.obs.RecordRequest(r.Context(), operation, status)
			h.obs.RecordDuration(r.Context(), operation, time.Since(start))
		}
	}
}
