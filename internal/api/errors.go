package api

import (
	"errors"
	"net/http"

	errs "psb-dashboard/internal/common/errors"
	cplookup "psb-dashboard/internal/services/cp-lookup"
	cronforward "psb-dashboard/internal/services/cron-forward"
	filetransfer "psb-dashboard/internal/services/file-transfer"
	frqlookup "psb-dashboard/internal/services/frq-lookup"
	invoicefetch "psb-dashboard/internal/services/invoice-fetch"
	responsebuilder "psb-dashboard/internal/services/response-builder"
	"psb-dashboard/internal/store/archive"
)

// standardize translates a service sentinel into the shared error
// taxonomy. Anything unrecognized normalizes to INTERNAL_ERROR.
func standardize(err error) *errs.StandardError {
	switch {
	case errors.Is(err, invoicefetch.ErrEmptyPartnerID),
		errors.Is(err, frqlookup.ErrEmptyBatchID),
		errors.Is(err, cplookup.ErrEmptyReferenceID):
		return errs.NewInvalidArgumentError(err.Error())
	case errors.Is(err, cplookup.ErrNotFound),
		errors.Is(err, archive.ErrNotFound):
		return errs.NewNotFoundError(err.Error())
	case errors.Is(err, frqlookup.ErrLookupFailed):
		return errs.NewLookupFailedError(err)
	case errors.Is(err, invoicefetch.ErrFetchFailed),
		errors.Is(err, cplookup.ErrLookupFailed):
		return errs.NewDocumentQueryFailedError(err)
	case errors.Is(err, responsebuilder.ErrUnknownResponseType):
		return errs.NewUnknownResponseTypeError(err)
	case errors.Is(err, archive.ErrWriteFailed):
		return errs.NewArchiveWriteFailedError(err)
	case errors.Is(err, archive.ErrQueryFailed):
		return errs.NewArchiveQueryFailedError(err)
	case errors.Is(err, filetransfer.ErrConnectionFailed):
		return errs.NewSFTPConnectionFailedError(err)
	case errors.Is(err, filetransfer.ErrListFailed):
		return errs.NewSFTPListFailedError(err)
	case errors.Is(err, filetransfer.ErrUploadFailed):
		return errs.NewSFTPUploadFailedError(err)
	case errors.Is(err, filetransfer.ErrPathNotFound):
		return errs.NewSFTPPathNotFoundError(err)
	case errors.Is(err, cronforward.ErrUpstreamUnreachable):
		return errs.NewUpstreamUnreachableError(err)
	}
	return errs.AsStandard(err)
}

// respondWithServiceError derives the HTTP status from the error code
// instead of per-handler switches. Branches with a contractual message
// respond before reaching this.
func respondWithServiceError(w http.ResponseWriter, err error) {
	std := standardize(err)
	payload := map[string]interface{}{
		"status":  "error",
		"code":    std.Code,
		"message": std.Message,
	}
	if std.Details != "" {
		payload["details"] = std.Details
	}
	respondWithJSON(w, errs.HTTPStatus(std.Code), payload)
}
