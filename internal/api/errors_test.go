package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	errs "psb-dashboard/internal/common/errors"
	cplookup "psb-dashboard/internal/services/cp-lookup"
	cronforward "psb-dashboard/internal/services/cron-forward"
	filetransfer "psb-dashboard/internal/services/file-transfer"
	frqlookup "psb-dashboard/internal/services/frq-lookup"
	invoicefetch "psb-dashboard/internal/services/invoice-fetch"
	"psb-dashboard/internal/store/archive"
)

func TestStandardize_MapsServiceSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code errs.ErrorCode
	}{
		{"empty partner id", invoicefetch.ErrEmptyPartnerID, errs.ErrCodeInvalidArgument},
		{"empty batch id", frqlookup.ErrEmptyBatchID, errs.ErrCodeInvalidArgument},
		{"cp not found", cplookup.ErrNotFound, errs.ErrCodeNotFound},
		{"archive not found", archive.ErrNotFound, errs.ErrCodeNotFound},
		{"frq lookup failed", frqlookup.ErrLookupFailed, errs.ErrCodeLookupFailed},
		{"invoice fetch failed", invoicefetch.ErrFetchFailed, errs.ErrCodeDocumentQueryFailed},
		{"archive write failed", archive.ErrWriteFailed, errs.ErrCodeArchiveWriteFailed},
		{"archive query failed", archive.ErrQueryFailed, errs.ErrCodeArchiveQueryFailed},
		{"sftp path not found", filetransfer.ErrPathNotFound, errs.ErrCodeSFTPPathNotFound},
		{"sftp upload failed", filetransfer.ErrUploadFailed, errs.ErrCodeSFTPUploadFailed},
		{"upstream unreachable", cronforward.ErrUpstreamUnreachable, errs.ErrCodeUpstreamUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, standardize(tt.err).Code)
		})
	}
}

func TestStandardize_UnwrapsWrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("%w: server selection timeout", invoicefetch.ErrFetchFailed)

	assert.Equal(t, errs.ErrCodeDocumentQueryFailed, standardize(wrapped).Code)
}

func TestStandardize_UnknownErrorNormalizes(t *testing.T) {
	std := standardize(errors.New("boom"))

	assert.Equal(t, errs.ErrCodeInternal, std.Code)
}
