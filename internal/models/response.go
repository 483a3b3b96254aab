package models

// ResponseType selects which of the three response document templates is
// rendered. Exactly one variant is populated per document.
type ResponseType string

const (
	ResponseTypeTransaction ResponseType = "transaction"
	ResponseTypeRepayment   ResponseType = "repayment"
	ResponseTypeExposure    ResponseType = "exposure"
)

// Valid reports whether t names a known response type.
func (t ResponseType) Valid() bool {
	switch t {
	case ResponseTypeTransaction, ResponseTypeRepayment, ResponseTypeExposure:
		return true
	}
	return false
}

// ResponseFormData carries the user-supplied and fetched fields a response
// document is rendered from. All values are kept as strings in the HTML
// form formats they arrive in (dates "2006-01-02", datetimes
// "2006-01-02T15:04"); the builder owns the wire formatting.
type ResponseFormData struct {
	HeaderDatetime string `json:"headerDatetime"`

	// Transaction / Repayment fields
	Action     string `json:"action"`
	ActionDate string `json:"actionDate"`
	Amount     string `json:"amount"`
	Comment    string `json:"comment"`
	ID         string `json:"id"`
	DueDate    string `json:"dueDate"`
	BankRef    string `json:"bankRef"`

	// Repayment-specific fields
	LiquidationSeq   string `json:"liquidationSeq"`
	FinalLiquidation string `json:"finalLiquidation"`

	// Exposure Update fields
	BankCustomerCode    string `json:"bankCustomerCode"`
	RelatedCustomerCode string `json:"relatedCustomerCode"`
	ActionCode          string `json:"actionCode"`
	ExposureLimit       string `json:"exposureLimit"`
	ExposureUtilized    string `json:"exposureUtilized"`
	ExposureRemaining   string `json:"exposureRemaining"`
	ActionTimestamp     string `json:"actionTimestamp"`
	ExpiryDate          string `json:"expiryDate"`
}
