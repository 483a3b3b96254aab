package responsebuilder

import (
	"errors"
	"fmt"

	"psb-dashboard/internal/models"
)

var ErrUnknownResponseType = errors.New("UNKNOWN_RESPONSE_TYPE")

// Currency is never caller-supplied in funding responses.
const currency = "INR"

// The exposure action code is transmitted as an attribute but always
// carries the fixed update code.
const exposureActionCode = "U"

// Attribute order, indentation, and the per-variant source/description
// text are part of the wire contract with the counterparty's parser.
// Do not normalize them.
const (
	transactionTemplate = `<?xml version="1.0" encoding="UTF-8"?><request>
     <header>
          <source>BoB</source>
          <datetime>%s</datetime>
          <description>FR update message to sp</description>
     </header>
     <fundingresponses>
          <fundingresponse action="%s" action_date="%s" amount="%s" comment="%s" currency="` + currency + `" id="%s" due_date="%s" bank_ref="%s"/>
     </fundingresponses>
</request>`

	repaymentTemplate = `<?xml version="1.0" encoding="UTF-8"?><request>
     <header>
          <source>BOB</source>
          <datetime>%s</datetime>
          <description>FR update message to PSB</description>
     </header>
     <fundingresponses>
          <fundingresponse action="liquidate" action_date="%s" amount="%s" comment="%s" liquidation_seq="%s" currency="` + currency + `" final_liquidation="%s" id="%s" due_date="%s"/>
     </fundingresponses>
</request>`

	exposureTemplate = `<?xml version="1.0" encoding="UTF-8"?><request>
     <header>
          <source>BoB</source>
          <datetime>%s</datetime>
          <description>Limits Update</description>
     </header>
     <exposureupdates>
          <exposureupdate bank_customer_code="%s" related_customer_code="%s" action_code="` + exposureActionCode + `" exposure_limit="%s" exposure_utilized="%s" exposure_remaining="%s" action_timestamp="%s" expiry_date="%s"/>
     </exposureupdates>
</request>`
)

// Render produces the complete response document for one variant. It is
// a pure function and must only be called after Validate has passed for
// the same fields.
func Render(responseType models.ResponseType, form models.ResponseFormData) (string, error) {
	switch responseType {
	case models.ResponseTypeTransaction:
		return fmt.Sprintf(transactionTemplate,
			FormatHeaderDatetime(form.HeaderDatetime),
			form.Action,
			FormatDate(form.ActionDate),
			form.Amount,
			form.Comment,
			form.ID,
			FormatDate(form.DueDate),
			form.BankRef,
		), nil
	case models.ResponseTypeRepayment:
		return fmt.Sprintf(repaymentTemplate,
			FormatHeaderDatetime(form.HeaderDatetime),
			FormatDate(form.ActionDate),
			form.Amount,
			form.Comment,
			form.LiquidationSeq,
			form.FinalLiquidation,
			form.ID,
			FormatDate(form.DueDate),
		), nil
	case models.ResponseTypeExposure:
		return fmt.Sprintf(exposureTemplate,
			FormatHeaderDatetime(form.HeaderDatetime),
			form.BankCustomerCode,
			form.RelatedCustomerCode,
			form.ExposureLimit,
			form.ExposureUtilized,
			form.ExposureRemaining,
			FormatExposureTimestamp(form.ActionTimestamp),
			FormatExpiryDate(form.ExpiryDate),
		), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownResponseType, responseType)
	}
}
