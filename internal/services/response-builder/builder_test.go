package responsebuilder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psb-dashboard/internal/models"
)

func transactionForm() models.ResponseFormData {
	return models.ResponseFormData{
		HeaderDatetime: "2026-03-05T20:52",
		Action:         "fund",
		ActionDate:     "2026-03-05",
		Amount:         "50000",
		Comment:        "Funding approved",
		ID:             "FR-001",
		DueDate:        "2026-04-01",
		BankRef:        "BR-9912",
	}
}

func repaymentForm() models.ResponseFormData {
	return models.ResponseFormData{
		HeaderDatetime:   "2026-03-05T20:52",
		ActionDate:       "2026-03-05",
		Amount:           "500",
		Comment:          "Finance settlement successful",
		ID:               "FR-002",
		DueDate:          "2026-04-01",
		LiquidationSeq:   "2",
		FinalLiquidation: "Y",
	}
}

func exposureForm() models.ResponseFormData {
	return models.ResponseFormData{
		HeaderDatetime:      "2026-03-05T20:52",
		BankCustomerCode:    "CP-77",
		RelatedCustomerCode: "PRG-12",
		ExposureLimit:       "1000000",
		ExposureUtilized:    "250000",
		ExposureRemaining:   "750000",
		ActionTimestamp:     "2026-03-05T20:52",
		ExpiryDate:          "2027-03-31",
	}
}

// ==========================
// Golden Document Tests
// ==========================

func TestRender_Transaction(t *testing.T) {
	expected := `<?xml version="1.0" encoding="UTF-8"?><request>
     <header>
          <source>BoB</source>
          <datetime>20260305T205200</datetime>
          <description>FR update message to sp</description>
     </header>
     <fundingresponses>
          <fundingresponse action="fund" action_date="20260305" amount="50000" comment="Funding approved" currency="INR" id="FR-001" due_date="20260401" bank_ref="BR-9912"/>
     </fundingresponses>
</request>`

	doc, err := Render(models.ResponseTypeTransaction, transactionForm())

	require.NoError(t, err)
	assert.Equal(t, expected, doc)
}

func TestRender_Repayment(t *testing.T) {
	expected := `<?xml version="1.0" encoding="UTF-8"?><request>
     <header>
          <source>BOB</source>
          <datetime>20260305T205200</datetime>
          <description>FR update message to PSB</description>
     </header>
     <fundingresponses>
          <fundingresponse action="liquidate" action_date="20260305" amount="500" comment="Finance settlement successful" liquidation_seq="2" currency="INR" final_liquidation="Y" id="FR-002" due_date="20260401"/>
     </fundingresponses>
</request>`

	doc, err := Render(models.ResponseTypeRepayment, repaymentForm())

	require.NoError(t, err)
	assert.Equal(t, expected, doc)
	assert.NotContains(t, doc, "bank_ref")
}

func TestRender_Exposure(t *testing.T) {
	expected := `<?xml version="1.0" encoding="UTF-8"?><request>
     <header>
          <source>BoB</source>
          <datetime>20260305T205200</datetime>
          <description>Limits Update</description>
     </header>
     <exposureupdates>
          <exposureupdate bank_customer_code="CP-77" related_customer_code="PRG-12" action_code="U" exposure_limit="1000000" exposure_utilized="250000" exposure_remaining="750000" action_timestamp="05.03.2026 205200" expiry_date="31.03.2027"/>
     </exposureupdates>
</request>`

	doc, err := Render(models.ResponseTypeExposure, exposureForm())

	require.NoError(t, err)
	assert.Equal(t, expected, doc)
}

func TestRender_UnknownType(t *testing.T) {
	_, err := Render(models.ResponseType("limit-update"), transactionForm())

	assert.ErrorIs(t, err, ErrUnknownResponseType)
}

func TestRender_Idempotent(t *testing.T) {
	for _, responseType := range []models.ResponseType{
		models.ResponseTypeTransaction,
		models.ResponseTypeRepayment,
		models.ResponseTypeExposure,
	} {
		t.Run(string(responseType), func(t *testing.T) {
			form := transactionForm()
			switch responseType {
			case models.ResponseTypeRepayment:
				form = repaymentForm()
			case models.ResponseTypeExposure:
				form = exposureForm()
			}

			first, err := Render(responseType, form)
			require.NoError(t, err)
			second, err := Render(responseType, form)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestRender_ExactlyOneVariantBody(t *testing.T) {
	doc, err := Render(models.ResponseTypeTransaction, transactionForm())
	require.NoError(t, err)
	assert.NotContains(t, doc, "exposureupdate")
	assert.Equal(t, 1, strings.Count(doc, "<fundingresponse "))

	doc, err = Render(models.ResponseTypeExposure, exposureForm())
	require.NoError(t, err)
	assert.NotContains(t, doc, "fundingresponse")
	assert.Equal(t, 1, strings.Count(doc, "<exposureupdate "))
}

// ==========================
// Format Tests
// ==========================

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "20260305", FormatDate("2026-03-05"))
	assert.Equal(t, "", FormatDate(""))
}

func TestFormatHeaderDatetime(t *testing.T) {
	assert.Equal(t, "20260305T205200", FormatHeaderDatetime("2026-03-05T20:52"))
	// The "00" suffix is appended blindly even when the input already
	// carries seconds.
	assert.Equal(t, "20260305T20521900", FormatHeaderDatetime("2026-03-05T20:52:19"))
	assert.Equal(t, "", FormatHeaderDatetime(""))
}

func TestFormatExposureTimestamp(t *testing.T) {
	assert.Equal(t, "05.03.2026 205200", FormatExposureTimestamp("2026-03-05T20:52"))
	assert.Equal(t, "09.01.2026 040107", FormatExposureTimestamp("2026-01-09T04:01:07"))
	assert.Equal(t, "", FormatExposureTimestamp(""))
	assert.Equal(t, "garbage", FormatExposureTimestamp("garbage"))
}

func TestFormatExpiryDate(t *testing.T) {
	assert.Equal(t, "31.03.2027", FormatExpiryDate("2027-03-31"))
	assert.Equal(t, "", FormatExpiryDate(""))
}
