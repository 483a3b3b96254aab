package models

import "time"

// FRQUnresolved marks an invoice whose finance request id lookup was
// attempted but produced no result. Distinct from an empty value.
const FRQUnresolved = "N/A"

// InvoiceRecord is one invoice summary flattened with its matched
// transaction detail document.
type InvoiceRecord struct {
	BatchReferenceNo     string    `json:"psbtransactionbatchreferenceno" bson:"psbtransactionbatchreferenceno"`
	InvoiceNumber        string    `json:"transactioninvoicenumber" bson:"transactioninvoicenumber"`
	InvoiceAmount        string    `json:"transactioninvoiceamount" bson:"transactioninvoiceamount"`
	FinanceRequestAmount string    `json:"transactionfinancerequestamount" bson:"transactionfinancerequestamount"`
	FinanceRequestID     string    `json:"transactionfinancerequestid" bson:"transactionfinancerequestid"`
	Product              string    `json:"product" bson:"product"`
	InvoiceDate          time.Time `json:"transactioninvoicedate" bson:"transactioninvoicedate"`
}

// EnrichedInvoiceRecord is an InvoiceRecord plus the FRQ id resolved from
// the relational store. FRQID is never empty: it is either a resolved id
// or FRQUnresolved.
type EnrichedInvoiceRecord struct {
	InvoiceRecord
	FRQID string `json:"frqId"`
}

// ChannelPartner is the exposure-update prefill data joined from the
// channel_partners and programs collections.
type ChannelPartner struct {
	TMChannelPartnerID string `json:"tmchannelpartnerid" bson:"tmchannelpartnerid"`
	TMProgramID        string `json:"tmprogramid" bson:"tmprogramid"`
}
