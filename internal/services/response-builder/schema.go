package responsebuilder

import (
	"github.com/xeipuuv/gojsonschema"

	errs "psb-dashboard/internal/common/errors"
	"psb-dashboard/internal/models"
)

// Per-variant field schemas. The form always serializes every field, so
// "required" means non-empty (minLength) rather than key presence.

var actionEnum = []interface{}{"fund", "decline", "liquidate", "overdue", "annotate", "approve"}

const (
	isoDatePattern     = `^\d{4}-\d{2}-\d{2}$`
	optionalISODate    = `^(\d{4}-\d{2}-\d{2})?$`
	decimalPattern     = `^\d+(\.\d+)?$`
	positiveIntPattern = `^[1-9]\d*$`
	nonNegIntPattern   = `^(0|[1-9]\d*)$`
)

var variantSchemas = map[models.ResponseType]map[string]interface{}{
	models.ResponseTypeTransaction: {
		"type": "object",
		"properties": map[string]interface{}{
			"headerDatetime": map[string]interface{}{"type": "string", "minLength": 1},
			"action":         map[string]interface{}{"type": "string", "enum": actionEnum},
			"actionDate":     map[string]interface{}{"type": "string", "pattern": isoDatePattern},
			"amount":         map[string]interface{}{"type": "string", "pattern": decimalPattern},
			"id":             map[string]interface{}{"type": "string", "minLength": 1},
			"dueDate":        map[string]interface{}{"type": "string", "pattern": optionalISODate},
		},
	},
	models.ResponseTypeRepayment: {
		"type": "object",
		"properties": map[string]interface{}{
			"headerDatetime":   map[string]interface{}{"type": "string", "minLength": 1},
			"actionDate":       map[string]interface{}{"type": "string", "pattern": isoDatePattern},
			"amount":           map[string]interface{}{"type": "string", "pattern": decimalPattern},
			"id":               map[string]interface{}{"type": "string", "minLength": 1},
			"dueDate":          map[string]interface{}{"type": "string", "pattern": optionalISODate},
			"liquidationSeq":   map[string]interface{}{"type": "string", "pattern": positiveIntPattern},
			"finalLiquidation": map[string]interface{}{"type": "string", "enum": []interface{}{"Y", "N"}},
		},
	},
	models.ResponseTypeExposure: {
		"type": "object",
		"properties": map[string]interface{}{
			"headerDatetime":    map[string]interface{}{"type": "string", "minLength": 1},
			"bankCustomerCode":  map[string]interface{}{"type": "string", "minLength": 1},
			"exposureLimit":     map[string]interface{}{"type": "string", "pattern": positiveIntPattern},
			"exposureUtilized":  map[string]interface{}{"type": "string", "pattern": nonNegIntPattern},
			"exposureRemaining": map[string]interface{}{"type": "string", "pattern": nonNegIntPattern},
			"actionTimestamp":   map[string]interface{}{"type": "string", "minLength": 1},
			"expiryDate":        map[string]interface{}{"type": "string", "pattern": isoDatePattern},
		},
	},
}

func checkSchema(responseType models.ResponseType, form models.ResponseFormData) []errs.FieldError {
	schemaMap, ok := variantSchemas[responseType]
	if !ok {
		return []errs.FieldError{{Field: "responseType", Message: "unknown response type"}}
	}

	schemaLoader := gojsonschema.NewGoLoader(schemaMap)
	documentLoader := gojsonschema.NewGoLoader(form)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return []errs.FieldError{{Field: "form", Message: err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	fieldErrors := make([]errs.FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return fieldErrors
}
