package responsebuilder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	errs "psb-dashboard/internal/common/errors"
	"psb-dashboard/internal/models"
)

// Context carries the cross-field constraints a single form cannot know
// about itself.
type Context struct {
	// MaxFinanceAmount is the ceiling propagated from the selected
	// invoice's finance-request amount. Empty means no ceiling.
	MaxFinanceAmount string
}

// Validate runs every pre-render check and returns all field errors at
// once. Callers must re-run it immediately before Render and refuse to
// render on any error.
func Validate(responseType models.ResponseType, form models.ResponseFormData, vctx Context) []errs.FieldError {
	return validateAt(responseType, form, vctx, time.Now())
}

func validateAt(responseType models.ResponseType, form models.ResponseFormData, vctx Context, now time.Time) []errs.FieldError {
	var fieldErrors []errs.FieldError

	fieldErrors = append(fieldErrors, checkSchema(responseType, form)...)

	if responseType != models.ResponseTypeExposure {
		if v, err := strconv.ParseFloat(strings.TrimSpace(form.Amount), 64); err == nil && v <= 0 {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: "amount", Message: "Amount must be greater than zero"})
		}
		if msg := checkAmount(form.Amount, vctx.MaxFinanceAmount); msg != "" {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: "amount", Message: msg})
		}
		if msg := checkDueDate(form.DueDate, now); msg != "" {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: "dueDate", Message: msg})
		}
	}

	return fieldErrors
}

// checkAmount enforces the optional finance-request ceiling. Matching
// the original behavior, an unparseable amount or ceiling passes this
// check; format problems are the schema's job.
func checkAmount(amount, ceiling string) string {
	if ceiling == "" {
		return ""
	}
	amountVal, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return ""
	}
	ceilingVal, err := strconv.ParseFloat(strings.TrimSpace(ceiling), 64)
	if err != nil {
		return ""
	}
	if amountVal > ceilingVal {
		return fmt.Sprintf("Amount cannot exceed the finance request amount of ₹%s", formatINR(ceilingVal))
	}
	return ""
}

// checkDueDate requires a supplied due date to be strictly after today,
// compared at day granularity. An absent due date passes.
func checkDueDate(dueDate string, now time.Time) string {
	if dueDate == "" {
		return ""
	}
	due, err := time.ParseInLocation("2006-01-02", dueDate, now.Location())
	if err != nil {
		return "Due date must be a future date"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !due.After(today) {
		return "Due date must be a future date"
	}
	return ""
}

// formatINR renders a number with Indian digit grouping, matching the
// en-IN locale the original messages used: 1234567.5 -> "12,34,567.5".
func formatINR(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	grouped := intPart
	if len(intPart) > 3 {
		head := intPart[:len(intPart)-3]
		tail := intPart[len(intPart)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		grouped = strings.Join(append(groups, tail), ",")
	}

	if neg {
		grouped = "-" + grouped
	}
	if hasFrac {
		grouped += "." + fracPart
	}
	return grouped
}
