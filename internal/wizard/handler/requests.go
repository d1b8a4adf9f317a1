package handler

import (
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"

	dErrors "visadesk/pkg/domain-errors"
)

const (
	maxFieldsPerRequest = 64
	maxFieldNameLength  = "64"
	maxFieldValueLength = "500"
)

type StartRequest struct {
	ClientID int `json:"clientId"`
}

func (r *StartRequest) Validate() error {
	if r.ClientID < 0 {
		return dErrors.New(dErrors.CodeBadRequest, "clientId must not be negative")
	}
	return nil
}

type SelectVisaRequest struct {
	Code string `json:"code"`
}

func (r *SelectVisaRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	if r.Code == "" {
		return dErrors.New(dErrors.CodeBadRequest, "code is required")
	}
	if !govalidator.StringLength(r.Code, "1", "16") {
		return dErrors.New(dErrors.CodeBadRequest, "code is too long")
	}
	return nil
}

// SetFieldsRequest carries one or more applicant details.
type SetFieldsRequest struct {
	Fields map[string]string `json:"fields"`
}

func (r *SetFieldsRequest) Validate() error {
	if len(r.Fields) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "fields must not be empty")
	}
	if len(r.Fields) > maxFieldsPerRequest {
		return dErrors.New(dErrors.CodeBadRequest, "too many fields")
	}
	for name, value := range r.Fields {
		if !govalidator.StringLength(name, "1", maxFieldNameLength) {
			return dErrors.New(dErrors.CodeBadRequest, "invalid field name")
		}
		if !govalidator.StringLength(value, "0", maxFieldValueLength) {
			return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("%s is longer than %s characters", name, maxFieldValueLength))
		}
	}
	return nil
}
