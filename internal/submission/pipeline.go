// Package submission orchestrates the public submit contract (§4.4), the
// C4 component: rate-limit → load → parse → sanitize → validate → quota →
// persist. Its only data access is through dbrpc.Querier.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/formgate/gateway/internal/apierrors"
	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/logger"
	"github.com/formgate/gateway/internal/logic"
	"github.com/formgate/gateway/internal/reqctx"
	"github.com/formgate/gateway/internal/schema"
	"github.com/formgate/gateway/internal/validate"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func isUUID(s string) bool { return uuidPattern.MatchString(s) }

// Request bundles everything the HTTP layer extracted for one submit call.
type Request struct {
	FormID             string
	IdempotencyKeyHeader string
	Body               []byte
	RC                 reqctx.RequestContext
}

// Result is the success body for §6.1's 201 response.
type Result struct {
	SubmissionID   string  `json:"submission_id"`
	SuccessMessage string  `json:"success_message"`
	RedirectURL    *string `json:"redirect_url"`
}

type submitBody struct {
	Data      json.RawMessage `json:"data"`
	StartedAt *string         `json:"started_at"`
}

// Pipeline holds the dependency every step needs.
type Pipeline struct {
	Querier dbrpc.Querier
}

func New(q dbrpc.Querier) *Pipeline {
	return &Pipeline{Querier: q}
}

// Submit runs the full §4.4 contract. The returned *apierrors.APIError, if
// non-nil, is ready to hand to apierrors.Respond.
func (p *Pipeline) Submit(ctx context.Context, req Request) (*Result, *apierrors.APIError) {
	log := logger.For(logger.ComponentSubmission)

	// Step 1: header/body validation.
	if !isUUID(req.FormID) {
		return nil, apierrors.BadRequestFieldValidation("form id must be a UUID")
	}
	if !isUUID(req.IdempotencyKeyHeader) {
		return nil, apierrors.BadRequestFieldValidation("Idempotency-Key header must be a UUID")
	}

	dec := json.NewDecoder(bytes.NewReader(req.Body))
	dec.DisallowUnknownFields()
	var body submitBody
	if err := dec.Decode(&body); err != nil {
		return nil, apierrors.BadRequestFieldValidation("request body is malformed or contains unknown fields")
	}
	if body.Data == nil {
		return nil, apierrors.BadRequestFieldValidation("\"data\" is required")
	}
	var data map[string]any
	if err := json.Unmarshal(body.Data, &data); err != nil {
		return nil, apierrors.BadRequestFieldValidation("\"data\" must be an object")
	}

	var startedAt *time.Time
	if body.StartedAt != nil {
		t, err := time.Parse(time.RFC3339, *body.StartedAt)
		if err != nil {
			return nil, apierrors.BadRequestFieldValidation("\"started_at\" must be an ISO-8601 timestamp with offset")
		}
		startedAt = &t
	}

	// Step 2: rate limit.
	allowed, err := p.Querier.CheckRequest(ctx, req.FormID, req.RC.ClientIP)
	if err != nil {
		log.Error("check_request failed", zap.Error(err), zap.String("correlation_id", req.RC.CorrelationID))
		return nil, apierrors.RateLimitCheckFailed()
	}
	if !allowed {
		return nil, apierrors.RateLimited()
	}

	// Step 3: load form.
	form, err := p.Querier.GetPublishedFormByID(ctx, req.FormID)
	if err != nil {
		log.Error("get_published_form_by_id failed", zap.Error(err), zap.String("correlation_id", req.RC.CorrelationID))
		return nil, apierrors.Internal("RUNNER_INTERNAL_ERROR", "failed to load form")
	}
	if form == nil {
		return nil, apierrors.NotFound("form not found")
	}

	// Step 4: parse contract.
	var schemaRaw any
	if err := json.Unmarshal(form.PublishedSchema, &schemaRaw); err != nil {
		return nil, apierrors.UnsupportedFormSchema([]string{"published schema is not valid JSON"})
	}
	contract, parseErr := schema.Parse(schemaRaw)
	if parseErr != nil {
		return nil, apierrors.UnsupportedFormSchema(parseErr.Issues)
	}

	// Step 5: sanitize — compute visibility, drop hidden keys, reject
	// unknown keys.
	visible := logic.Visibility(contract, data)
	var unknownFields []string
	sanitized := make(map[string]any, len(data))
	for key, value := range data {
		if _, known := contract.Fields[key]; !known {
			unknownFields = append(unknownFields, key)
			continue
		}
		if visible[key] {
			sanitized[key] = value
		}
	}
	if len(unknownFields) > 0 {
		return nil, apierrors.FieldValidationFailed([]validate.Issue{}).WithContext(map[string]interface{}{"unknown_fields": unknownFields})
	}

	// Step 6: validate visible values.
	if issues := validate.Values(contract, visible, sanitized); len(issues) > 0 {
		return nil, apierrors.FieldValidationFailed(issues)
	}

	// Step 7: quota check.
	quota, err := p.Querier.GetFormSubmissionQuota(ctx, form.WorkspaceID)
	if err != nil {
		log.Error("get_form_submission_quota failed", zap.Error(err), zap.String("correlation_id", req.RC.CorrelationID))
		return nil, apierrors.Internal("RUNNER_INTERNAL_ERROR", "failed to check submission quota")
	}
	if quota != nil {
		if !quota.IsEnabled {
			return nil, apierrors.PlanFeatureDisabled(quota.FeatureKey, "")
		}
		if quota.LimitValue >= 0 && quota.CurrentUsage >= quota.LimitValue {
			return nil, apierrors.PlanLimitExceeded(quota.FeatureKey, quota.CurrentUsage, quota.LimitValue, "")
		}
	}

	// Step 8: persist.
	sanitizedJSON, err := json.Marshal(sanitized)
	if err != nil {
		return nil, apierrors.Internal("RUNNER_INTERNAL_ERROR", "failed to encode submission")
	}
	submissionID, rpcErr, err := p.Querier.SubmitForm(ctx, dbrpc.SubmitFormParams{
		FormID:         req.FormID,
		Data:           sanitizedJSON,
		IdempotencyKey: req.IdempotencyKeyHeader,
		IP:             req.RC.ClientIP,
		UserAgent:      req.RC.UserAgent,
		Referer:        req.RC.Referer,
		StartedAt:      startedAt,
	})
	if err != nil {
		log.Error("submit_form failed", zap.Error(err), zap.String("correlation_id", req.RC.CorrelationID))
		return nil, apierrors.Internal("RUNNER_INTERNAL_ERROR", "failed to submit form")
	}
	if rpcErr != nil {
		return nil, mapSubmitRPCError(rpcErr)
	}

	// Step 9: success.
	return &Result{
		SubmissionID:   submissionID,
		SuccessMessage: form.SuccessMessage,
		RedirectURL:    form.RedirectURL,
	}, nil
}

func mapSubmitRPCError(rpcErr *dbrpc.RPCError) *apierrors.APIError {
	switch rpcErr.Code {
	case "P0002":
		return apierrors.NotFound("form not found")
	case "42501":
		return apierrors.Forbidden("FORBIDDEN", "not permitted to submit to this form")
	case "P0003", "P0004", "P0005", "P0006", "P0007", "P0008":
		return apierrors.Conflict("FORM_STATE_CONFLICT", "Form state conflict")
	default:
		return apierrors.Internal("RUNNER_INTERNAL_ERROR", "failed to submit form")
	}
}

// Recover converts a panic into the stable §4.4 internal-error envelope.
// Call from the HTTP handler's deferred recover.
func Recover() *apierrors.APIError {
	return &apierrors.APIError{
		Status:  http.StatusInternalServerError,
		Message: "Failed to submit form",
		Code:    "RUNNER_INTERNAL_ERROR",
	}
}
