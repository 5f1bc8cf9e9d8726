package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formgate/gateway/internal/apierrors"
	"github.com/formgate/gateway/internal/submission"
)

// SubmitForm serves POST /api/v1/f/:formId/submit.
//
// @Summary Submit a form
// @Tags runner
// @Accept json
// @Produce json
// @Param formId path string true "Form id"
// @Param Idempotency-Key header string true "Request idempotency key (UUID)"
// @Success 201 {object} submission.Result
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/f/{formId}/submit [post]
func (h *Handler) SubmitForm(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			apierrors.Respond(c, submission.Recover())
		}
	}()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		apierrors.Respond(c, apierrors.BadRequestFieldValidation("failed to read request body"))
		return
	}

	result, apiErr := h.Pipeline.Submit(c.Request.Context(), submission.Request{
		FormID:               c.Param("formId"),
		IdempotencyKeyHeader: c.GetHeader("Idempotency-Key"),
		Body:                 body,
		RC:                   requestContext(c),
	})
	if apiErr != nil {
		apierrors.Respond(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, result)
}
