package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formgate/gateway/internal/apierrors"
)

type formSchemaView struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	PublishedSchema   any    `json:"published_schema"`
	SuccessMessage    string `json:"success_message"`
	RedirectURL       *string `json:"redirect_url"`
	MetaTitle         string `json:"meta_title"`
	MetaDescription   string `json:"meta_description"`
	MetaImageURL      string `json:"meta_image_url"`
	CaptchaEnabled    bool   `json:"captcha_enabled"`
	CaptchaProvider   string `json:"captcha_provider"`
	RequireAuth       bool   `json:"require_auth"`
	PasswordProtected bool   `json:"password_protected"`
}

// GetFormSchema serves GET /api/v1/f/:formId/schema.
//
// @Summary Fetch a form's published schema
// @Tags runner
// @Produce json
// @Param formId path string true "Form id"
// @Success 200 {object} map[string]formSchemaView
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/f/{formId}/schema [get]
func (h *Handler) GetFormSchema(c *gin.Context) {
	formID := c.Param("formId")

	form, err := h.Querier.GetPublishedFormByID(c.Request.Context(), formID)
	if err != nil {
		apierrors.Respond(c, apierrors.Internal("RUNNER_INTERNAL_ERROR", "failed to load form"))
		return
	}
	if form == nil {
		apierrors.Respond(c, apierrors.NotFound("form not found"))
		return
	}

	var schema any
	_ = json.Unmarshal(form.PublishedSchema, &schema)

	c.JSON(http.StatusOK, gin.H{"form": formSchemaView{
		ID:                form.ID,
		Title:             form.Title,
		Description:       form.Description,
		PublishedSchema:   schema,
		SuccessMessage:    form.SuccessMessage,
		RedirectURL:       form.RedirectURL,
		MetaTitle:         form.MetaTitle,
		MetaDescription:   form.MetaDescription,
		MetaImageURL:      form.MetaImageURL,
		CaptchaEnabled:    form.CaptchaEnabled,
		CaptchaProvider:   form.CaptchaProvider,
		RequireAuth:       form.RequireAuth,
		PasswordProtected: form.PasswordProtected,
	}})
}
