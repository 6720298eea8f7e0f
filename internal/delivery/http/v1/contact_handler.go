package v1

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	MsgMissingFields = "Missing required fields"
	MsgSendFailed    = "Failed to send email. Please try again."
	MsgSent          = "Email sent successfully!"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required).
// Extra middleware such as rate limiting only wraps the send route.
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, mw ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.POST("/send-email", append(mw, handler.SendEmail)...)
}

// SendEmail godoc
// @Summary      Submit Contact Form
// @Description  Sends a notification mail to the site owner, then a confirmation mail to the submitter.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest     true  "Contact Form Data"
// @Success      200      {object}  response.SuccessResponse
// @Failure      400      {object}  response.ErrorResponse
// @Failure      429      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /send-email [post]
func (h *ContactHandler) SendEmail(c *gin.Context) {
	// Undecodable bodies are faults, not validation errors: they get the
	// same 500 as a failed send.
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.Internal(MsgSendFailed, err))
		return
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), &req); err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			_ = c.Error(apperror.BadRequest(MsgMissingFields))
			return
		}
		_ = c.Error(apperror.Internal(MsgSendFailed, err))
		return
	}

	response.Success(c, http.StatusOK, MsgSent)
}
