package usecase

import (
	"context"
	"fmt"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type contactUsecase struct {
	emailService *email.EmailService
	validate     *validator.Validate
	log          *zap.Logger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(emailService *email.EmailService, validate *validator.Validate, log *zap.Logger) domain.ContactUsecase {
	return &contactUsecase{
		emailService: emailService,
		validate:     validate,
		log:          log,
	}
}

// SendContactMessage validates the contact request and sends both emails.
//
// The notification is sent before the confirmation and the two are not
// atomic: if the confirmation fails the owner has already been notified,
// yet the caller still gets an error. Retrying re-sends the notification.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	if err := uc.validate.Struct(req); err != nil {
		uc.log.Info("Contact submission rejected",
			zap.Strings("missing_fields", validation.MissingFields(err)))
		return domain.ErrMissingFields
	}

	data := email.ContactEmailData{
		SenderName:  req.Name,
		SenderEmail: req.Email,
		Message:     req.Message,
	}

	if err := uc.emailService.SendNotification(ctx, data); err != nil {
		return fmt.Errorf("notification email: %w", err)
	}

	if err := uc.emailService.SendConfirmation(ctx, data); err != nil {
		uc.log.Warn("Confirmation email failed after owner was notified",
			zap.String("submitter", req.Email),
			zap.Error(err))
		return fmt.Errorf("confirmation email: %w", err)
	}

	uc.log.Info("Contact emails sent", zap.String("submitter", req.Email))
	return nil
}
