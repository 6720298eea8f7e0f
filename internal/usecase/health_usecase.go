package usecase

import (
	"context"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/email"
)

type healthUsecase struct {
	emailService *email.EmailService
}

func NewHealthUsecase(emailService *email.EmailService) domain.HealthUsecase {
	return &healthUsecase{emailService: emailService}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthReport {
	report := domain.HealthReport{Status: "ok", Mail: "configured"}
	if u.emailService == nil || !u.emailService.IsConfigured() {
		report.Mail = "unconfigured"
	}
	return report
}
