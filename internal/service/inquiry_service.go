package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jhs/backend/internal/config"
	"jhs/backend/internal/ids"
	mailer "jhs/backend/internal/mail"
	"jhs/backend/internal/models"
)

var ErrInvalidInquiry = errors.New("invalid inquiry")

type InquiryInput struct {
	Name        string
	Email       string
	Phone       string
	ProjectType string
	Message     string
}

// SubmitResult reports a stored inquiry and whether its notification went out.
type SubmitResult struct {
	Inquiry   models.Inquiry
	Notified  bool
	NotifyErr error
}

type InquiryService struct {
	inquiries InquiryStore
	sender    mailer.Sender
	cfg       *config.AppConfig
	log       zerolog.Logger
}

func NewInquiryService(inquiries InquiryStore, sender mailer.Sender, cfg *config.AppConfig, log zerolog.Logger) *InquiryService {
	return &InquiryService{
		inquiries: inquiries,
		sender:    sender,
		cfg:       cfg,
		log:       log,
	}
}

// Submit stores the inquiry and then notifies the site owner. The returned
// error is non-nil only when the inquiry was rejected or could not be stored.
func (s *InquiryService) Submit(ctx context.Context, input InquiryInput) (SubmitResult, error) {
	inquiry, err := buildInquiry(input)
	if err != nil {
		return SubmitResult{}, err
	}

	stored, err := s.inquiries.Create(ctx, inquiry)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("store inquiry: %w", err)
	}

	result := SubmitResult{Inquiry: stored}
	if err := s.notify(ctx, stored); err != nil {
		s.log.Error().Err(err).Str("inquiry_id", stored.ID).Msg("inquiry notification failed")
		result.NotifyErr = err
		return result, nil
	}
	result.Notified = true
	return result, nil
}

func (s *InquiryService) notify(ctx context.Context, inquiry models.Inquiry) error {
	to := s.cfg.Mail.NotifyAddress()
	if to == "" {
		return errors.New("no notification address configured")
	}
	msg, err := mailer.InquiryNotification(inquiry, to)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, msg)
}

func buildInquiry(input InquiryInput) (models.Inquiry, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)
	if name == "" || email == "" || message == "" {
		return models.Inquiry{}, fmt.Errorf("%w: name, email and message are required", ErrInvalidInquiry)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return models.Inquiry{}, fmt.Errorf("%w: email is not valid", ErrInvalidInquiry)
	}

	return models.Inquiry{
		ID:          ids.New(),
		Name:        name,
		Email:       addr.Address,
		Phone:       optionalString(input.Phone),
		ProjectType: optionalString(input.ProjectType),
		Message:     input.Message,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (s *InquiryService) List(ctx context.Context, limit, offset int) ([]models.Inquiry, error) {
	return s.inquiries.List(ctx, limit, offset)
}

func (s *InquiryService) Get(ctx context.Context, id string) (models.Inquiry, error) {
	return s.inquiries.GetByID(ctx, id)
}

func (s *InquiryService) Delete(ctx context.Context, id string) error {
	return s.inquiries.Delete(ctx, id)
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
