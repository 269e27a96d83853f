package core

import (
	"context"
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storefront-account-go/internal/db"
	"storefront-account-go/internal/mailer"
	"storefront-account-go/internal/models"
	"storefront-account-go/internal/session"
)

// supportService implements the SupportService interface.
type supportService struct {
	supportRepo db.SupportRepository
	profileRepo db.ProfileRepository
	mail        mailer.Mailer
	validate    *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewSupportService creates a new SupportService instance. mail may be nil.
func NewSupportService(sr db.SupportRepository, pr db.ProfileRepository, mail mailer.Mailer, logger *zap.Logger) SupportService {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &supportService{
		supportRepo: sr,
		profileRepo: pr,
		mail:        mail,
		validate:    v,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *supportService) profileMobile(ctx context.Context, uid string) (string, error) {
	profile, err := s.profileRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load profile for user '%s': %w", uid, err)
	}
	return strings.TrimSpace(profile.Mobile), nil
}

func (s *supportService) Prefill(ctx context.Context, identity *session.Identity) (*SupportPrefill, error) {
	if identity == nil {
		return &SupportPrefill{}, nil
	}
	mobile, err := s.profileMobile(ctx, identity.UID)
	if err != nil {
		return nil, err
	}
	return &SupportPrefill{Name: identity.DisplayName, Email: identity.Email, Mobile: mobile}, nil
}

// Submit validates and stores a support query. Signed-in users submit with the
// mobile number on their profile; anonymous visitors must provide one.
func (s *supportService) Submit(ctx context.Context, identity *session.Identity, req models.SupportQueryRequest) (*models.SupportQuery, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Mobile = strings.TrimSpace(req.Mobile)
	req.Comment = strings.TrimSpace(req.Comment)

	var userID string
	if identity != nil {
		userID = identity.UID
		if req.Name == "" {
			req.Name = identity.DisplayName
		}
		if req.Email == "" {
			req.Email = identity.Email
		}
		mobile, err := s.profileMobile(ctx, identity.UID)
		if err != nil {
			return nil, err
		}
		req.Mobile = mobile
	}
	if req.Mobile == "" {
		return nil, ErrMobileRequired
	}
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	query := &models.SupportQuery{
		Name:    req.Name,
		Email:   req.Email,
		Mobile:  req.Mobile,
		Comment: req.Comment,
		Status:  models.SupportStatusPending,
		UserID:  userID,
		Source:  models.SupportSourceHelpTab,
	}
	id, err := s.supportRepo.Create(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to submit support query: %w", err)
	}
	query.ID = id
	query.CreatedAt = s.now().UTC()

	s.acknowledge(ctx, query)
	return query, nil
}

func (s *supportService) validateRequest(req models.SupportQueryRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrInvalidSupportQuery, err)
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
	}
	return &ValidationError{Fields: fields}
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	default:
		return "is invalid"
	}
}

func (s *supportService) acknowledge(ctx context.Context, query *models.SupportQuery) {
	if s.mail == nil {
		return
	}
	msg := mailer.Message{
		To:      query.Email,
		Subject: "We received your query",
		Body: fmt.Sprintf("<p>Hi %s,</p><p>Thanks for reaching out. Our team will reply to query #%s soon.</p>",
			html.EscapeString(query.Name), html.EscapeString(shortID(query.ID))),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logger.Warn("Failed to send support acknowledgement", zap.String("queryID", query.ID), zap.Error(err))
	}
}

// ListMine returns the queries submitted with the user's profile mobile, newest first.
func (s *supportService) ListMine(ctx context.Context, identity *session.Identity) ([]*models.SupportQuery, error) {
	if identity == nil {
		return nil, ErrNotSignedIn
	}
	mobile, err := s.profileMobile(ctx, identity.UID)
	if err != nil {
		return nil, err
	}
	if mobile == "" {
		return []*models.SupportQuery{}, nil
	}
	queries, err := s.supportRepo.ListByMobile(ctx, mobile)
	if err != nil {
		return nil, fmt.Errorf("failed to list support queries: %w", err)
	}
	return queries, nil
}
