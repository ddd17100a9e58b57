package leads

import (
	"context"
	"encoding/json"
	"time"

	"github.com/adbroadcast/website-backend/pkg/db/models"
	"github.com/adbroadcast/website-backend/pkg/enums"
	pkgerrors "github.com/adbroadcast/website-backend/pkg/errors"
	"github.com/adbroadcast/website-backend/pkg/logger"
	"github.com/adbroadcast/website-backend/pkg/metrics"
)

// User-facing messages per intake channel.
const (
	ShopSuccessMessage    = "Request sent successfully."
	ShopFailureMessage    = "Could not save your request at this time."
	ContactSuccessMessage = "Message sent successfully."
	ContactFailureMessage = "Could not send your message at this time."
)

type leadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
}

type notifier interface {
	ShopRequest(ctx context.Context, id uint64, s Submission)
	Contact(ctx context.Context, id uint64, s Submission, message string)
}

// Service records leads and triggers their notifications.
type Service interface {
	SubmitShopRequest(ctx context.Context, s Submission) (*models.Lead, error)
	SubmitContact(ctx context.Context, s Submission) (*models.Lead, error)
}

// ServiceParams groups the dependencies of NewService.
type ServiceParams struct {
	Repo     leadRepository
	Notifier notifier
	Metrics  *metrics.LeadMetrics
	Logger   *logger.Logger
}

type service struct {
	repo     leadRepository
	notifier notifier
	metrics  *metrics.LeadMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService validates params and builds the lead service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead repository required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead notifier required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:     params.Repo,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// SubmitShopRequest validates and stores a shop purchase request, then
// hands it to the notifier.
func (s *service) SubmitShopRequest(ctx context.Context, sub Submission) (*models.Lead, error) {
	source := enums.LeadSourceShop
	if err := ValidateShopRequest(sub); err != nil {
		s.metrics.IncSubmission(source.String(), metrics.OutcomeInvalid)
		return nil, err
	}

	ids := sub.ItemIDs
	if ids == nil {
		ids = []int64{}
	}
	itemsJSON, err := json.Marshal(ids)
	if err != nil {
		s.metrics.IncSubmission(source.String(), metrics.OutcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode item ids")
	}

	lead := newLead(source, sub)
	lead.Message = nullable(sub.Notes)
	lead.ItemsJSON = nullable(string(itemsJSON))

	if err := s.insert(ctx, lead); err != nil {
		return nil, err
	}
	s.notifier.ShopRequest(ctx, lead.ID, sub)
	return lead, nil
}

// SubmitContact validates and stores a contact form message. A subject is
// folded into the stored message.
func (s *service) SubmitContact(ctx context.Context, sub Submission) (*models.Lead, error) {
	source := enums.LeadSourceContact
	if err := ValidateContact(sub); err != nil {
		s.metrics.IncSubmission(source.String(), metrics.OutcomeInvalid)
		return nil, err
	}

	message := sub.Message
	if sub.Subject != "" {
		message = "Subject: " + sub.Subject + "\n\n" + sub.Message
	}

	lead := newLead(source, sub)
	lead.Message = &message

	if err := s.insert(ctx, lead); err != nil {
		return nil, err
	}
	s.notifier.Contact(ctx, lead.ID, sub, message)
	return lead, nil
}

func (s *service) insert(ctx context.Context, lead *models.Lead) error {
	source := lead.Source.String()
	start := s.now()
	err := s.repo.Create(ctx, lead)
	s.metrics.ObserveInsert(source, time.Since(start))
	if err != nil {
		s.metrics.IncSubmission(source, metrics.OutcomeFailed)
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert lead")
	}
	s.metrics.IncSubmission(source, metrics.OutcomeAccepted)
	s.logg.Info(s.logg.WithLead(ctx, lead.ID, source), "lead.created")
	return nil
}

func newLead(source enums.LeadSource, sub Submission) *models.Lead {
	return &models.Lead{
		Source:           source,
		Name:             sub.Name,
		Email:            sub.Email,
		Phone:            nullable(sub.Phone),
		Company:          nullable(sub.Company),
		Country:          nullable(sub.Country),
		ContactMethod:    nullable(sub.ContactMethod),
		DeliveryLocation: nullable(sub.DeliveryLocation),
		Status:           enums.LeadStatusNew,
	}
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// SuccessMessage returns the confirmation shown for source.
func SuccessMessage(source enums.LeadSource) string {
	if source == enums.LeadSourceContact {
		return ContactSuccessMessage
	}
	return ShopSuccessMessage
}

// FailureMessage returns the generic message shown when a lead of source
// could not be stored.
func FailureMessage(source enums.LeadSource) string {
	if source == enums.LeadSourceContact {
		return ContactFailureMessage
	}
	return ShopFailureMessage
}
