package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/rakadenta/wholesale-catalog/app/repositories"
)

// ProfileInput is the contact form attached to an interest submission.
type ProfileInput struct {
	FirstName    string `validate:"required"`
	LastName     string `validate:"required"`
	Phone        string `validate:"required"`
	BusinessName string
	Street       string
	City         string
	State        string
	Zipcode      string
}

// InterestResult is what the client needs to open the drafted inquiry.
type InterestResult struct {
	MailtoURL string      `json:"mailtoUrl"`
	Subject   string      `json:"subject"`
	Body      string      `json:"body"`
	Profile   models.User `json:"profile"`
}

// InterestService turns a selection into a drafted email: it persists the
// merchant profile (lazily, only here), drafts the message through the
// assist collaborator or its fallback, and sends the supplier a copy.
type InterestService struct {
	users         repositories.UserRepositoryImpl
	assist        AssistClient
	mailer        *Mailer
	supplierEmail string
	validate      *validator.Validate
}

func NewInterestService(users repositories.UserRepositoryImpl, assist AssistClient, mailer *Mailer, supplierEmail string) *InterestService {
	return &InterestService{
		users:         users,
		assist:        assist,
		mailer:        mailer,
		supplierEmail: supplierEmail,
		validate:      validator.New(),
	}
}

func (s *InterestService) Submit(ctx context.Context, profile *models.User, input ProfileInput, items []models.InterestItem) (*InterestResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no products selected")
	}

	profile.FirstName = input.FirstName
	profile.LastName = input.LastName
	profile.Phone = input.Phone
	profile.BusinessName = input.BusinessName
	profile.Street = input.Street
	profile.City = input.City
	profile.State = input.State
	profile.Zipcode = input.Zipcode

	// This is the one place a profile gets persisted.
	if err := s.users.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	draft, err := s.assist.DraftEmail(ctx, profile, items)
	if err != nil {
		log.Printf("interest: draft via collaborator failed, using fallback: %v", err)
		fallback := &fallbackAssist{}
		draft, err = fallback.DraftEmail(ctx, profile, items)
		if err != nil {
			return nil, err
		}
	}

	if s.mailer != nil && s.supplierEmail != "" {
		// Best effort; the mailto draft is the primary channel.
		if err := s.mailer.SendPlainEmail(s.supplierEmail, draft.Subject, draft.Body); err != nil {
			log.Printf("interest: failed to send supplier copy: %v", err)
		}
	}

	return &InterestResult{
		MailtoURL: BuildMailtoURL(s.supplierEmail, draft.Subject, draft.Body),
		Subject:   draft.Subject,
		Body:      draft.Body,
		Profile:   *profile,
	}, nil
}

// BuildMailtoURL composes a mailto: link with URL-encoded subject and body.
// QueryEscape turns spaces into '+', which mail clients do not decode, so
// they are rewritten as %20.
func BuildMailtoURL(to, subject, body string) string {
	escape := func(s string) string {
		return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	}
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", to, escape(subject), escape(body))
}
