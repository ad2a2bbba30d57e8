package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"press_admin/internal/models"

	"go.uber.org/zap"
)

const missingCredentialText = "Please contact admin for password"

var ErrNoContactNumber = errors.New("account has no contact number")

// WelcomeMessage is a composed notification; delivery is up to the caller.
type WelcomeMessage struct {
	Destination string `json:"destination"`
	Body        string `json:"body"`
	Link        string `json:"link"`
}

// MessageSender delivers a text message to a phone number.
type MessageSender interface {
	SendTextMessage(ctx context.Context, phone, message string) error
}

type NotificationService interface {
	Welcome(account *models.Account) (*WelcomeMessage, error)
	SendWelcome(ctx context.Context, account *models.Account) (*WelcomeMessage, error)
}

type notificationService struct {
	businessName string
	countryCode  string
	loginURL     string
	sender       MessageSender
	log          *zap.Logger
}

// NewNotificationService composes welcome messages. sender may be nil when
// no gateway is configured.
func NewNotificationService(businessName, countryCode, loginURL string, sender MessageSender, log *zap.Logger) NotificationService {
	return &notificationService{
		businessName: businessName,
		countryCode:  countryCode,
		loginURL:     loginURL,
		sender:       sender,
		log:          log,
	}
}

// NormalizeContact keeps digits and '+', prefixing countryCode when the
// number has no '+'.
func NormalizeContact(contact, countryCode string) string {
	var b strings.Builder
	for _, r := range contact {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	number := b.String()
	if number == "" {
		return ""
	}
	if !strings.HasPrefix(number, "+") {
		number = countryCode + number
	}
	return number
}

func (s *notificationService) Welcome(account *models.Account) (*WelcomeMessage, error) {
	ref := ResolveProfile(account)
	destination := NormalizeContact(ref.Contact(), s.countryCode)
	if destination == "" {
		return nil, ErrNoContactNumber
	}

	credential := ref.Credential()
	if credential == "" {
		credential = missingCredentialText
	}

	body := fmt.Sprintf(
		"Hello %s, Welcome to %s\n\nHere is Your Login ID: %s\nPassword: %s\nClick on this link to Login: %s",
		account.DisplayName(), s.businessName, account.Username, credential, s.loginURL,
	)

	return &WelcomeMessage{
		Destination: destination,
		Body:        body,
		Link:        fmt.Sprintf("https://wa.me/%s?text=%s", destination, strings.ReplaceAll(url.QueryEscape(body), "+", "%20")),
	}, nil
}

func (s *notificationService) SendWelcome(ctx context.Context, account *models.Account) (*WelcomeMessage, error) {
	msg, err := s.Welcome(account)
	if err != nil {
		return nil, err
	}
	if s.sender == nil {
		return nil, errors.New("whatsapp gateway is not configured")
	}
	if err := s.sender.SendTextMessage(ctx, msg.Destination, msg.Body); err != nil {
		s.log.Error("failed to send welcome message", zap.Uint("account_id", account.ID), zap.Error(err))
		return nil, fmt.Errorf("send welcome message: %w", err)
	}
	s.log.Info("welcome message sent", zap.Uint("account_id", account.ID))
	return msg, nil
}
