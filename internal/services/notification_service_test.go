package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"press_admin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendTextMessage(ctx context.Context, phone, message string) error {
	args := m.Called(ctx, phone, message)
	return args.Error(0)
}

func TestNormalizeContact(t *testing.T) {
	cases := map[string]string{
		"98000 00001":       "+919800000001",
		"+1 (555) 010-9999": "+15550109999",
		"n/a":               "",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeContact(in, "+91"), in)
	}
}

func customerAccount(contact, credential string) *models.Account {
	return &models.Account{
		ID:       7,
		Username: "AOP0007",
		Role:     models.RoleCustomer,
		CustomerProfile: &models.CustomerProfile{
			ContactNumber:   &contact,
			PlainCredential: credential,
		},
	}
}

func TestWelcomeMessage(t *testing.T) {
	svc := NewNotificationService("Akshardeep Offset Printers ERP", "+91", testLoginURL, nil, zap.NewNop())
	account := customerAccount("9800000001", "Abc!23456789")
	account.FirstName = "Meera"

	msg, err := svc.Welcome(account)
	require.NoError(t, err)

	assert.Equal(t, "+919800000001", msg.Destination)
	assert.Equal(t,
		"Hello Meera, Welcome to Akshardeep Offset Printers ERP\n\nHere is Your Login ID: AOP0007\nPassword: Abc!23456789\nClick on this link to Login: "+testLoginURL,
		msg.Body)
	require.True(t, strings.HasPrefix(msg.Link, "https://wa.me/+919800000001?text="))
	assert.NotContains(t, msg.Link, "+Welcome")

	u, err := url.Parse(msg.Link)
	require.NoError(t, err)
	assert.Equal(t, msg.Body, u.Query().Get("text"))
}

func TestWelcomeMessageFallbacks(t *testing.T) {
	svc := NewNotificationService("ERP", "+91", testLoginURL, nil, zap.NewNop())

	msg, err := svc.Welcome(customerAccount("9800000001", ""))
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "Hello AOP0007,")
	assert.Contains(t, msg.Body, "Password: Please contact admin for password")

	_, err = svc.Welcome(customerAccount("", "x"))
	assert.ErrorIs(t, err, ErrNoContactNumber)
}

func TestSendWelcome(t *testing.T) {
	sender := new(MockSender)
	svc := NewNotificationService("ERP", "+91", testLoginURL, sender, zap.NewNop())
	account := customerAccount("9800000001", "pw")

	sender.On("SendTextMessage", mock.Anything, "+919800000001", mock.AnythingOfType("string")).Return(nil).Once()
	msg, err := svc.SendWelcome(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "+919800000001", msg.Destination)

	sender.On("SendTextMessage", mock.Anything, "+919800000001", mock.Anything).Return(errors.New("gateway down")).Once()
	_, err = svc.SendWelcome(context.Background(), account)
	assert.ErrorContains(t, err, "gateway down")
	sender.AssertExpectations(t)
}

func TestSendWelcomeWithoutGateway(t *testing.T) {
	svc := NewNotificationService("ERP", "+91", testLoginURL, nil, zap.NewNop())

	_, err := svc.SendWelcome(context.Background(), customerAccount("9800000001", "pw"))
	assert.ErrorContains(t, err, "not configured")
}
