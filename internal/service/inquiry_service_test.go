package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jhs/backend/internal/repository/memrepo"
)

func TestSubmitInquiryNotifiesOwner(t *testing.T) {
	db := memrepo.New()
	sender := &recordingSender{}
	svc := NewInquiryService(db.Inquiries(), sender, testConfig(), nopLog)

	result, err := svc.Submit(context.Background(), InquiryInput{
		Name:        "Abebe",
		Email:       "abebe@example.com",
		Phone:       "+251 900 000 000",
		ProjectType: "Commercial",
		Message:     "Need a warehouse.",
	})
	require.NoError(t, err)
	assert.True(t, result.Notified)
	assert.NoError(t, result.NotifyErr)
	require.NotNil(t, result.Inquiry.Phone)

	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "owner@jhs.example", sent[0].To)
	assert.Equal(t, "abebe@example.com", sent[0].ReplyTo)
	assert.Equal(t, "New Inquiry from Abebe", sent[0].Subject)
}

func TestSubmitInquiryStoresBareAddress(t *testing.T) {
	db := memrepo.New()
	sender := &recordingSender{}
	svc := NewInquiryService(db.Inquiries(), sender, testConfig(), nopLog)

	result, err := svc.Submit(context.Background(), InquiryInput{Name: "Bob", Email: "Bob <bob@x.com>", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", result.Inquiry.Email)

	stored, err := db.Inquiries().List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "bob@x.com", stored[0].Email)

	require.Len(t, sender.messages(), 1)
	assert.Equal(t, "bob@x.com", sender.messages()[0].ReplyTo)
}

func TestSubmitInquiryPersistsWhenMailFails(t *testing.T) {
	db := memrepo.New()
	sender := &recordingSender{err: errSMTPDown}
	svc := NewInquiryService(db.Inquiries(), sender, testConfig(), nopLog)

	result, err := svc.Submit(context.Background(), InquiryInput{Name: "A", Email: "a@example.com", Message: "hi"})
	require.NoError(t, err)
	assert.False(t, result.Notified)
	assert.ErrorIs(t, result.NotifyErr, errSMTPDown)

	count, err := db.Inquiries().Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSubmitInquiryFallsBackToSMTPUser(t *testing.T) {
	cfg := testConfig()
	cfg.Mail.NotifyEmail = ""
	sender := &recordingSender{}
	svc := NewInquiryService(memrepo.New().Inquiries(), sender, cfg, nopLog)

	_, err := svc.Submit(context.Background(), InquiryInput{Name: "A", Email: "a@example.com", Message: "hi"})
	require.NoError(t, err)
	require.Len(t, sender.messages(), 1)
	assert.Equal(t, "smtp-user@jhs.example", sender.messages()[0].To)
}

func TestSubmitInquiryValidation(t *testing.T) {
	db := memrepo.New()
	svc := NewInquiryService(db.Inquiries(), &recordingSender{}, testConfig(), nopLog)

	cases := map[string]InquiryInput{
		"missing name":    {Email: "a@example.com", Message: "hi"},
		"missing email":   {Name: "A", Message: "hi"},
		"missing message": {Name: "A", Email: "a@example.com"},
		"invalid email":   {Name: "A", Email: "not-an-email", Message: "hi"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), input)
			assert.ErrorIs(t, err, ErrInvalidInquiry)
		})
	}

	count, err := db.Inquiries().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
