package sendreminder

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"govmate-workers/internal/common/logger"
)

// ==========================
// Mock AWS Clients
// ==========================

type mockSES struct {
	calls int
	err   error
	last  *ses.SendEmailInput
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls++
	m.last = params
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	calls int
	err   error
	last  *sns.PublishInput
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls++
	m.last = params
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		EmailEnabled: true,
		FromEmail:    "noreply@govmate.example.au",
		SMSEnabled:   true,
		SenderID:     "GovMate",
		AWSRegion:    "ap-southeast-2",
	}
}

func createTestHandler(t *testing.T, db *sql.DB, sesMock SESService, snsMock SNSService) *Handler {
	return &Handler{
		config:    createTestConfig(),
		db:        db,
		logger:    logger.NewZapAdapter(zaptest.NewLogger(t)),
		sesClient: sesMock,
		snsClient: snsMock,
	}
}

func reminderColumns() []string {
	return []string{"id", "channel", "target", "subject", "message", "due_at", "sent_at", "created_at"}
}

func expectReminderRow(mock sqlmock.Sqlmock, id, channel, target string, sentAt interface{}) {
	rows := sqlmock.NewRows(reminderColumns()).AddRow(
		id, channel, target, "Appointment reminder",
		"Your Centrelink appointment is tomorrow at 10am.",
		time.Now().Add(time.Hour), sentAt, time.Now().Add(-time.Hour),
	)
	mock.ExpectQuery(`FROM reminders`).WithArgs(id).WillReturnRows(rows)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_EmailReminder(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	expectReminderRow(mock, "rem-1", "email", "citizen@example.com", nil)
	mock.ExpectExec(`UPDATE reminders SET sent_at`).
		WithArgs(sqlmock.AnyArg(), "rem-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	sesMock := &mockSES{}
	handler := createTestHandler(t, db, sesMock, &mockSNS{})

	output, err := handler.Execute(context.Background(), &Input{ReminderID: "rem-1"})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, "email", output.Channel)
	assert.NotEmpty(t, output.DeliveryID)
	assert.NotEmpty(t, output.SentAt)

	assert.Equal(t, 1, sesMock.calls)
	assert.Equal(t, "citizen@example.com", sesMock.last.Destination.ToAddresses[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_SMSReminder(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	expectReminderRow(mock, "rem-2", "sms", "+61400123456", nil)
	mock.ExpectExec(`UPDATE reminders SET sent_at`).
		WithArgs(sqlmock.AnyArg(), "rem-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	snsMock := &mockSNS{}
	handler := createTestHandler(t, db, &mockSES{}, snsMock)

	output, err := handler.Execute(context.Background(), &Input{ReminderID: "rem-2"})
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, "sms", output.Channel)
	assert.Equal(t, 1, snsMock.calls)
	assert.Equal(t, "+61400123456", *snsMock.last.PhoneNumber)
}

func TestHandler_Execute_AlreadySent(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	expectReminderRow(mock, "rem-3", "email", "citizen@example.com", time.Now().Add(-time.Minute))

	sesMock := &mockSES{}
	handler := createTestHandler(t, db, sesMock, &mockSNS{})

	output, err := handler.Execute(context.Background(), &Input{ReminderID: "rem-3"})
	require.NoError(t, err)

	assert.Equal(t, StatusAlreadySent, output.Status)
	assert.Equal(t, 0, sesMock.calls)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_ReminderNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM reminders`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	handler := createTestHandler(t, db, &mockSES{}, &mockSNS{})

	output, err := handler.Execute(context.Background(), &Input{ReminderID: "missing"})
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrReminderNotFound)
}

func TestHandler_Execute_InvalidEmailTarget(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	expectReminderRow(mock, "rem-4", "email", "not-an-email", nil)

	sesMock := &mockSES{}
	handler := createTestHandler(t, db, sesMock, &mockSNS{})

	output, err := handler.Execute(context.Background(), &Input{ReminderID: "rem-4"})
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrInvalidTarget)
	assert.Equal(t, 0, sesMock.calls)
}

func TestHandler_Execute_SendFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	expectReminderRow(mock, "rem-5", "email", "citizen@example.com", nil)

	handler := createTestHandler(t, db, &mockSES{err: errors.New("throttled")}, &mockSNS{})

	output, err := handler.Execute(context.Background(), &Input{ReminderID: "rem-5"})
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrReminderSendFailed)
}

func TestHandler_Execute_UnknownChannel(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	expectReminderRow(mock, "rem-6", "carrier-pigeon", "coop 7", nil)

	handler := createTestHandler(t, db, &mockSES{}, &mockSNS{})

	output, err := handler.Execute(context.Background(), &Input{ReminderID: "rem-6"})
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}
