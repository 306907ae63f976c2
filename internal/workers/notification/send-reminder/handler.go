package sendreminder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"govmate-workers/internal/common/logger"
	"govmate-workers/internal/common/metrics"
	"govmate-workers/internal/common/validation"
	"govmate-workers/internal/models"
)

const (
	TaskType = "send-reminder"
)

var (
	ErrReminderNotFound   = errors.New("REMINDER_NOT_FOUND")
	ErrReminderSendFailed = errors.New("REMINDER_SEND_FAILED")
	ErrInvalidTarget      = errors.New("INVALID_TARGET")
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	db        *sql.DB
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) (*Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(config.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Handler{
		config:    config,
		db:        db,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "REMINDER_SEND_FAILED"
		retries := int32(3)
		if errors.Is(err, ErrReminderNotFound) {
			errorCode = "REMINDER_NOT_FOUND"
			retries = 0
		} else if errors.Is(err, ErrInvalidTarget) {
			errorCode = "INVALID_TARGET"
			retries = 0
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	if output.Status == StatusSent {
		metrics.RemindersSent.WithLabelValues(output.Channel).Inc()
	}
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	if input.ReminderID == "" {
		return nil, fmt.Errorf("%w: reminderId is required", ErrReminderNotFound)
	}

	reminder, err := h.getReminder(ctx, input.ReminderID)
	if err != nil {
		return nil, err
	}

	if reminder.SentAt != nil {
		return &Output{
			DeliveryID: uuid.New().String(),
			Channel:    reminder.Channel,
			Status:     StatusAlreadySent,
			SentAt:     reminder.SentAt.UTC().Format(time.RFC3339),
		}, nil
	}

	switch reminder.Channel {
	case models.ReminderChannelEmail:
		if !h.config.EmailEnabled {
			return &Output{DeliveryID: uuid.New().String(), Channel: reminder.Channel, Status: StatusDisabled}, nil
		}
		if !validation.ValidateEmail(reminder.Target) {
			return nil, fmt.Errorf("%w: %q is not a valid email address", ErrInvalidTarget, reminder.Target)
		}
		if err := h.sendEmail(ctx, reminder); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReminderSendFailed, err)
		}

	case models.ReminderChannelSMS:
		if !h.config.SMSEnabled {
			return &Output{DeliveryID: uuid.New().String(), Channel: reminder.Channel, Status: StatusDisabled}, nil
		}
		if !validation.ValidatePhone(reminder.Target) {
			return nil, fmt.Errorf("%w: %q is not a valid phone number", ErrInvalidTarget, reminder.Target)
		}
		if err := h.sendSMS(ctx, reminder); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReminderSendFailed, err)
		}

	default:
		return nil, fmt.Errorf("%w: unknown channel %q", ErrInvalidTarget, reminder.Channel)
	}

	sentAt := time.Now().UTC()
	if err := h.markSent(ctx, reminder.ID, sentAt); err != nil {
		return nil, fmt.Errorf("%w: mark sent: %v", ErrReminderSendFailed, err)
	}

	return &Output{
		DeliveryID: uuid.New().String(),
		Channel:    reminder.Channel,
		Status:     StatusSent,
		SentAt:     sentAt.Format(time.RFC3339),
	}, nil
}

func (h *Handler) getReminder(ctx context.Context, id string) (*models.Reminder, error) {
	var r models.Reminder
	var subject sql.NullString
	var sentAt sql.NullTime

	err := h.db.QueryRowContext(ctx, `
		SELECT id, channel, target, subject, message, due_at, sent_at, created_at
		FROM reminders
		WHERE id = $1`, id).Scan(
		&r.ID, &r.Channel, &r.Target, &subject, &r.Message, &r.DueAt, &sentAt, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrReminderNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrReminderSendFailed, err)
	}

	if subject.Valid {
		r.Subject = subject.String
	}
	if sentAt.Valid {
		r.SentAt = &sentAt.Time
	}
	return &r, nil
}

func (h *Handler) markSent(ctx context.Context, id string, sentAt time.Time) error {
	_, err := h.db.ExecContext(ctx,
		`UPDATE reminders SET sent_at = $1 WHERE id = $2`, sentAt, id)
	return err
}

func (h *Handler) sendEmail(ctx context.Context, reminder *models.Reminder) error {
	subject := reminder.Subject
	if subject == "" {
		subject = "Reminder from GovMate"
	}

	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(h.config.FromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{reminder.Target},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(reminder.Message)},
			},
		},
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, reminder *models.Reminder) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(reminder.Target),
		Message:     aws.String(reminder.Message),
	}
	if h.config.SenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(h.config.SenderID),
			},
		}
	}

	_, err := h.snsClient.Publish(ctx, input)
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
