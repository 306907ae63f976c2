package synthesizeplan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"govmate-workers/internal/agent"
	"govmate-workers/internal/common/logger"
	"govmate-workers/internal/common/metrics"
)

const (
	TaskType = "synthesize-plan"
)

var (
	ErrMissingIntent    = errors.New("MISSING_INTENT")
	ErrAuditWriteFailed = errors.New("AUDIT_WRITE_FAILED")
)

type Handler struct {
	config   *Config
	db       *sql.DB
	planner  *agent.Planner
	catalog  *agent.RulecardCatalog
	recorder *agent.AuditRecorder
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		db:       db,
		planner:  agent.NewPlanner(),
		catalog:  agent.DefaultRulecardCatalog(),
		recorder: agent.NewAuditRecorder(),
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
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
		errorCode := "SYNTHESIS_FAILED"
		retries := int32(0)
		if errors.Is(err, ErrMissingIntent) {
			errorCode = "MISSING_INTENT"
		} else if errors.Is(err, ErrAuditWriteFailed) {
			errorCode = "AUDIT_WRITE_FAILED"
			retries = 3
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	metrics.PlansSynthesized.WithLabelValues(output.Plan.Intent).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	if strings.TrimSpace(input.Intent.Intent) == "" {
		return nil, fmt.Errorf("%w: intent is required", ErrMissingIntent)
	}

	start := time.Now()

	rulecard := h.catalog.Get(input.Intent.Intent)
	plan := h.planner.CreatePlan(input.Intent, input.Services, input.SeifaContext, input.LabourContext, rulecard)
	audit := h.recorder.AuditPlan(input.Query, plan)

	if h.config.PersistAudit && h.db != nil {
		if err := h.persistAudit(ctx, audit); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuditWriteFailed, err)
		}
	}

	return &Output{
		Plan:          plan,
		Audit:         audit,
		SynthesisTime: time.Since(start).Milliseconds(),
	}, nil
}

func (h *Handler) persistAudit(ctx context.Context, audit agent.AuditRecord) error {
	record, err := json.Marshal(audit)
	if err != nil {
		return err
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO plan_audit (recorded_at, user_input, intent, services_found, record)
		VALUES ($1, $2, $3, $4, $5)`,
		audit.Timestamp, audit.UserInput, audit.Intent, audit.ServicesFound, record,
	)
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
