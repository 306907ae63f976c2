package queryservicedata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"govmate-workers/internal/common/logger"
	"govmate-workers/internal/common/metrics"
	"govmate-workers/internal/models"
	"govmate-workers/internal/workers/data-access/query-service-data/queries"
)

const (
	TaskType = "query-service-data"
)

var (
	ErrDatabaseConnectionFailed = errors.New("DATABASE_CONNECTION_FAILED")
	ErrQueryExecutionFailed     = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout             = errors.New("QUERY_TIMEOUT")
	ErrInvalidQueryType         = errors.New("INVALID_QUERY_TYPE")
)

type Handler struct {
	config *Config
	db     *sql.DB
	cache  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, cache *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		errorCode := "QUERY_EXECUTION_FAILED"
		retries := int32(0)
		if errors.Is(err, ErrQueryTimeout) {
			errorCode = "QUERY_TIMEOUT"
			retries = 2
		} else if errors.Is(err, ErrInvalidQueryType) {
			errorCode = "INVALID_QUERY_TYPE"
			retries = 0
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	queryType := models.QueryType(input.QueryType)
	if _, exists := queries.Registry[queryType]; !exists {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQueryType, input.QueryType)
	}

	if key := h.cacheKey(queryType, input); key != "" {
		if output, ok := h.cacheGet(ctx, key); ok {
			return output, nil
		}
	}

	params := make(map[string]interface{})
	switch queryType {
	case models.QueryTypeServicesNearby:
		params["latitude"] = input.Latitude
		params["longitude"] = input.Longitude
		if input.RadiusKm > 0 {
			params["radiusKm"] = input.RadiusKm
		}
		if input.Category != "" {
			params["category"] = input.Category
		}
		if input.Limit > 0 {
			params["limit"] = input.Limit
		}
	case models.QueryTypeSeifaBySuburb:
		params["suburb"] = input.Suburb
	case models.QueryTypeLabourByState:
		params["state"] = input.State
	}

	data, rowCount, execTime, err := queries.Execute(ctx, h.db, queryType, params)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrQueryTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}

	output := &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: execTime,
	}

	if key := h.cacheKey(queryType, input); key != "" {
		h.cacheSet(ctx, key, output)
	}

	return output, nil
}

// cacheKey returns "" for query types that are not cached.
func (h *Handler) cacheKey(queryType models.QueryType, input *Input) string {
	if h.cache == nil {
		return ""
	}
	switch queryType {
	case models.QueryTypeSeifaBySuburb:
		return "context:seifa:" + strings.ToUpper(strings.TrimSpace(input.Suburb))
	case models.QueryTypeLabourByState:
		return "context:labour:" + strings.ToUpper(strings.TrimSpace(input.State))
	default:
		return ""
	}
}

func (h *Handler) cacheGet(ctx context.Context, key string) (*Output, bool) {
	raw, err := h.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			h.logger.Warn("cache read failed", map[string]interface{}{
				"key":   key,
				"error": err,
			})
		}
		return nil, false
	}

	var output Output
	if err := json.Unmarshal([]byte(raw), &output); err != nil {
		h.logger.Warn("cache entry corrupt, ignoring", map[string]interface{}{
			"key": key,
		})
		return nil, false
	}

	output.CacheHit = true
	return &output, true
}

func (h *Handler) cacheSet(ctx context.Context, key string, output *Output) {
	raw, err := json.Marshal(output)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, key, raw, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err,
		})
	}
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
