package geocodeaddress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	httpclient "govmate-workers/internal/common/http"
	"govmate-workers/internal/common/logger"
	"govmate-workers/internal/common/metrics"
)

const (
	TaskType = "geocode-address"
)

var (
	ErrGeocodeFailed   = errors.New("GEOCODE_FAILED")
	ErrGeocodeTimeout  = errors.New("GEOCODE_TIMEOUT")
	ErrAddressNotFound = errors.New("ADDRESS_NOT_FOUND")
	ErrEmptyAddress    = errors.New("EMPTY_ADDRESS")
)

type Handler struct {
	config *Config
	http   *httpclient.Client
	cache  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, cache *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		http:   httpclient.NewClient(config.Timeout),
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
		errorCode := "GEOCODE_FAILED"
		retries := int32(3)
		if errors.Is(err, ErrGeocodeTimeout) {
			errorCode = "GEOCODE_TIMEOUT"
			retries = 2
		} else if errors.Is(err, ErrAddressNotFound) {
			errorCode = "ADDRESS_NOT_FOUND"
			retries = 0
		} else if errors.Is(err, ErrEmptyAddress) {
			errorCode = "EMPTY_ADDRESS"
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

	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrEmptyAddress)
	}

	cacheKey := "geocode:" + strings.ToLower(address)
	if output, ok := h.cacheGet(ctx, cacheKey); ok {
		metrics.GeocodeCacheLookups.WithLabelValues("hit").Inc()
		return output, nil
	}
	metrics.GeocodeCacheLookups.WithLabelValues("miss").Inc()

	output, err := h.lookup(ctx, address)
	if err != nil {
		return nil, err
	}

	h.cacheSet(ctx, cacheKey, output)
	return output, nil
}

func (h *Handler) lookup(ctx context.Context, address string) (*Output, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&countrycodes=au&limit=1",
		strings.TrimRight(h.config.BaseURL, "/"), url.QueryEscape(address))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}
	req.Header.Set("User-Agent", h.config.UserAgent)

	res, err := h.http.DoWithContext(ctx, req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %s", ErrGeocodeTimeout, address)
		}
		return nil, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrGeocodeFailed, res.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGeocodeFailed, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAddressNotFound, address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad latitude %q", ErrGeocodeFailed, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad longitude %q", ErrGeocodeFailed, results[0].Lon)
	}

	return &Output{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: results[0].DisplayName,
	}, nil
}

func (h *Handler) cacheGet(ctx context.Context, key string) (*Output, bool) {
	if h.cache == nil {
		return nil, false
	}

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
		return nil, false
	}
	output.CacheHit = true
	return &output, true
}

func (h *Handler) cacheSet(ctx context.Context, key string, output *Output) {
	if h.cache == nil {
		return
	}

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
