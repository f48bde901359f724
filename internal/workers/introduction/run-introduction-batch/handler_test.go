package runintroductionbatch

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/config"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/errors"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/observability"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
	"github.com/saadbelcaidx/connector-os-sub007/internal/records"
)

type MockRecordSource struct {
	mock.Mock
}

func (m *MockRecordSource) Demand(ctx context.Context, segment string) ([]models.DemandRecord, error) {
	args := m.Called(ctx, segment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DemandRecord), args.Error(1)
}

func (m *MockRecordSource) Supply(ctx context.Context, segment, query string) ([]models.SupplyRecord, error) {
	args := m.Called(ctx, segment, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SupplyRecord), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, topicARN, subject string, v interface{}) (string, error) {
	args := m.Called(ctx, topicARN, subject, v)
	return args.String(0), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "introduction-batch-process",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_RunIntroductionBatch",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

func sageDemand() models.DemandRecord {
	return models.DemandRecord{
		Company: "Sage Financial Group",
		Contact: "Hollis Day",
		Email:   "hollis@sagefinancial.com",
		Signals: []models.Signal{{Type: "INC_5000"}, {Type: "GROWTH"}},
		Metadata: models.DemandMetadata{
			NeedsTags:   "acquisition platform transition m&a",
			ProfileTags: "ria fee-only wealth acquisition platform",
			Revenue:     "17.5M",
			Location:    "PA",
		},
	}
}

func quietDemand() models.DemandRecord {
	return models.DemandRecord{Company: "Quiet Co", Contact: "Ann Lee", Email: "ann@quiet.co"}
}

func hightowerSupply() models.SupplyRecord {
	return models.SupplyRecord{
		Company:       "Hightower Advisors",
		Contact:       "Mike Johnson",
		Email:         "mike.johnson@hightoweradvisors.com",
		Capability:    "RIA acquisition platform transitions wealth management",
		TargetProfile: "fee-only RIA wealth management ria",
		Metadata: models.SupplyMetadata{
			TargetRevenueRange: "10-50",
			TargetRegions:      "nationwide PA",
		},
	}
}

func createValidConfig() *Config {
	return &Config{
		Enabled:        true,
		MaxJobsActive:  1,
		Timeout:        time.Minute,
		SummaryEnabled: true,
		TopicARN:       "arn:aws:sns:us-east-1:123456789012:intro-batches",
	}
}

func newTestHandler(t *testing.T, source RecordSource, publisher SummaryPublisher, obs *observability.Observability) *Handler {
	h, err := NewHandler(HandlerOptions{
		CustomConfig:  createValidConfig(),
		Logger:        logger.NewTestLogger(t),
		Records:       source,
		Publisher:     publisher,
		Observability: obs,
	})
	require.NoError(t, err)
	return h
}

func TestHandler_NewHandler(t *testing.T) {
	source := new(MockRecordSource)

	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr string
	}{
		{
			name: "valid configuration",
			opts: HandlerOptions{CustomConfig: createValidConfig(), Records: source},
		},
		{
			name:    "missing record source",
			opts:    HandlerOptions{CustomConfig: createValidConfig()},
			wantErr: "requires a record source",
		},
		{
			name: "summary without topic",
			opts: HandlerOptions{
				CustomConfig: &Config{Enabled: true, MaxJobsActive: 1, Timeout: time.Minute, SummaryEnabled: true},
				Records:      source,
			},
			wantErr: "topic_arn is required",
		},
		{
			name: "invalid timeout",
			opts: HandlerOptions{
				CustomConfig: &Config{Enabled: true, MaxJobsActive: 1},
				Records:      source,
			},
			wantErr: "timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TaskType, h.GetTaskType())
		})
	}
}

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t, new(MockRecordSource), nil, nil)

	tests := []struct {
		name      string
		variables map[string]interface{}
		want      *Input
		wantErr   bool
	}{
		{
			name: "all fields",
			variables: map[string]interface{}{
				"demandSegment": "wealth-demand",
				"supplySegment": "wealth-supply",
				"supplyQuery":   "acquisition",
				"notify":        true,
			},
			want: &Input{DemandSegment: "wealth-demand", SupplySegment: "wealth-supply", SupplyQuery: "acquisition", Notify: true},
		},
		{
			name:      "required only",
			variables: map[string]interface{}{"demandSegment": "a", "supplySegment": "b"},
			want:      &Input{DemandSegment: "a", SupplySegment: "b"},
		},
		{
			name:      "missing supply segment",
			variables: map[string]interface{}{"demandSegment": "a"},
			wantErr:   true,
		},
		{
			name:      "empty demand segment",
			variables: map[string]interface{}{"demandSegment": "", "supplySegment": "b"},
			wantErr:   true,
		},
		{
			name:      "notify of wrong type",
			variables: map[string]interface{}{"demandSegment": "a", "supplySegment": "b", "notify": "yes"},
			wantErr:   true,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.parseInput(createMockJob(int64(i+1), tt.variables))
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeValidationFailed, errors.AsStandardError(err).Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, input)
		})
	}
}

func TestService_ExecuteBatch(t *testing.T) {
	source := new(MockRecordSource)
	source.On("Demand", mock.Anything, "wealth").Return([]models.DemandRecord{sageDemand(), quietDemand()}, nil)
	source.On("Supply", mock.Anything, "advisors", "acquisition").Return([]models.SupplyRecord{hightowerSupply()}, nil)

	publisher := new(MockPublisher)
	publisher.On("PublishJSON", mock.Anything, createValidConfig().TopicARN, summarySubject, mock.MatchedBy(func(s Summary) bool {
		return s.Total == 2 && s.Composed == 1 && s.DropReasons["NO_EDGE"] == 1
	})).Return("msg-1", nil)

	recorder := tracetest.NewSpanRecorder()
	obs := observability.New("batch-test", observability.WithRegisterer(promclient.NewRegistry()), observability.WithSpanProcessor(recorder))
	defer obs.Shutdown()

	h := newTestHandler(t, source, publisher, obs)
	output, err := h.Execute(context.Background(), &Input{
		DemandSegment: "wealth",
		SupplySegment: "advisors",
		SupplyQuery:   "acquisition",
		Notify:        true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, output.BatchID)
	assert.Equal(t, 2, output.Total)
	assert.Equal(t, 1, output.Composed)
	assert.Equal(t, 1, output.Dropped)
	assert.Equal(t, 1, output.DropReasons["NO_EDGE"])
	assert.Equal(t, 0, output.DropReasons["POLICY_VIOLATION"])
	require.Len(t, output.Introductions, 1)
	assert.Equal(t, "hollis@sagefinancial.com", output.Introductions[0].DemandIntro.To)
	assert.Equal(t, "msg-1", output.SummaryMessageID)

	vars := output.ToVariables()
	assert.Equal(t, "msg-1", vars["batchSummaryMessageId"])
	assert.Equal(t, 2, vars["batchTotal"])

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "introduction.batch", ended[0].Name())

	source.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestService_NoSummaryWithoutNotify(t *testing.T) {
	source := new(MockRecordSource)
	source.On("Demand", mock.Anything, "wealth").Return([]models.DemandRecord{quietDemand()}, nil)
	source.On("Supply", mock.Anything, "advisors", "").Return([]models.SupplyRecord{}, nil)
	publisher := new(MockPublisher)

	output, err := newTestHandler(t, source, publisher, nil).Execute(context.Background(), &Input{
		DemandSegment: "wealth",
		SupplySegment: "advisors",
	})
	require.NoError(t, err)
	assert.Empty(t, output.SummaryMessageID)
	assert.Empty(t, output.Introductions)
	publisher.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Errors(t *testing.T) {
	t.Run("supply load failure", func(t *testing.T) {
		source := new(MockRecordSource)
		source.On("Demand", mock.Anything, "wealth").Return([]models.DemandRecord{sageDemand()}, nil)
		source.On("Supply", mock.Anything, "advisors", "").Return(nil, errors.NewSupplyLoadFailedError("advisors", assert.AnError))

		_, err := newTestHandler(t, source, nil, nil).Execute(context.Background(), &Input{DemandSegment: "wealth", SupplySegment: "advisors"})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeSupplyLoadFailed, errors.AsStandardError(err).Code)
	})

	t.Run("cancelled batch", func(t *testing.T) {
		source := new(MockRecordSource)
		source.On("Demand", mock.Anything, "wealth").Return([]models.DemandRecord{sageDemand(), quietDemand()}, nil)
		source.On("Supply", mock.Anything, "advisors", "").Return([]models.SupplyRecord{hightowerSupply()}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestHandler(t, source, nil, nil).Execute(ctx, &Input{DemandSegment: "wealth", SupplySegment: "advisors"})
		require.Error(t, err)
		stdErr := errors.AsStandardError(err)
		assert.Equal(t, errors.ErrCodeBatchCancelled, stdErr.Code)
		assert.Equal(t, "processed 0 of 2 records", stdErr.Details)
	})

	t.Run("summary publish failure", func(t *testing.T) {
		source := new(MockRecordSource)
		source.On("Demand", mock.Anything, "wealth").Return([]models.DemandRecord{quietDemand()}, nil)
		source.On("Supply", mock.Anything, "advisors", "").Return([]models.SupplyRecord{}, nil)
		publisher := new(MockPublisher)
		publisher.On("PublishJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

		_, err := newTestHandler(t, source, publisher, nil).Execute(context.Background(), &Input{
			DemandSegment: "wealth",
			SupplySegment: "advisors",
			Notify:        true,
		})
		require.Error(t, err)
		stdErr := errors.AsStandardError(err)
		assert.Equal(t, errors.ErrCodeSummaryPublishFailed, stdErr.Code)
		assert.NotEmpty(t, stdErr.Metadata["batchId"])
	})
}

func TestService_WithPostgresProvider(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	signals, _ := json.Marshal(sageDemand().Signals)
	demandMeta, _ := json.Marshal(sageDemand().Metadata)
	supplyMeta, _ := json.Marshal(hightowerSupply().Metadata)
	supply := hightowerSupply()

	mock.ExpectQuery("FROM demand_records").WithArgs("wealth").WillReturnRows(
		sqlmock.NewRows([]string{"domain", "company", "contact", "email", "title", "industry", "signals", "metadata"}).
			AddRow("sagefinancial.com", "Sage Financial Group", "Hollis Day", "hollis@sagefinancial.com", "", "", signals, demandMeta))
	mock.ExpectQuery("FROM supply_records").WithArgs("advisors").WillReturnRows(
		sqlmock.NewRows([]string{"domain", "company", "contact", "email", "title", "capability", "target_profile", "metadata"}).
			AddRow("hightoweradvisors.com", supply.Company, supply.Contact, supply.Email, "", supply.Capability, supply.TargetProfile, supplyMeta))

	provider := records.NewProvider(records.NewPostgresStore(db), records.WithLogger(logger.NewTestLogger(t)))
	output, err := newTestHandler(t, provider, nil, nil).Execute(context.Background(), &Input{DemandSegment: "wealth", SupplySegment: "advisors"})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Composed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appConfig := &config.Config{
		Workers: map[string]config.WorkerConfig{
			"run-introduction-batch": {Enabled: true, MaxJobsActive: 2, Timeout: 600000},
		},
	}
	appConfig.Notifications.Summary.Enabled = true
	appConfig.Notifications.Summary.TopicARN = "arn:topic"

	cfg := createConfigFromAppConfig(appConfig, nil)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 2, cfg.MaxJobsActive)
	assert.Equal(t, 10*time.Minute, cfg.Timeout)
	assert.True(t, cfg.SummaryEnabled)
	assert.Equal(t, "arn:topic", cfg.TopicARN)
	assert.NoError(t, cfg.Validate())
}

func TestGetSchemas(t *testing.T) {
	in := GetInputSchema()
	assert.ElementsMatch(t, []string{"demandSegment", "supplySegment"}, in.Required)
	assert.True(t, in.AdditionalProperties)

	out := GetOutputSchema()
	assert.Contains(t, out.Properties, "introductions")
	assert.Contains(t, out.Properties, "batchDropReasons")
}
