package composeintroduction

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/config"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/errors"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

type MockSupplyLoader struct {
	mock.Mock
}

func (m *MockSupplyLoader) Supply(ctx context.Context, segment, query string) ([]models.SupplyRecord, error) {
	args := m.Called(ctx, segment, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SupplyRecord), args.Error(1)
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "introduction-process",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_ComposeIntroduction",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

func demandVariable() map[string]interface{} {
	return map[string]interface{}{
		"company": "Sage Financial Group",
		"contact": "Hollis Day",
		"email":   "hollis@sagefinancial.com",
		"signals": []interface{}{
			map[string]interface{}{"type": "INC_5000", "value": 1204},
			map[string]interface{}{"type": "GROWTH"},
		},
		"metadata": map[string]interface{}{
			"needsTags":   "acquisition platform transition m&a",
			"profileTags": "ria fee-only wealth acquisition platform",
			"revenue":     "17.5M",
			"location":    "PA",
			"crmId":       "A-17",
		},
	}
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

func supplyVariable() []interface{} {
	data, _ := json.Marshal([]models.SupplyRecord{hightowerSupply()})
	var out []interface{}
	_ = json.Unmarshal(data, &out)
	return out
}

func createValidConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
	}
}

func newTestHandler(t *testing.T, supply SupplyLoader) *Handler {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: createValidConfig(),
		Logger:       logger.NewTestLogger(t),
		Supply:       supply,
	})
	require.NoError(t, err)
	return h
}

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid configuration",
			opts:    HandlerOptions{CustomConfig: createValidConfig(), Logger: logger.NewNoOpLogger()},
			wantErr: false,
		},
		{
			name:    "defaults from nil app config",
			opts:    HandlerOptions{},
			wantErr: false,
		},
		{
			name: "invalid timeout",
			opts: HandlerOptions{
				CustomConfig: &Config{Enabled: true, MaxJobsActive: 5, Timeout: 0},
			},
			wantErr: true,
			errMsg:  "timeout must be positive",
		},
		{
			name: "invalid max jobs",
			opts: HandlerOptions{
				CustomConfig: &Config{Enabled: true, MaxJobsActive: 0, Timeout: time.Second},
			},
			wantErr: true,
			errMsg:  "max_jobs_active must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := NewHandler(tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, handler)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, handler.service)
			assert.Equal(t, TaskType, handler.GetTaskType())
		})
	}
}

func TestHandler_ParseInput(t *testing.T) {
	handler := newTestHandler(t, nil)

	tests := []struct {
		name      string
		variables map[string]interface{}
		wantErr   bool
		errCode   errors.ErrorCode
		validate  func(t *testing.T, input *Input)
	}{
		{
			name: "inline pool",
			variables: map[string]interface{}{
				"demand":     demandVariable(),
				"supplyPool": supplyVariable(),
				"orderId":    "unrelated process variable",
			},
			validate: func(t *testing.T, input *Input) {
				assert.True(t, input.HasPool)
				assert.Equal(t, "Sage Financial Group", input.Demand.Company)
				assert.Equal(t, "1204", input.Demand.Signals[0].Value)
				assert.Equal(t, "A-17", input.Demand.Metadata.Extra["crmId"])
				require.Len(t, input.SupplyPool, 1)
				assert.Equal(t, "10-50", input.SupplyPool[0].Metadata.TargetRevenueRange)
			},
		},
		{
			name: "explicit empty pool",
			variables: map[string]interface{}{
				"demand":     demandVariable(),
				"supplyPool": []interface{}{},
			},
			validate: func(t *testing.T, input *Input) {
				assert.True(t, input.HasPool)
				assert.Empty(t, input.SupplyPool)
			},
		},
		{
			name: "segment instead of pool",
			variables: map[string]interface{}{
				"demand":        demandVariable(),
				"supplySegment": "wealth",
				"supplyQuery":   "acquisition platform",
			},
			validate: func(t *testing.T, input *Input) {
				assert.False(t, input.HasPool)
				assert.Equal(t, "wealth", input.SupplySegment)
				assert.Equal(t, "acquisition platform", input.SupplyQuery)
			},
		},
		{
			name:      "missing demand",
			variables: map[string]interface{}{"supplyPool": supplyVariable()},
			wantErr:   true,
			errCode:   errors.ErrCodeValidationFailed,
		},
		{
			name:      "neither pool nor segment",
			variables: map[string]interface{}{"demand": demandVariable()},
			wantErr:   true,
			errCode:   errors.ErrCodeValidationFailed,
		},
		{
			name: "demand without signals",
			variables: map[string]interface{}{
				"demand":     map[string]interface{}{"company": "Sage"},
				"supplyPool": supplyVariable(),
			},
			wantErr: true,
			errCode: errors.ErrCodeValidationFailed,
		},
		{
			name: "supply entry of wrong type",
			variables: map[string]interface{}{
				"demand":     demandVariable(),
				"supplyPool": []interface{}{"not a record"},
			},
			wantErr: true,
			errCode: errors.ErrCodeValidationFailed,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := handler.parseInput(createMockJob(int64(i+1), tt.variables))
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.errCode, errors.AsStandardError(err).Code)
				return
			}
			require.NoError(t, err)
			tt.validate(t, input)
		})
	}
}

func TestService_ExecuteComposes(t *testing.T) {
	handler := newTestHandler(t, nil)

	var demand models.DemandRecord
	require.NoError(t, decodeVariable(demandVariable(), &demand))

	output, err := handler.Execute(context.Background(), &Input{
		Demand:     demand,
		SupplyPool: []models.SupplyRecord{hightowerSupply()},
		HasPool:    true,
	})
	require.NoError(t, err)

	_, err = uuid.Parse(output.IntroID)
	assert.NoError(t, err)
	assert.False(t, output.Dropped, "dropped: %s %s", output.DropReason, output.DropDetails)
	assert.Equal(t, "hollis@sagefinancial.com", output.DemandIntroTo)
	assert.Equal(t, "mike.johnson@hightoweradvisors.com", output.SupplyIntroTo)
	assert.Contains(t, output.DemandBody, "Worth an intro?")
	assert.Contains(t, output.SupplyBody, "Worth a look?")
	assert.Equal(t, models.EdgeGrowth, output.EdgeType)
	assert.GreaterOrEqual(t, output.MatchScore, 0.7)

	vars := output.ToVariables()
	assert.Equal(t, false, vars["introDropped"])
	assert.Equal(t, "GROWTH", vars["introEdgeType"])
	assert.NotContains(t, vars, "introDropReason")
}

func TestService_ExecuteDrops(t *testing.T) {
	handler := newTestHandler(t, nil)

	output, err := handler.Execute(context.Background(), &Input{
		Demand:  models.DemandRecord{Company: "Quiet Co", Email: "a@quiet.co"},
		HasPool: true,
	})
	require.NoError(t, err)
	assert.True(t, output.Dropped)
	assert.Equal(t, string(models.DropNoEdge), output.DropReason)

	vars := output.ToVariables()
	assert.Equal(t, true, vars["introDropped"])
	assert.Equal(t, "NO_EDGE", vars["introDropReason"])
	assert.NotContains(t, vars, "demandIntroBody")
}

func TestService_LoadsSupplyBySegment(t *testing.T) {
	loader := new(MockSupplyLoader)
	loader.On("Supply", mock.Anything, "wealth", "").Return([]models.SupplyRecord{hightowerSupply()}, nil)

	handler := newTestHandler(t, loader)

	var demand models.DemandRecord
	require.NoError(t, decodeVariable(demandVariable(), &demand))

	output, err := handler.Execute(context.Background(), &Input{Demand: demand, SupplySegment: "wealth"})
	require.NoError(t, err)
	assert.False(t, output.Dropped)
	loader.AssertExpectations(t)
}

func TestService_SupplyErrors(t *testing.T) {
	t.Run("loader failure", func(t *testing.T) {
		loader := new(MockSupplyLoader)
		loader.On("Supply", mock.Anything, "wealth", "").
			Return(nil, errors.NewSupplyLoadFailedError("wealth", assert.AnError))

		_, err := newTestHandler(t, loader).Execute(context.Background(), &Input{SupplySegment: "wealth"})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeSupplyLoadFailed, errors.AsStandardError(err).Code)
	})

	t.Run("no loader configured", func(t *testing.T) {
		_, err := newTestHandler(t, nil).Execute(context.Background(), &Input{SupplySegment: "wealth"})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeValidationFailed, errors.AsStandardError(err).Code)
	})
}

func TestHandler_ExtractErrorCode(t *testing.T) {
	assert.Equal(t, "VALIDATION_FAILED", extractErrorCode(errors.NewValidationFailedError("bad")))
	assert.Equal(t, "INTERNAL_ERROR", extractErrorCode(assert.AnError))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{MaxJobsActive: 1}).Validate())
	assert.Error(t, (&Config{Timeout: time.Second}).Validate())
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	t.Run("custom config wins", func(t *testing.T) {
		custom := createValidConfig()
		assert.Same(t, custom, createConfigFromAppConfig(&config.Config{}, custom))
	})

	t.Run("worker section", func(t *testing.T) {
		appConfig := &config.Config{
			Workers: map[string]config.WorkerConfig{
				"compose-introduction": {Enabled: false, MaxJobsActive: 20, Timeout: 45000},
			},
		}
		cfg := createConfigFromAppConfig(appConfig, nil)
		assert.False(t, cfg.Enabled)
		assert.Equal(t, 20, cfg.MaxJobsActive)
		assert.Equal(t, 45*time.Second, cfg.Timeout)
	})

	t.Run("missing section keeps defaults", func(t *testing.T) {
		cfg := createConfigFromAppConfig(&config.Config{}, nil)
		assert.Equal(t, DefaultConfig(), cfg)
	})
}

func TestHandler_IsEnabled(t *testing.T) {
	h, err := NewHandler(HandlerOptions{CustomConfig: &Config{Enabled: false, MaxJobsActive: 1, Timeout: time.Second}})
	require.NoError(t, err)
	assert.False(t, h.IsEnabled())
	assert.NoError(t, h.Register())
	assert.Nil(t, h.jobWorker)
}

func TestGetInputSchema(t *testing.T) {
	schema := GetInputSchema()
	assert.Equal(t, []string{"demand"}, schema.Required)
	assert.True(t, schema.AdditionalProperties)
	assert.Contains(t, schema.Properties, "supplyPool")
	assert.Contains(t, schema.Properties, "supplySegment")
}

func TestGetOutputSchema(t *testing.T) {
	schema := GetOutputSchema()
	for _, field := range []string{"introId", "introDropped", "introDropReason", "demandIntroBody", "introMatchScore"} {
		assert.Contains(t, schema.Properties, field)
	}
}
