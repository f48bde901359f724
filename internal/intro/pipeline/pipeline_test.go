package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/composer"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/edge"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/expansion"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/matcher"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/taxonomy"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newPipeline(t *testing.T, opts ...Option) *Pipeline {
	opts = append([]Option{WithLogger(logger.NewTestLogger(t))}, opts...)
	return NewFromTaxonomy(taxonomy.Default(), true, []edge.Option{edge.WithClock(clock)}, opts...)
}

// newLenientPipeline accepts any scored candidate so composition paths can be
// exercised with arbitrary supply records.
func newLenientPipeline() *Pipeline {
	tax := taxonomy.Default()
	return New(
		edge.NewDetector(edge.WithClock(clock)),
		matcher.New(tax, expansion.New(tax, true), matcher.WithThreshold(0)),
		composer.New(tax),
	)
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

func pool() []models.SupplyRecord {
	return []models.SupplyRecord{hightowerSupply()}
}

func TestRun_SageHightower(t *testing.T) {
	res := newPipeline(t).Run(sageDemand(), pool())

	require.True(t, res.IsComposed(), "dropped: %s %s", res.Reason, res.Details)
	out := res.Output

	assert.Equal(t, "hollis@sagefinancial.com", out.DemandIntro.To)
	for _, want := range []string{"Hollis", "Mike Johnson", "Hightower", "Worth an intro?"} {
		assert.Contains(t, out.DemandIntro.Body, want)
	}

	assert.Equal(t, "mike.johnson@hightoweradvisors.com", out.SupplyIntro.To)
	for _, want := range []string{"Mike", "Sage Financial", "Worth a look?"} {
		assert.Contains(t, out.SupplyIntro.Body, want)
	}

	assert.Equal(t, models.EdgeGrowth, out.Payload.Edge.Type)
	assert.Equal(t, "Hightower Advisors", out.Payload.Supply.Company)
	assert.NotEmpty(t, out.Payload.FitReason)
	assert.GreaterOrEqual(t, out.Payload.MatchScore, 0.7)
}

func TestRun_InvalidEmail(t *testing.T) {
	demand := sageDemand()
	demand.Email = "not-an-email"

	res := newPipeline(t).Run(demand, pool())
	assert.True(t, res.Dropped)
	assert.Equal(t, models.DropInvalidEmail, res.Reason)
	assert.Nil(t, res.Output)
}

func TestRun_NoSignals(t *testing.T) {
	demand := sageDemand()
	demand.Signals = []models.Signal{}

	res := newPipeline(t).Run(demand, pool())
	assert.Equal(t, models.DropNoEdge, res.Reason)

	res = newPipeline(t).Run(demand, nil)
	assert.Equal(t, models.DropNoEdge, res.Reason)
}

func TestRun_ContextualOnlyDropsNoEdge(t *testing.T) {
	demand := sageDemand()
	demand.Signals = []models.Signal{{Type: "FUNDING", Value: "$20M", Date: fixedNow.AddDate(0, 0, -30).Format("2006-01-02")}}

	res := newPipeline(t).Run(demand, pool())
	assert.Equal(t, models.DropNoEdge, res.Reason)
}

func TestRun_PrimaryEdgeBeatsFunding(t *testing.T) {
	demand := sageDemand()
	demand.Signals = []models.Signal{
		{Type: "FUNDING", Value: "$20M", Date: fixedNow.AddDate(0, 0, -30).Format("2006-01-02")},
		{Type: "LEADERSHIP_OPENING", Value: "CFO", Source: "job_posting"},
	}

	res := newLenientPipeline().Run(demand, pool())
	require.True(t, res.IsComposed())
	assert.Equal(t, models.EdgeLeadershipGap, res.Output.Payload.Edge.Type)
	assert.Equal(t, "is hiring a CFO and raised $20M", res.Output.Payload.Edge.Evidence)
	assert.Contains(t, res.Output.DemandIntro.Body, "Sage Financial Group is hiring a CFO and raised $20M.")
}

func TestRun_ProvenanceIgnoresContactTitle(t *testing.T) {
	demand := sageDemand()
	demand.Signals = []models.Signal{{Type: "LEADERSHIP_OPENING", Value: "CEO", Source: "contact"}}
	demand.Metadata.LeadershipRole = true

	res := newLenientPipeline().Run(demand, pool())
	assert.Equal(t, models.DropNoEdge, res.Reason)
}

func TestRun_UnnamedSupplyNeverSelected(t *testing.T) {
	anonymous := hightowerSupply()
	anonymous.Contact = ""

	res := newLenientPipeline().Run(sageDemand(), []models.SupplyRecord{anonymous})
	assert.Equal(t, models.DropNoCounterparty, res.Reason)
}

func TestRun_MissingDemandContact(t *testing.T) {
	demand := sageDemand()
	demand.Contact = " "

	res := newPipeline(t).Run(demand, pool())
	assert.Equal(t, models.DropMissingRequiredFields, res.Reason)
	assert.Contains(t, res.Details, "demand.contact")
}

func TestRun_BannedPhraseIsPolicyViolation(t *testing.T) {
	supply := hightowerSupply()
	supply.Capability = "We work with RIAs on acquisitions"

	res := newLenientPipeline().Run(sageDemand(), []models.SupplyRecord{supply})
	assert.True(t, res.Dropped)
	assert.Equal(t, models.DropPolicyViolation, res.Reason)
	assert.Contains(t, res.Details, "we work with")
}

func TestRun_Idempotent(t *testing.T) {
	p := newPipeline(t)

	first := p.Run(sageDemand(), pool())
	second := p.Run(sageDemand(), pool())
	assert.Equal(t, first, second)
}

func TestRun_TransitionHook(t *testing.T) {
	var seen [][2]State
	hook := func(from, to State) { seen = append(seen, [2]State{from, to}) }
	p := newPipeline(t, WithTransitionHook(hook))

	p.Run(sageDemand(), pool())
	assert.Equal(t, [][2]State{
		{StateDetecting, StateMatching},
		{StateMatching, StateGating},
		{StateGating, StateComposing},
		{StateComposing, StateFinalValidating},
		{StateFinalValidating, StateComposed},
	}, seen)

	seen = nil
	empty := sageDemand()
	empty.Signals = nil
	p.Run(empty, pool())
	assert.Equal(t, [][2]State{{StateDetecting, StateDropped}}, seen)
}

func mixedDemands(n int) []models.DemandRecord {
	demands := make([]models.DemandRecord, n)
	for i := range demands {
		demands[i] = sageDemand()
		if i%2 == 1 {
			demands[i].Signals = nil
		}
	}
	return demands
}

func TestRunBatch_OrderAndProgress(t *testing.T) {
	demands := mixedDemands(120)
	var calls []int

	results, err := newPipeline(t).RunBatch(context.Background(), demands, pool(), func(current, total int) {
		assert.Equal(t, 120, total)
		calls = append(calls, current)
	})

	require.NoError(t, err)
	require.Len(t, results, 120)
	require.Len(t, calls, 120)
	assert.Equal(t, 1, calls[0])
	assert.Equal(t, 120, calls[119])
	for i, res := range results {
		assert.Equal(t, i%2 == 0, res.IsComposed(), "record %d", i)
	}
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results, err := newPipeline(t).RunBatch(ctx, mixedDemands(10), pool(), func(current, _ int) {
		if current == 3 {
			cancel()
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, 3)
}

func TestResults_ConsumerCanStop(t *testing.T) {
	var indexes []int
	for i := range newPipeline(t).Results(context.Background(), mixedDemands(10), pool()) {
		indexes = append(indexes, i)
		if i == 1 {
			break
		}
	}
	assert.Equal(t, []int{0, 1}, indexes)
}

func TestPartitionAndStats(t *testing.T) {
	results := []models.PipelineResult{
		models.Composed(models.IntroOutput{}),
		models.Drop(models.DropNoEdge, ""),
		models.Drop(models.DropNoEdge, ""),
		models.Drop(models.DropInvalidEmail, ""),
	}

	composed, dropped := Partition(results)
	assert.Len(t, composed, 1)
	assert.Len(t, dropped, 3)

	stats := Stats(results)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Composed)
	assert.Equal(t, 3, stats.Dropped)
	assert.Equal(t, 2, stats.DropReasons[models.DropNoEdge])
	assert.Equal(t, 1, stats.DropReasons[models.DropInvalidEmail])
	assert.Len(t, stats.DropReasons, len(models.DropReasons))
	assert.Contains(t, stats.DropReasons, models.DropPolicyViolation)

	empty := Stats(nil)
	assert.Equal(t, 0, empty.Total)
	assert.Len(t, empty.DropReasons, len(models.DropReasons))
}

func TestRun_UnsafeSignalValueNeverReachesCopy(t *testing.T) {
	demand := sageDemand()
	demand.Signals = []models.Signal{{Type: "GROWTH", Value: "🚀 WORLD-CLASS HYPERGROWTH!!!"}}

	res := newLenientPipeline().Run(demand, pool())
	require.True(t, res.IsComposed(), "dropped: %s %s", res.Reason, res.Details)
	assert.Equal(t, "is growing", res.Output.Payload.Edge.Evidence)
	for _, body := range []string{res.Output.DemandIntro.Body, res.Output.SupplyIntro.Body} {
		assert.Contains(t, body, "Sage Financial Group is growing.")
		assert.NotContains(t, body, "HYPERGROWTH")
		assert.NotContains(t, body, "🚀")
	}
}
