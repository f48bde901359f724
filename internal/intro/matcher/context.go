package matcher

import (
	"strings"

	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/taxonomy"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

var regionWildcards = []string{"nationwide", "national", "all", "global", "anywhere"}

// contextFit averages the geography, revenue and stage factors that both
// sides provide data for. With no comparable factor the result is 0.
func contextFit(demand models.DemandRecord, supply models.SupplyRecord) float64 {
	var available, matched int
	check := func(ok, hit bool) {
		if !ok {
			return
		}
		available++
		if hit {
			matched++
		}
	}

	check(geographyFit(demand.Metadata.Location, supply.Metadata.TargetRegions))
	check(revenueFit(demand.Metadata.Revenue, supply.Metadata.TargetRevenueRange))
	check(stageFit(demand.Metadata.Stage, supply.Metadata.TargetStages))

	if available == 0 {
		return 0
	}
	return float64(matched) / float64(available)
}

func geographyFit(location, regions string) (ok, hit bool) {
	location = strings.ToLower(strings.TrimSpace(location))
	regions = strings.ToLower(strings.TrimSpace(regions))
	if location == "" || regions == "" {
		return false, false
	}

	regionWords := make(map[string]struct{})
	for _, w := range taxonomy.Words(regions) {
		regionWords[w] = struct{}{}
	}
	for _, wc := range regionWildcards {
		if _, ok := regionWords[wc]; ok {
			return true, true
		}
	}
	locWords := taxonomy.Words(location)
	if len(locWords) == 0 {
		return true, false
	}
	for _, w := range locWords {
		if _, ok := regionWords[w]; !ok {
			return true, false
		}
	}
	return true, true
}

func revenueFit(revenue, targetRange string) (ok, hit bool) {
	v, okRevenue := ParseRevenue(revenue)
	lo, hi, okRange := ParseRange(targetRange)
	if !okRevenue || !okRange {
		return false, false
	}
	return true, v >= lo-epsilon && v <= hi+epsilon
}

func stageFit(stage, targetStages string) (ok, hit bool) {
	stage = strings.ToLower(strings.Join(strings.Fields(stage), " "))
	targets := strings.ToLower(strings.Join(strings.Fields(targetStages), " "))
	if stage == "" || targets == "" {
		return false, false
	}
	return true, strings.Contains(targets, stage)
}
