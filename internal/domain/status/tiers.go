package status

// LifecycleStage is the upstream development phase reported by the status feed
type LifecycleStage string

const (
	StageScaffolding LifecycleStage = "scaffolding"
	StageAlpha       LifecycleStage = "alpha"
	StageBeta        LifecycleStage = "beta"
	StageStable      LifecycleStage = "stable"
)

// VisibilityTier is the display grouping shown on the site
type VisibilityTier string

const (
	TierLive       VisibilityTier = "live"
	TierAlpha      VisibilityTier = "alpha"
	TierComingSoon VisibilityTier = "coming-soon"
)

// Tiers lists every visibility tier in display order
var Tiers = []VisibilityTier{TierLive, TierAlpha, TierComingSoon}

// Tier maps a lifecycle stage to its visibility tier.
// Unknown stages are shown as coming soon rather than rejected.
func (s LifecycleStage) Tier() VisibilityTier {
	switch s {
	case StageBeta, StageStable:
		return TierLive
	case StageAlpha:
		return TierAlpha
	case StageScaffolding:
		return TierComingSoon
	default:
		return TierComingSoon
	}
}

// Known reports whether the stage is one the feed is documented to send
func (s LifecycleStage) Known() bool {
	switch s {
	case StageScaffolding, StageAlpha, StageBeta, StageStable:
		return true
	}
	return false
}

// Rank returns the sort position of the tier, lowest first
func (t VisibilityTier) Rank() int {
	switch t {
	case TierLive:
		return 0
	case TierAlpha:
		return 1
	default:
		return 2
	}
}

// Label returns the badge text for the tier
func (t VisibilityTier) Label() string {
	switch t {
	case TierLive:
		return "Live"
	case TierAlpha:
		return "Alpha"
	default:
		return "Coming Soon"
	}
}
