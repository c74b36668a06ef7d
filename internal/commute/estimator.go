package commute

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/siweifamily/dashboard/internal/models"
	"github.com/siweifamily/dashboard/internal/observability"
)

// Display fragments for the non-numeric outcomes.
const (
	NotConfiguredText  = "API未設定"
	QueryFailedText    = "查詢失敗"
	CannotEstimateText = "無法估算"
)

// homewardLabel is the outbound direction toward the Miaoli home; it gets
// the gold base tier, every other direction gets cyan.
const homewardLabel = "往苗栗"

// jamThresholdMinutes is the delay over baseline that overrides the base
// tier to red.
const jamThresholdMinutes = 20

// Estimator turns one routing query into a display-ready CommuteLeg. Its
// contract is total: every failure path resolves to a displayable leg with
// the map link always present.
type Estimator struct {
	router Router
	logger *zap.Logger
}

// NewEstimator creates an Estimator. router may be nil when no routing
// credential is configured; legs then carry the not-configured text.
func NewEstimator(router Router, logger *zap.Logger) *Estimator {
	return &Estimator{router: router, logger: logger}
}

// Estimate queries the current driving time from origin to destination and
// classifies the delay against baselineMinutes.
func (e *Estimator) Estimate(ctx context.Context, origin, destination string, baselineMinutes int, label string) models.CommuteLeg {
	link := MapLink(origin, destination)

	if e.router == nil {
		return models.CommuteLeg{
			Label:   label,
			Tier:    models.TierNeutral,
			Display: fmt.Sprintf("%s : %s", label, NotConfiguredText),
			MapLink: link,
		}
	}

	dt, err := e.router.DriveTime(ctx, origin, destination)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("commute query failed",
				zap.String("label", label),
				zap.Error(err))
		}
		// Neutral, not the direction tier: the failure may predate tier
		// selection, so the safe default applies.
		leg := models.CommuteLeg{
			Label:   label,
			Tier:    models.TierNeutral,
			Display: fmt.Sprintf("%s : %s", label, QueryFailedText),
			MapLink: link,
		}
		observability.CommuteLegsTotal.WithLabelValues(string(leg.Tier)).Inc()
		return leg
	}

	text := dt.TrafficText
	if text == "" {
		text = dt.StaticText
	}
	if text == "" {
		text = CannotEstimateText
	}

	baseTier := models.TierCyan
	if label == homewardLabel {
		baseTier = models.TierGold
	}

	leg := models.CommuteLeg{
		Label:        label,
		DurationText: text,
		Tier:         baseTier,
		MapLink:      link,
	}

	if mins := ParseDurationMinutes(text); mins > 0 {
		delta := mins - baselineMinutes
		sign := ""
		if delta > 0 {
			sign = "+"
		}
		leg.HasDelta = true
		leg.DeltaMinutes = delta
		leg.Display = fmt.Sprintf("%s : %s (%s%d分)", label, text, sign, delta)
		if delta > jamThresholdMinutes {
			leg.Tier = models.TierRed
		}
	} else {
		leg.Display = fmt.Sprintf("%s : %s", label, text)
	}

	observability.CommuteLegsTotal.WithLabelValues(string(leg.Tier)).Inc()
	return leg
}
