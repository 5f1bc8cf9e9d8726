// Package catalog implements catalog sync, C10: mapping the billing
// provider's active recurring prices onto local plan-variant rows (§4.10).
package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/formgate/gateway/internal/dbrpc"
	"github.com/formgate/gateway/internal/logger"
)

// UpstreamPrice is the subset of a billing-provider price object C10 needs.
type UpstreamPrice struct {
	ID         string
	Currency   string
	UnitAmount int64
	Recurring  bool
	Interval   string // "month" or "year"
	Active     bool
	LookupKey  string
	Metadata   map[string]string
	Created    int64
}

// StripeClient lists the active recurring prices to scan.
type StripeClient interface {
	ListActivePrices(ctx context.Context) ([]UpstreamPrice, error)
}

type Syncer struct {
	q       dbrpc.Querier
	stripe  StripeClient
	env     string
	enabled bool
}

func New(q dbrpc.Querier, stripe StripeClient, env string, enabled bool) *Syncer {
	return &Syncer{q: q, stripe: stripe, env: env, enabled: enabled}
}

type candidate struct {
	price    UpstreamPrice
	planSlug string
	interval dbrpc.PlanInterval
}

// Sync implements §4.10. forced bypasses the enabled flag, as used by the
// checkout/webhook fallback (§4.8 step 2, §4.6).
func (s *Syncer) Sync(ctx context.Context, forced bool) (scanned, eligible, updated, missing int, err error) {
	if !forced && !s.enabled {
		return 0, 0, 0, 0, nil
	}
	log := logger.For(logger.ComponentCatalog)

	prices, err := s.stripe.ListActivePrices(ctx)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("list active prices: %w", err)
	}

	best := map[string]candidate{} // key: planSlug|interval
	var eligibleCount int
	for _, price := range prices {
		cand, ok := s.classify(price)
		if !ok {
			continue
		}
		eligibleCount++
		key := cand.planSlug + "|" + string(cand.interval)
		if existing, ok := best[key]; !ok || cand.price.Created > existing.price.Created {
			best[key] = cand
		}
	}

	existingVariants, err := s.q.ListPlanVariants(ctx)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("list plan variants: %w", err)
	}
	byPlanInterval := make(map[string]dbrpc.PlanVariant, len(existingVariants))
	for _, v := range existingVariants {
		if !v.Active {
			continue
		}
		byPlanInterval[v.PlanSlug+"|"+string(v.Interval)] = v
	}

	var updatedCount int
	var missingVariants []string
	for key, cand := range best {
		variant, ok := byPlanInterval[key]
		if !ok {
			missingVariants = append(missingVariants, key)
			continue
		}
		if variant.UpstreamPriceID == cand.price.ID &&
			variant.AmountCents == cand.price.UnitAmount &&
			strings.EqualFold(variant.Currency, cand.price.Currency) {
			continue
		}
		variant.UpstreamPriceID = cand.price.ID
		variant.AmountCents = cand.price.UnitAmount
		variant.Currency = cand.price.Currency
		if err := s.q.UpsertPlanVariant(ctx, variant); err != nil {
			return 0, 0, 0, 0, fmt.Errorf("upsert plan variant %s: %w", key, err)
		}
		updatedCount++
	}

	log.Info("catalog sync completed",
		zap.Int("scanned_prices", len(prices)),
		zap.Int("eligible_prices", eligibleCount),
		zap.Int("updated_variants", updatedCount),
		zap.Strings("missing_variants", missingVariants))

	return len(prices), eligibleCount, updatedCount, len(missingVariants), nil
}

// classify implements §4.10's eligibility and plan/interval derivation.
// Lookup-key match wins over metadata when both are present and disagree;
// metadata's self_serve="false" vetoes a metadata-only match.
func (s *Syncer) classify(price UpstreamPrice) (candidate, bool) {
	if !price.Recurring || !price.Active {
		return candidate{}, false
	}
	if !strings.EqualFold(price.Currency, "usd") || price.UnitAmount < 0 {
		return candidate{}, false
	}
	interval, ok := mapInterval(price.Interval)
	if !ok {
		return candidate{}, false
	}

	if slug, ok := s.matchLookupKey(price.LookupKey, string(interval)); ok {
		return candidate{price: price, planSlug: slug, interval: interval}, true
	}

	if price.Metadata["self_serve"] == "false" {
		return candidate{}, false
	}
	slug := price.Metadata["plan_slug"]
	metaInterval := price.Metadata["interval"]
	if (slug == "pro" || slug == "business") &&
		(metaInterval == "monthly" || metaInterval == "yearly") &&
		price.Metadata["self_serve"] == "true" &&
		dbrpc.PlanInterval(metaInterval) == interval {
		return candidate{price: price, planSlug: slug, interval: interval}, true
	}
	return candidate{}, false
}

// matchLookupKey parses "formsandbox:{env}:{plan_slug}:{interval}:usd".
func (s *Syncer) matchLookupKey(lookupKey, interval string) (string, bool) {
	if lookupKey == "" {
		return "", false
	}
	parts := strings.Split(lookupKey, ":")
	if len(parts) != 5 || parts[0] != "formsandbox" || parts[4] != "usd" {
		return "", false
	}
	env, slug, keyInterval := parts[1], parts[2], parts[3]
	if s.env != "" && env != s.env {
		return "", false
	}
	if keyInterval != interval {
		return "", false
	}
	return slug, true
}

func mapInterval(raw string) (dbrpc.PlanInterval, bool) {
	switch raw {
	case "month":
		return dbrpc.IntervalMonthly, true
	case "year":
		return dbrpc.IntervalYearly, true
	default:
		return "", false
	}
}
