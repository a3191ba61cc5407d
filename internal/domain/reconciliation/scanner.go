package reconciliation

import (
	"context"
	"fmt"
	"time"

	"seatwise/internal/domain/coverage"
	"seatwise/internal/shared/biztime"
	"seatwise/internal/shared/logger"
)

// Scanner sweeps learners with active individual coverage and records every
// feature both payers are covering. Learners without an individual
// subscription are skipped up front; they cannot overlap.
type Scanner struct {
	learners coverage.LearnerDirectory
	grants   coverage.FeatureGrantRepository
	provider coverage.SubscriptionProvider
	overlaps OverlapRepository
	resolver *coverage.Resolver
	logger   logger.Interface
}

// NewScanner creates a reconciliation scanner.
func NewScanner(
	learners coverage.LearnerDirectory,
	grants coverage.FeatureGrantRepository,
	provider coverage.SubscriptionProvider,
	overlaps OverlapRepository,
	resolver *coverage.Resolver,
	log logger.Interface,
) *Scanner {
	return &Scanner{
		learners: learners,
		grants:   grants,
		provider: provider,
		overlaps: overlaps,
		resolver: resolver,
		logger:   log,
	}
}

// Scan resolves every individually covered learner's profile as of asOf and
// persists an overlap record per double-covered feature. Per-learner failures
// are collected, not fatal.
func (s *Scanner) Scan(ctx context.Context, asOf time.Time) (*ReconciliationResult, error) {
	learnerIDs, err := s.learners.ListWithIndividualCoverage(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list individually covered learners: %w", err)
	}

	result := &ReconciliationResult{TotalPotentialCredit: coverage.Zero("")}
	for _, learnerID := range learnerIDs {
		overlaps, err := s.scanLearner(ctx, learnerID, asOf)
		if err != nil {
			s.logger.Warnw("reconciliation skipped learner",
				"learner_id", learnerID,
				"error", err,
			)
			result.Errors = append(result.Errors, LearnerError{LearnerID: learnerID, Err: err})
			continue
		}
		result.LearnersProcessed++
		for _, overlap := range overlaps {
			result.Overlaps = append(result.Overlaps, overlap)
			if overlap.Action() != ActionCredit {
				continue
			}
			total, err := result.TotalPotentialCredit.Add(overlap.PotentialCredit())
			if err != nil {
				s.logger.Warnw("reconciliation credit excluded from total",
					"learner_id", learnerID,
					"feature_key", overlap.FeatureKey(),
					"error", err,
				)
				result.Errors = append(result.Errors, LearnerError{LearnerID: learnerID, Err: err})
				continue
			}
			result.TotalPotentialCredit = total
		}
	}

	s.logger.Infow("reconciliation scan completed",
		"learners_processed", result.LearnersProcessed,
		"overlaps", len(result.Overlaps),
		"total_potential_credit", result.TotalPotentialCredit.String(),
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *Scanner) scanLearner(ctx context.Context, learnerID uint, asOf time.Time) ([]*CoverageOverlap, error) {
	learner, err := s.learners.GetLearner(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load learner: %w", err)
	}

	individual, err := s.provider.GetIndividualCoverage(ctx, learnerID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch individual coverage: %w", err)
	}
	if !individual.CoversAt(asOf) {
		return nil, nil
	}

	grants, err := s.grants.ListActiveByOrganization(ctx, learner.OrganizationID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization grants: %w", err)
	}

	profile := s.resolver.Resolve(learnerID, learner.Tier, grants, individual, asOf)

	var overlaps []*CoverageOverlap
	for _, key := range profile.Overlap().Sorted() {
		overlap, err := s.buildOverlap(learner, key, individual, asOf)
		if err != nil {
			return nil, err
		}
		if err := s.overlaps.Upsert(ctx, overlap); err != nil {
			return nil, fmt.Errorf("failed to persist overlap for %s: %w", key, err)
		}
		overlaps = append(overlaps, overlap)
	}
	return overlaps, nil
}

// buildOverlap computes the pro-rata credit for the unused remainder of the
// billing period: charge scaled by remaining whole business days over total.
func (s *Scanner) buildOverlap(learner *coverage.Learner, key coverage.FeatureKey, individual *coverage.IndividualCoverage, asOf time.Time) (*CoverageOverlap, error) {
	charge := individual.ChargeFor(key)
	totalDays := biztime.DaysBetween(individual.PeriodStart, individual.PeriodEnd)
	remainingDays := biztime.DaysBetween(asOf, individual.PeriodEnd)
	credit := charge.ProRata(remainingDays, totalDays)

	action := ActionCredit
	switch {
	case remainingDays <= 0:
		action = ActionNone
		credit = coverage.Zero(charge.Currency())
	case !credit.IsPositive():
		action = ActionDowngrade
	}

	return NewCoverageOverlap(
		learner.ID,
		learner.OrganizationID,
		key,
		individual.PeriodStart,
		individual.PeriodEnd,
		charge,
		credit,
		action,
		asOf,
	)
}
