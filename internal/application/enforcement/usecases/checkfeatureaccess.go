package usecases

import (
	"context"
	"fmt"

	"seatwise/internal/application/enforcement/dto"
	"seatwise/internal/domain/coverage"
	"seatwise/internal/shared/biztime"
	"seatwise/internal/shared/logger"
)

type CheckFeatureAccessQuery struct {
	LearnerID  uint
	FeatureKey string
}

// CheckFeatureAccessUseCase answers whether a learner can use a feature right
// now and which payer covers it. Profiles come from the cache when fresh and
// are recomputed otherwise.
type CheckFeatureAccessUseCase struct {
	directory coverage.LearnerDirectory
	grants    coverage.FeatureGrantRepository
	provider  coverage.SubscriptionProvider
	resolver  *coverage.Resolver
	cache     coverage.ProfileCache
	logger    logger.Interface
}

func NewCheckFeatureAccessUseCase(
	directory coverage.LearnerDirectory,
	grants coverage.FeatureGrantRepository,
	provider coverage.SubscriptionProvider,
	resolver *coverage.Resolver,
	cache coverage.ProfileCache,
	logger logger.Interface,
) *CheckFeatureAccessUseCase {
	return &CheckFeatureAccessUseCase{
		directory: directory,
		grants:    grants,
		provider:  provider,
		resolver:  resolver,
		cache:     cache,
		logger:    logger,
	}
}

func (uc *CheckFeatureAccessUseCase) Execute(ctx context.Context, query CheckFeatureAccessQuery) (*dto.FeatureAccessDTO, error) {
	profile, err := uc.resolveProfile(ctx, query.LearnerID)
	if err != nil {
		return nil, err
	}

	key := coverage.FeatureKey(query.FeatureKey)
	access := &dto.FeatureAccessDTO{
		LearnerID: query.LearnerID,
		Feature:   query.FeatureKey,
	}

	if payer, ok := profile.PayerOf(key); ok {
		access.Allowed = true
		access.Payer = payer.String()
		access.Reason = fmt.Sprintf("covered by %s", payer)
		return access, nil
	}

	if profile.Upsell().Contains(key) {
		access.Reason = "not covered by any payer; available for purchase"
	} else {
		access.Reason = "unknown feature"
	}
	return access, nil
}

func (uc *CheckFeatureAccessUseCase) resolveProfile(ctx context.Context, learnerID uint) (*coverage.CoverageProfile, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, learnerID)
		if err != nil {
			uc.logger.Warnw("coverage profile cache read failed", "error", err, "learner_id", learnerID)
		} else if cached != nil {
			return cached, nil
		}
	}

	learner, err := uc.directory.GetLearner(ctx, learnerID)
	if err != nil {
		uc.logger.Errorw("failed to get learner", "error", err, "learner_id", learnerID)
		return nil, fmt.Errorf("failed to get learner: %w", err)
	}

	asOf := biztime.NowUTC()
	grants, err := uc.grants.ListActiveByOrganization(ctx, learner.OrganizationID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization grants: %w", err)
	}

	individual, err := uc.provider.GetIndividualCoverage(ctx, learnerID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch individual coverage: %w", err)
	}

	profile := uc.resolver.Resolve(learnerID, learner.Tier, grants, individual, asOf)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, profile); err != nil {
			uc.logger.Warnw("coverage profile cache write failed", "error", err, "learner_id", learnerID)
		}
	}
	return profile, nil
}
