// Package dto defines the API-facing shapes of reconciliation results.
package dto

import (
	"time"

	"seatwise/internal/domain/reconciliation"
)

// CoverageOverlapDTO is the API shape of one detected overlap.
type CoverageOverlapDTO struct {
	SID                   string    `json:"sid"`
	LearnerID             uint      `json:"learner_id"`
	OrganizationID        uint      `json:"organization_id"`
	FeatureKey            string    `json:"feature_key"`
	PeriodStart           time.Time `json:"period_start"`
	PeriodEnd             time.Time `json:"period_end"`
	IndividualChargeCents int64     `json:"individual_charge_cents"`
	PotentialCreditCents  int64     `json:"potential_credit_cents"`
	Currency              string    `json:"currency"`
	RecommendedAction     string    `json:"recommended_action"`
	DetectedAt            time.Time `json:"detected_at"`
}

// ScanResultDTO summarizes one reconciliation scan run.
type ScanResultDTO struct {
	LearnersProcessed         int                  `json:"learners_processed"`
	Overlaps                  []CoverageOverlapDTO `json:"overlaps"`
	TotalPotentialCreditCents int64                `json:"total_potential_credit_cents"`
	LearnerErrors             []LearnerErrorDTO    `json:"learner_errors,omitempty"`
}

// LearnerErrorDTO reports one learner the scan had to skip.
type LearnerErrorDTO struct {
	LearnerID uint   `json:"learner_id"`
	Error     string `json:"error"`
}

// OverlapToDTO converts a domain overlap to its API shape.
func OverlapToDTO(o *reconciliation.CoverageOverlap) CoverageOverlapDTO {
	return CoverageOverlapDTO{
		SID:                   o.SID(),
		LearnerID:             o.LearnerID(),
		OrganizationID:        o.OrganizationID(),
		FeatureKey:            o.FeatureKey().String(),
		PeriodStart:           o.PeriodStart(),
		PeriodEnd:             o.PeriodEnd(),
		IndividualChargeCents: o.IndividualCharge().AmountInCents(),
		PotentialCreditCents:  o.PotentialCredit().AmountInCents(),
		Currency:              o.IndividualCharge().Currency(),
		RecommendedAction:     o.Action().String(),
		DetectedAt:            o.DetectedAt(),
	}
}

// ResultToDTO converts a scan result to its API shape.
func ResultToDTO(r *reconciliation.ReconciliationResult) *ScanResultDTO {
	out := &ScanResultDTO{
		LearnersProcessed:         r.LearnersProcessed,
		Overlaps:                  make([]CoverageOverlapDTO, 0, len(r.Overlaps)),
		TotalPotentialCreditCents: r.TotalPotentialCredit.AmountInCents(),
	}
	for _, overlap := range r.Overlaps {
		out.Overlaps = append(out.Overlaps, OverlapToDTO(overlap))
	}
	for _, learnerErr := range r.Errors {
		out.LearnerErrors = append(out.LearnerErrors, LearnerErrorDTO{
			LearnerID: learnerErr.LearnerID,
			Error:     learnerErr.Err.Error(),
		})
	}
	return out
}
