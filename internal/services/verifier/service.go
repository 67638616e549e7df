package verifier

import (
	"strings"

	"indigenousverify/internal/domain"
)

// Service applies the prefix rule: numbers starting with "1" are verified.
type Service struct{}

func New() *Service { return &Service{} }

func (s *Service) Verify(businessNumber string) domain.Verdict {
	return Verify(businessNumber)
}

// Verify is total over all strings; empty and non-numeric input simply fails
// the prefix check.
func Verify(businessNumber string) domain.Verdict {
	verified := strings.HasPrefix(businessNumber, "1")
	v := domain.Verdict{
		BusinessNumber: businessNumber,
		Verified:       verified,
		Status:         domain.StatusRejected,
		RiskScore:      domain.UnverifiedRiskScore,
	}
	if verified {
		v.Status = domain.StatusVerified
		v.RiskScore = domain.VerifiedRiskScore
	}
	v.PhantomRisk = v.RiskScore > domain.PhantomRiskThreshold
	return v
}
