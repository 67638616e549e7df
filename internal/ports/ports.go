package ports

import (
	"context"

	"indigenousverify/internal/domain"
)

// Verifier classifies a business number. Implementations must be total over
// all strings and must not set Verdict.Timestamp.
type Verifier interface {
	Verify(businessNumber string) domain.Verdict
}

// Verifications checks business numbers and reports aggregate history.
type Verifications interface {
	Check(ctx context.Context, businessNumber string) (domain.Verdict, error)
	Stats(ctx context.Context) (stats domain.Stats, recent []domain.Verdict, err error)
}
