package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"indigenousverify/internal/domain"
)

func TestVerify(t *testing.T) {
	tests := []struct {
		name string
		bn   string
		want domain.Verdict
	}{
		{
			name: "leading one is verified",
			bn:   "123456789",
			want: domain.Verdict{BusinessNumber: "123456789", Status: domain.StatusVerified, RiskScore: 15, Verified: true},
		},
		{
			name: "single one",
			bn:   "1",
			want: domain.Verdict{BusinessNumber: "1", Status: domain.StatusVerified, RiskScore: 15, Verified: true},
		},
		{
			name: "other leading digit is rejected",
			bn:   "234567890",
			want: domain.Verdict{BusinessNumber: "234567890", Status: domain.StatusRejected, RiskScore: 85, PhantomRisk: true},
		},
		{
			name: "empty string",
			bn:   "",
			want: domain.Verdict{BusinessNumber: "", Status: domain.StatusRejected, RiskScore: 85, PhantomRisk: true},
		},
		{
			name: "non numeric with leading one",
			bn:   "1abc",
			want: domain.Verdict{BusinessNumber: "1abc", Status: domain.StatusVerified, RiskScore: 15, Verified: true},
		},
		{
			name: "leading whitespace is not trimmed",
			bn:   " 123",
			want: domain.Verdict{BusinessNumber: " 123", Status: domain.StatusRejected, RiskScore: 85, PhantomRisk: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New().Verify(tt.bn)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.RiskScore > domain.PhantomRiskThreshold, got.PhantomRisk)
			assert.Equal(t, !got.PhantomRisk, got.Verified)
		})
	}
}

func TestVerify_Deterministic(t *testing.T) {
	for _, bn := range []string{"123", "999", "", "x"} {
		assert.Equal(t, Verify(bn), Verify(bn), bn)
		assert.Empty(t, Verify(bn).Timestamp)
	}
}
