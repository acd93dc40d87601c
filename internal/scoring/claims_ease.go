package scoring

// ClaimsEaseEntry captures a carrier's observed claims performance.
type ClaimsEaseEntry struct {
	EaseScore         float64 `yaml:"ease_score" json:"ease_score"` // 0-100
	AvgSettlementDays int     `yaml:"avg_settlement_days" json:"avg_settlement_days"`
	ClaimApprovalRate float64 `yaml:"claim_approval_rate" json:"claim_approval_rate"` // 0-1
}

// ClaimsEaseTable maps carrier names to their claims performance. Carriers
// absent from the table score with the default entry.
type ClaimsEaseTable struct {
	Entries map[string]ClaimsEaseEntry
	Default ClaimsEaseEntry
}

// DefaultClaimsEaseTable returns the built-in carrier claims data.
func DefaultClaimsEaseTable() *ClaimsEaseTable {
	return &ClaimsEaseTable{
		Entries: map[string]ClaimsEaseEntry{
			"LifeSecure Corp":       {EaseScore: 85, AvgSettlementDays: 12, ClaimApprovalRate: 0.94},
			"HealthGuard Insurance": {EaseScore: 78, AvgSettlementDays: 18, ClaimApprovalRate: 0.89},
			"PrimeCare Solutions":   {EaseScore: 92, AvgSettlementDays: 8, ClaimApprovalRate: 0.97},
			"SecureLife Partners":   {EaseScore: 73, AvgSettlementDays: 22, ClaimApprovalRate: 0.86},
			"Guardian Health":       {EaseScore: 88, AvgSettlementDays: 10, ClaimApprovalRate: 0.95},
		},
		Default: ClaimsEaseEntry{EaseScore: 75, AvgSettlementDays: 15, ClaimApprovalRate: 0.90},
	}
}

// Lookup returns the entry for the carrier, falling back to the default.
func (t *ClaimsEaseTable) Lookup(companyName string) ClaimsEaseEntry {
	if e, ok := t.Entries[companyName]; ok {
		return e
	}
	return t.Default
}
