package model

// MirrorPair records a detected correspondence between two claim-type
// families believed to mirror each other (e.g. system claims 1-5 duplicated
// as method claims 6-10), plus any element mismatches found between the
// representative independent claims.
type MirrorPair struct {
	TypeA           ClaimType          `json:"type_a"`
	ClaimsA         []int              `json:"claims_a"` // claim numbers, ascending
	TypeB           ClaimType          `json:"type_b"`
	ClaimsB         []int              `json:"claims_b"`
	RepresentativeA int                `json:"representative_a"` // first independent claim of group A
	RepresentativeB int                `json:"representative_b"`
	Issues          []ConsistencyIssue `json:"issues,omitempty"` // element mismatches and count warnings
}
