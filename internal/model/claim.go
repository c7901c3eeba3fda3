package model

// Claim represents a discrete factual statement checked against search evidence
type Claim struct {
	Text        string     `json:"text"`                   // The claim text itself
	Verdict     Verdict    `json:"verdict"`                // Corroboration outcome
	Evidence    string     `json:"evidence,omitempty"`     // Supporting or conflicting snippet
	EvidenceURL string     `json:"evidence_url,omitempty"` // Source of the snippet
	Confidence  Confidence `json:"confidence,omitempty"`   // Strength of the verdict
	Heuristic   string     `json:"heuristic,omitempty"`    // Which extraction rule matched (empty for supplied claims)
}

// Verdict categorizes the outcome of a fact check
type Verdict string

const (
	VerdictVerified     Verdict = "verified"     // At least one result corroborates the claim
	VerdictUnverified   Verdict = "unverified"   // No supporting or conflicting evidence within budget
	VerdictContradicted Verdict = "contradicted" // A result directly states a conflicting fact
)

// Confidence indicates how strongly the evidence supports the verdict
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)
