package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// Integrity check names.
const (
	CheckCompleteness = "completeness"
	CheckConsistency  = "composite_consistency"
	CheckRange        = "range_validity"
)

// IntegrityCheck is the outcome of one verification rule.
type IntegrityCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// IntegrityReport is the result of verifying a score.
type IntegrityReport struct {
	EntityID string           `json:"entity_id"`
	Passed   bool             `json:"passed"`
	Checks   []IntegrityCheck `json:"checks"`
	Hash     string           `json:"hash"`
}

// Verify checks a score for completeness, internal consistency and range
// validity, and fingerprints it.
func Verify(score *entities.TrustScore) IntegrityReport {
	report := IntegrityReport{}
	if score == nil {
		report.Checks = []IntegrityCheck{{Name: CheckCompleteness, Detail: "score is nil"}}
		return report
	}
	report.EntityID = score.EntityID

	complete := IntegrityCheck{Name: CheckCompleteness, Passed: true}
	switch {
	case score.EntityID == "":
		complete.Passed, complete.Detail = false, "missing entity id"
	case score.Level == "" || score.ChittyLevel == "":
		complete.Passed, complete.Detail = false, "missing trust level"
	}

	consistent := IntegrityCheck{Name: CheckConsistency, Passed: true}
	if diff := math.Abs(score.Composite - score.Dimensions.Mean()); diff >= 1 {
		consistent.Passed = false
		consistent.Detail = fmt.Sprintf("composite differs from dimension mean by %.2f", diff)
	}

	inRange := IntegrityCheck{Name: CheckRange, Passed: true}
	values := append(score.Dimensions.Values(), score.Composite,
		score.Outputs.People, score.Outputs.Legal, score.Outputs.State, score.Outputs.Chitty)
	for _, v := range values {
		if math.IsNaN(v) || v < 0 || v > 100 {
			inRange.Passed = false
			inRange.Detail = fmt.Sprintf("score %.2f outside [0,100]", v)
			break
		}
	}

	report.Checks = []IntegrityCheck{complete, consistent, inRange}
	report.Passed = complete.Passed && consistent.Passed && inRange.Passed

	hash, err := Fingerprint(score)
	if err != nil {
		report.Passed = false
		return report
	}
	report.Hash = hash
	return report
}

// Fingerprint returns the hex SHA-256 of the score's JSON encoding.
func Fingerprint(score *entities.TrustScore) (string, error) {
	data, err := json.Marshal(score)
	if err != nil {
		return "", fmt.Errorf("marshaling score: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
