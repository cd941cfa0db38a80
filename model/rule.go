// model/rule.go
package model

import (
	"strings"

	"github.com/google/uuid"
)

// TempIDPrefix marks a rule that exists only in the editor and has never
// been imported. Draft detection is purely textual; there is no server
// round trip to check whether an id exists.
const TempIDPrefix = "TMP_"

// DataSupplier identifies a party by its short code plus display name.
type DataSupplier struct {
	Short string
	Name  string
}

// AccessRule is a grant of data-access permission. The four scope lists are
// independent; a valid rule has at least one entry across all four.
//
// Receivers is populated only on the "granted by me" variant; rules
// received from other suppliers never carry it.
type AccessRule struct {
	ID          string
	ContentType ContentType
	Receivers   []string
	Profiles    []string

	Creator DataSupplier

	LEIs            []string
	OenbIDs         []string
	IsinsSegment    []string
	IsinsShareClass []string

	DateFrom        string
	DateTo          string
	Frequency       Frequency
	AccessDelayDays int

	// CostsByDataSupplier is kept as raw wire text; boolean coercion
	// ("true" or "1") happens at presentation time only.
	CostsByDataSupplier string

	// CreationTime is server-stamped and read-only.
	CreationTime string
}

// NewDraftRule returns an empty rule with a fresh temporary id. The id is
// replaced by the server on the first successful import.
func NewDraftRule() *AccessRule {
	return &AccessRule{ID: TempIDPrefix + uuid.NewString()}
}

// IsDraft reports whether the rule has never been imported.
func (r *AccessRule) IsDraft() bool {
	return strings.HasPrefix(r.ID, TempIDPrefix)
}

// ScopeObjectCount is the number of scope entries across all four lists.
func (r *AccessRule) ScopeObjectCount() int {
	return len(r.LEIs) + len(r.OenbIDs) + len(r.IsinsSegment) + len(r.IsinsShareClass)
}

// CostsCovered coerces the raw CostsByDataSupplier text for display.
func (r *AccessRule) CostsCovered() bool {
	return r.CostsByDataSupplier == "true" || r.CostsByDataSupplier == "1"
}
