package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// MinCustomerSequence is the first sequence number handed out in a branch.
// Numbers below it are reserved for customers migrated from the legacy core.
const MinCustomerSequence int64 = 6000

// GenerateUUIDWithSuffix generates a UUID with a given module name as a suffix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// CustomerExternalID composes the public customer identifier: branch code followed by
// the sequence number, no separator. ("058", 6000) -> "0586000".
func CustomerExternalID(branchCode string, seqID int64) string {
	return branchCode + strconv.FormatInt(seqID, 10)
}

// AccountExternalID derives an account identifier from its four key parts.
func AccountExternalID(branchCode, accountType string, seqID int64, currencyCode string) string {
	return fmt.Sprintf("%s-%s-%d-%s", branchCode, accountType, seqID, currencyCode)
}

// ComplianceRecordID keys a compliance record by its customer and creation instant.
func ComplianceRecordID(customerID string, at time.Time) string {
	return fmt.Sprintf("%s_%s", customerID, at.UTC().Format("20060102150405"))
}
