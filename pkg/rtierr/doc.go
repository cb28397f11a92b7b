// Package rtierr defines the closed failure vocabulary of the RTI.
//
// Every service reports failures as an *Error carrying a Kind and a human
// readable reason. Kind itself implements error, so callers match a specific
// condition with errors.Is:
//
//	if errors.Is(err, rtierr.TimeAdvanceAlreadyInProgress) {
//		...
//	}
//
// Kinds cross process boundaries by name. ParseKind accepts both the HLA 1.3
// and the IEEE 1516e spelling of a condition.
package rtierr
