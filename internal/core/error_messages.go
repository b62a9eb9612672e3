package core

// # Error Codes Reference
//
// User-facing error messages carry a code for support reference. Codes are
// grouped by category:
//
//	DB001-DB007   storage constraints and connectivity
//	VAL001-VAL009 request and data validation
//	FILE001-FILE006 uploaded file handling
//	UPL001-UPL010 the upload pipeline
//	NF001         missing records
//	RATE001       throttling
//	ERR000        fallback; check the logs for the technical error
//
// Patterns are matched case-insensitively with strings.Contains against the
// full error chain text. The first matching pattern wins, so more specific
// patterns are listed before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Upload pipeline outcomes come first: their messages embed lower-level
	// causes that would otherwise match a generic pattern.
	{
		pattern: "no valid sales found",
		msg: UserMessage{
			Message: "No valid sales were found in the file",
			Action:  "Check that the export has order id, revenue and product columns",
			Code:    "UPL010",
		},
	},
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "upload cancelled",
		msg: UserMessage{
			Message: "Upload was cancelled",
			Action:  "Upload the file again; rows already saved will be updated, not duplicated",
			Code:    "UPL001",
		},
	},

	// Storage
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Review the file for repeated ids",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Review your data for duplicate key values",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Create the campaign before adding expenses to it",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates check constraint",
		msg: UserMessage{
			Message: "A value is outside the allowed range",
			Action:  "Amounts must be positive",
			Code:    "DB008",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try uploading a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// Files
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Export a shorter date range and upload it separately",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Upload the sales export exactly as downloaded",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File encoding is not supported",
			Action:  "Use auto, utf-8, iso-8859-1 or windows-1252",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV or XLSX file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload an export with a header row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "invalid xlsx",
		msg: UserMessage{
			Message: "File is not a readable Excel workbook",
			Action:  "Save the sheet as .xlsx or export it as CSV",
			Code:    "FILE006",
		},
	},

	// Validation
	{
		pattern: "invalid time window",
		msg: UserMessage{
			Message: "Unknown time window",
			Action:  "Use today, yesterday, last7days, last30days or all",
			Code:    "VAL007",
		},
	},
	{
		pattern: "invalid input",
		msg: UserMessage{
			Message: "Some fields are invalid",
			Action:  "Check the highlighted values and submit again",
			Code:    "VAL008",
		},
	},
	{
		pattern: "missing user id",
		msg: UserMessage{
			Message: "No user was identified for this request",
			Action:  "Sign in again",
			Code:    "VAL009",
		},
	},
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format detected",
			Action:  "Use DD/MM/YYYY or YYYY-MM-DD",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Use amounts like 1.234,56 or 1234.56",
			Code:    "VAL002",
		},
	},

	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "The requested record was not found",
			Action:  "Refresh the page; it may have been deleted",
			Code:    "NF001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Unmatched
// errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matched a specific pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
