package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error returns empty",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "empty batch",
			err:      &UploadError{Kind: FailureEmptyBatch, Message: ErrEmptyBatch.Error(), Err: ErrEmptyBatch},
			wantCode: "UPL010",
		},
		{
			name:     "limiter saturated",
			err:      ErrTooManyUploads,
			wantCode: "UPL002",
		},
		{
			name:     "cancelled upload wins over context text",
			err:      parseFailure(fmt.Errorf("upload cancelled: %w", context.Canceled)),
			wantCode: "UPL001",
		},
		{
			name:     "persistence failure maps to its cause",
			err:      &UploadError{Kind: FailurePersistence, Message: "stored 0 of 3 rows before failure", Err: errors.New("upsert sales: dial tcp: connection refused")},
			wantCode: "DB004",
		},
		{
			name:     "oversized csv",
			err:      parseFailure(fmt.Errorf("invalid csv: %w", ErrFileTooLarge)),
			wantCode: "FILE001",
		},
		{
			name:     "malformed csv",
			err:      parseFailure(errors.New(`invalid csv: record on line 3: bare " in non-quoted-field`)),
			wantCode: "FILE002",
		},
		{
			name:     "unknown encoding",
			err:      parseFailure(fmt.Errorf("%w %q", ErrUnknownEncoding, "ebcdic")),
			wantCode: "FILE003",
		},
		{
			name:     "header-only file",
			err:      parseFailure(errors.New("empty file: missing header row")),
			wantCode: "FILE005",
		},
		{
			name:     "bad window",
			err:      fmt.Errorf("%w: %q", ErrInvalidWindow, "fortnight"),
			wantCode: "VAL007",
		},
		{
			name:     "not found",
			err:      fmt.Errorf("batch x: %w", ErrNotFound),
			wantCode: "NF001",
		},
		{
			name:     "check constraint",
			err:      errors.New(`ERROR: new row violates check constraint "expenses_amount_cents_check"`),
			wantCode: "DB008",
		},
		{
			name:     "case insensitive matching",
			err:      errors.New("DUPLICATE KEY value"),
			wantCode: "DB001",
		},
		{
			name:     "unknown error returns default",
			err:      errors.New("some random internal error"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q (err: %v)", got.Code, tt.wantCode, tt.err)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrEmptyBatch)

	expected := "No valid sales were found in the file (Code: UPL010). Check that the export has order id, revenue and product columns"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", ErrTooManyUploads, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
