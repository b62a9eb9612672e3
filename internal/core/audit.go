package core

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/InstaDash/internal/logging"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionUpload                AuditAction = "upload"
	ActionBatchDelete           AuditAction = "batch_delete"
	ActionExpenseCreate         AuditAction = "expense_create"
	ActionExpenseDelete         AuditAction = "expense_delete"
	ActionCampaignCreate        AuditAction = "campaign_create"
	ActionCampaignExpense       AuditAction = "campaign_expense"
	ActionCampaignExpenseDelete AuditAction = "campaign_expense_delete"
	ActionLinkCreate            AuditAction = "link_create"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// DefaultAuditLimit caps audit listings when the caller gives no limit.
const DefaultAuditLimit = 100

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID           string        `json:"id"`
	Action       AuditAction   `json:"action"`
	Severity     AuditSeverity `json:"severity"`
	UserID       string        `json:"userId"`
	BatchID      string        `json:"batchId,omitempty"`
	FileName     string        `json:"fileName,omitempty"`
	RowsAffected int           `json:"rowsAffected,omitempty"`
	IPAddress    string        `json:"ipAddress,omitempty"`
	UserAgent    string        `json:"userAgent,omitempty"`
	Reason       string        `json:"reason,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// AuditLogParams contains parameters for creating an audit log entry.
// IP address and user agent are read from the context when left blank.
type AuditLogParams struct {
	Action       AuditAction
	UserID       string
	BatchID      string
	FileName     string
	RowsAffected int
	IPAddress    string
	UserAgent    string
	Reason       string
}

func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionUpload, ActionBatchDelete:
		return SeverityHigh
	case ActionExpenseDelete, ActionCampaignExpenseDelete:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// LogAudit records an audit entry. Audit failures never fail the operation
// being audited; they are logged and the entry is returned with an error.
func (s *Service) LogAudit(ctx context.Context, params AuditLogParams) (*AuditEntry, error) {
	entry := AuditEntry{
		ID:           uuid.NewString(),
		Action:       params.Action,
		Severity:     determineSeverity(params.Action),
		UserID:       params.UserID,
		BatchID:      params.BatchID,
		FileName:     params.FileName,
		RowsAffected: params.RowsAffected,
		IPAddress:    params.IPAddress,
		UserAgent:    params.UserAgent,
		Reason:       params.Reason,
		CreatedAt:    s.now(),
	}
	if entry.IPAddress == "" {
		entry.IPAddress = GetIPAddressFromContext(ctx)
	}
	if entry.UserAgent == "" {
		entry.UserAgent = GetUserAgentFromContext(ctx)
	}

	if err := s.store.InsertAuditEntry(ctx, entry); err != nil {
		logging.FromContext(ctx).Error("audit log write failed",
			"action", entry.Action,
			"user_id", entry.UserID,
			"error", err,
		)
		return &entry, err
	}
	return &entry, nil
}

// AuditLog returns the user's most recent audit entries, newest first.
func (s *Service) AuditLog(ctx context.Context, userID string, limit int) ([]AuditEntry, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if limit <= 0 || limit > 1000 {
		limit = DefaultAuditLimit
	}
	return s.store.ListAuditEntries(ctx, userID, limit)
}
