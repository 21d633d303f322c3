package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// RegistrationAuditor writes completed registrations from the event bus to
// the audit log.
type RegistrationAuditor struct {
	logger *slog.Logger
}

// NewRegistrationAuditor constructs the auditor. logger may be nil.
func NewRegistrationAuditor(logger *slog.Logger) *RegistrationAuditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationAuditor{logger: logger}
}

// Record decodes a registration event payload and logs it. A payload that
// does not decode is reported as an error so the bus can redeliver it.
func (a *RegistrationAuditor) Record(ctx context.Context, data []byte, attrs map[string]string) error {
	var event registrationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("decode registration event: %w", err)
	}
	if event.AccountID == "" {
		return fmt.Errorf("registration event without account id")
	}
	a.logger.Info("registration completed",
		slog.String("accountId", event.AccountID),
		slog.String("email", event.Email),
		slog.String("role", event.Role),
	)
	return nil
}
