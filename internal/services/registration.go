package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/apolion-games/mentorhub/internal/password"
	"github.com/apolion-games/mentorhub/internal/store"
	"github.com/apolion-games/mentorhub/types"
)

// Outcome classifies the result of a registration attempt.
type Outcome string

const (
	OutcomeCreated           Outcome = "CREATED"
	OutcomeInvalidInput      Outcome = "INVALID_INPUT"
	OutcomePersistenceFailed Outcome = "PERSISTENCE_FAILED"
	OutcomeRoleCreateFailed  Outcome = "ROLE_CREATE_FAILED"
	OutcomeRoleAttachFailed  Outcome = "ROLE_ATTACH_FAILED"
	OutcomeInternal          Outcome = "INTERNAL"
)

// disposableDomains are email domains rejected at registration. Matching is
// by substring, so subdomains are caught too.
var disposableDomains = []string{
	"mailinator.com",
	"guerrillamail.com",
	"10minutemail.com",
	"tempmail",
	"throwawaymail.com",
	"yopmail.com",
}

// RegistrationRequest is the transient input to the registration workflow.
type RegistrationRequest struct {
	Email    string
	Password string
	Name     string
	Salt     string
}

// RegistrationResult reports the workflow outcome. Message is safe to hand
// to the client.
type RegistrationResult struct {
	Success bool
	Outcome Outcome
	Message string
	Account types.Account
}

// RegistrationStore persists the account and its initial authority
// atomically.
type RegistrationStore interface {
	CreateWithAuthority(ctx context.Context, account types.Account, authorityName string) (types.Account, error)
}

// EventPublisher emits domain events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// RegistrationEventChannel is the bus channel registration events go to.
const RegistrationEventChannel = "registration.completed"

// RegistrationService runs the account-creation workflow.
type RegistrationService struct {
	store    RegistrationStore
	verifier password.Verifier
	events   EventPublisher
}

// NewRegistrationService constructs the workflow. events may be nil, in
// which case no events are published.
func NewRegistrationService(store RegistrationStore, verifier password.Verifier, events EventPublisher) *RegistrationService {
	return &RegistrationService{
		store:    store,
		verifier: verifier,
		events:   events,
	}
}

// Register validates the request, creates the account with its role
// authority in one transaction, and reports the outcome. It never panics
// outward: unexpected failures become an INTERNAL result.
func (s *RegistrationService) Register(ctx context.Context, req RegistrationRequest, role types.Role) (result RegistrationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = RegistrationResult{
				Outcome: OutcomeInternal,
				Message: fmt.Sprintf("registration failed: %v", r),
			}
		}
	}()

	if !role.Valid() {
		return RegistrationResult{
			Outcome: OutcomeInvalidInput,
			Message: "unknown role",
		}
	}
	if msg, ok := validateEmail(req.Email); !ok {
		return RegistrationResult{
			Outcome: OutcomeInvalidInput,
			Message: msg,
		}
	}
	if req.Password == "" {
		return RegistrationResult{
			Outcome: OutcomeInvalidInput,
			Message: "password is required",
		}
	}

	hash, err := s.verifier.Hash(req.Password)
	if err != nil {
		return RegistrationResult{
			Outcome: OutcomeInternal,
			Message: "failed to process credential",
		}
	}

	account := types.Account{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Salt:         req.Salt,
		Name:         strings.TrimSpace(req.Name),
		AccountType:  role.String(),
		MenteeCount:  0,
		Enabled:      true,
	}

	created, err := s.store.CreateWithAuthority(ctx, account, role.Authority())
	if err != nil {
		return RegistrationResult{
			Outcome: stepOutcome(err),
			Message: "failed to create account",
		}
	}

	s.publishRegistered(ctx, created, role)

	return RegistrationResult{
		Success: true,
		Outcome: OutcomeCreated,
		Message: "account created",
		Account: created,
	}
}

func stepOutcome(err error) Outcome {
	var stepErr *store.StepError
	if !errors.As(err, &stepErr) {
		return OutcomePersistenceFailed
	}
	switch stepErr.Step {
	case store.StepAuthority:
		return OutcomeRoleCreateFailed
	case store.StepAttach:
		return OutcomeRoleAttachFailed
	default:
		return OutcomePersistenceFailed
	}
}

// validateEmail applies the structural checks and the disposable-domain
// blocklist. Returns a client-safe message on rejection.
func validateEmail(email string) (string, bool) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return "email address is malformed", false
	}
	lower := strings.ToLower(email)
	for _, domain := range disposableDomains {
		if strings.Contains(lower, domain) {
			return "email domain is not allowed", false
		}
	}
	return "", true
}

type registrationEvent struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// publishRegistered emits a registration event best-effort; bus failures
// never fail the registration itself.
func (s *RegistrationService) publishRegistered(ctx context.Context, account types.Account, role types.Role) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(registrationEvent{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      role.String(),
	})
	if err != nil {
		return
	}
	_, _ = s.events.Publish(ctx, RegistrationEventChannel, data, map[string]string{
		"role": role.String(),
	})
}
