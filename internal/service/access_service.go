package service

import (
	"context"
	"fmt"
	"time"

	"dupp-api/internal/domain"
	"dupp-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthContext is the caller identity attached to a privileged call. A nil
// AuthContext means the caller is unauthenticated.
type AuthContext struct {
	UID string
}

// AccessService gates privileged operations on freshly loaded user roles and
// appends best-effort audit records. Every check re-reads the user record, so
// role revocation takes effect on the very next call.
type AccessService interface {
	RequireAdmin(ctx context.Context, auth *AuthContext) (*domain.User, error)
	RequireRole(ctx context.Context, auth *AuthContext, role string) (*domain.User, error)
	RequirePremiumOrAdmin(ctx context.Context, auth *AuthContext) (*domain.User, error)
	LogAction(ctx context.Context, adminUID, action string, details map[string]any)
}

type accessService struct {
	userRepo repository.UserRepository
	auditLog repository.AuditLogRepository
	logger   *zap.Logger
}

// NewAccessService creates a new instance of AccessService
func NewAccessService(userRepo repository.UserRepository, auditLog repository.AuditLogRepository, logger *zap.Logger) AccessService {
	return &accessService{
		userRepo: userRepo,
		auditLog: auditLog,
		logger:   logger,
	}
}

// RequireAdmin verifies the caller exists and has the admin role
func (s *accessService) RequireAdmin(ctx context.Context, auth *AuthContext) (*domain.User, error) {
	user, err := s.loadCaller(ctx, auth)
	if err != nil {
		return nil, err
	}

	if user.Role != domain.RoleAdmin {
		s.logger.Warn("Non-admin user attempted a privileged operation",
			zap.String("uid", auth.UID),
			zap.String("role", user.Role),
		)
		return nil, ErrAdminRequired
	}

	return user, nil
}

// RequireRole verifies the caller exists and has exactly the given role
func (s *accessService) RequireRole(ctx context.Context, auth *AuthContext, role string) (*domain.User, error) {
	user, err := s.loadCaller(ctx, auth)
	if err != nil {
		return nil, err
	}

	if user.Role != role {
		return nil, fmt.Errorf("role %q required: %w", role, ErrForbidden)
	}

	return user, nil
}

// RequirePremiumOrAdmin verifies the caller has the premium or admin role
func (s *accessService) RequirePremiumOrAdmin(ctx context.Context, auth *AuthContext) (*domain.User, error) {
	user, err := s.loadCaller(ctx, auth)
	if err != nil {
		return nil, err
	}

	if user.Role != domain.RolePremium && user.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("premium or admin access required: %w", ErrForbidden)
	}

	return user, nil
}

// LogAction appends one audit entry for a privileged call. Failures are
// logged and swallowed; a logging outage never blocks the operation being
// audited. IP and user agent default to "unknown" when absent.
func (s *accessService) LogAction(ctx context.Context, adminUID, action string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}

	ip, _ := details["ip"].(string)
	if ip == "" {
		ip = "unknown"
	}
	userAgent, _ := details["userAgent"].(string)
	if userAgent == "" {
		userAgent = "unknown"
	}
	delete(details, "ip")
	delete(details, "userAgent")

	entry := &domain.AuditEntry{
		ID:        uuid.New(),
		AdminUID:  adminUID,
		Action:    action,
		Details:   details,
		IP:        ip,
		UserAgent: userAgent,
		Timestamp: time.Now(),
	}

	if err := s.auditLog.Create(ctx, entry); err != nil {
		s.logger.Warn("Failed to write audit entry",
			zap.String("admin_uid", adminUID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// loadCaller resolves the auth context to a fresh user record
func (s *accessService) loadCaller(ctx context.Context, auth *AuthContext) (*domain.User, error) {
	if auth == nil || auth.UID == "" {
		return nil, ErrAuthenticationRequired
	}

	uid, err := uuid.Parse(auth.UID)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}

	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	return user, nil
}
