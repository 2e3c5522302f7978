package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"
)

const activationTokenBytes = 32

// AuthDeps wires the auth usecase. ActivationURL is the frontend page that receives ?token=.
type AuthDeps struct {
	Users         domain.UserRepository
	Tokens        domain.ActivationTokenRepository
	Issuer        domain.TokenIssuer
	Guard         domain.LoginGuard
	Mailer        domain.Mailer
	Tasks         domain.TaskRunner
	Audit         *security.SecurityLogger
	ActivationURL string
}

type authUsecase struct {
	userRepo      domain.UserRepository
	tokenRepo     domain.ActivationTokenRepository
	issuer        domain.TokenIssuer
	guard         domain.LoginGuard
	mailer        domain.Mailer
	tasks         domain.TaskRunner
	audit         *security.SecurityLogger
	activationURL string
	now           func() time.Time
}

func NewAuthUsecase(deps AuthDeps) domain.AuthUsecase {
	audit := deps.Audit
	if audit == nil {
		audit = security.DefaultLogger()
	}
	return &authUsecase{
		userRepo:      deps.Users,
		tokenRepo:     deps.Tokens,
		issuer:        deps.Issuer,
		guard:         deps.Guard,
		mailer:        deps.Mailer,
		tasks:         deps.Tasks,
		audit:         audit,
		activationURL: deps.ActivationURL,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an inactive account, or refreshes a never-activated one, and sends a fresh activation link.
func (u *authUsecase) Register(ctx context.Context, in domain.RegisterInput) error {
	email := normalizeEmail(in.Email)
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return apperror.Internal(err)
	}
	now := u.now()

	user, err := u.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Activated {
			return apperror.Conflict("Email is already registered")
		}
		user.FirstName = strings.TrimSpace(in.FirstName)
		user.LastName = strings.TrimSpace(in.LastName)
		user.PasswordHash = hash
		user.UpdatedAt = now
		if err := u.userRepo.Update(ctx, user); err != nil {
			return apperror.Internal(err)
		}
	case errors.Is(err, domain.ErrNotFound):
		user = &domain.User{
			FirstName:    strings.TrimSpace(in.FirstName),
			LastName:     strings.TrimSpace(in.LastName),
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := u.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return apperror.Conflict("Email is already registered")
			}
			return apperror.Internal(err)
		}
	default:
		return apperror.Internal(err)
	}

	token, err := u.issueActivationToken(ctx, user.ID)
	if err != nil {
		return apperror.Internal(err)
	}
	u.sendActivationEmail(user, token)
	return nil
}

// issueActivationToken invalidates any outstanding token before creating the new one.
func (u *authUsecase) issueActivationToken(ctx context.Context, userID int64) (string, error) {
	if err := u.tokenRepo.InvalidateAllForUser(ctx, userID); err != nil {
		return "", err
	}
	value, err := security.GenerateSecureToken(activationTokenBytes)
	if err != nil {
		return "", err
	}
	now := u.now()
	t := &domain.ActivationToken{
		UserID:    userID,
		Token:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.ActivationTokenTTL),
	}
	if err := u.tokenRepo.Create(ctx, t); err != nil {
		return "", err
	}
	return value, nil
}

func (u *authUsecase) sendActivationEmail(user *domain.User, token string) {
	msg := domain.MailMessage{
		To:   user.Email,
		Kind: domain.MailActivation,
		Data: map[string]string{
			"name": user.FullName(),
			"link": u.activationURL + "?token=" + url.QueryEscape(token),
		},
	}
	u.tasks.Go("mail:activation", func(ctx context.Context) error {
		return u.mailer.Dispatch(ctx, msg)
	})
}

func (u *authUsecase) Activate(ctx context.Context, token string) error {
	t, err := u.tokenRepo.GetByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.BadRequest("Invalid activation Token")
		}
		return apperror.Internal(err)
	}

	user, err := u.userRepo.GetByID(ctx, t.UserID)
	if err != nil {
		return notFoundOr(err, "User not found")
	}
	if user.Activated {
		return apperror.BadRequest("Account is already activated")
	}
	if t.Used {
		return apperror.BadRequest("Activation token is already used")
	}
	if t.Expired(u.now()) {
		return apperror.BadRequest("Activation Token is expired")
	}

	user.Activated = true
	user.UpdatedAt = u.now()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return apperror.Internal(err)
	}
	if err := u.tokenRepo.MarkUsed(ctx, t.ID); err != nil {
		return apperror.Internal(err)
	}

	u.audit.LogAccountActivated(ctx, strconv.FormatInt(user.ID, 10))
	return nil
}

func (u *authUsecase) Login(ctx context.Context, in domain.LoginInput) (*domain.LoginResult, error) {
	email := normalizeEmail(in.Email)

	blocked, err := u.guard.IsBlocked(ctx, email, in.IP)
	if err != nil {
		// fail open, the tracker is best effort
		logger.Log.Warn("Login guard unavailable", slog.Any("error", err))
	}
	if blocked {
		u.audit.LogLoginBlocked(ctx, email, in.IP, in.UserAgent, in.RequestID)
		return nil, apperror.New(http.StatusTooManyRequests, "Too many failed login attempts. Please try again later.", nil)
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if user == nil || !security.CheckPassword(user.PasswordHash, in.Password) {
		if _, _, err := u.guard.RecordFailedAttempt(ctx, email, in.IP, in.UserAgent, in.RequestID); err != nil {
			logger.Log.Warn("Failed to record login attempt", slog.Any("error", err))
		}
		return nil, apperror.Unauthorized("Invalid email or password")
	}
	if !user.Activated {
		return nil, apperror.Forbidden("Account is not activated")
	}
	if user.Locked {
		return nil, apperror.Forbidden("Account is locked")
	}

	token, expiresAt, err := u.issuer.Issue(user)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := u.guard.ClearAttempts(ctx, email, in.IP); err != nil {
		logger.Log.Warn("Failed to clear login attempts", slog.Any("error", err))
	}
	u.audit.LogLoginSuccess(ctx, strconv.FormatInt(user.ID, 10), in.IP, in.RequestID)

	return &domain.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}

// PurgeStaleTokens removes expired tokens and used tokens older than their validity window.
func (u *authUsecase) PurgeStaleTokens(ctx context.Context) (int64, error) {
	return u.tokenRepo.DeleteStale(ctx, u.now().Add(-domain.ActivationTokenTTL))
}
