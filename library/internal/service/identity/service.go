package identity

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/adelbaev/lending-service/library/config"
	"github.com/adelbaev/lending-service/library/internal/errs"
	cb "github.com/adelbaev/lending-service/pkg/circuit_breaker"
)

// Service is the HTTP client for the identity service. The ledger only
// ever asks it one question: does this user exist and may it borrow.
type Service struct {
	log    *zap.Logger
	client *http.Client
	cfg    config.IdentityHTTPServer
	cb     cb.CircuitBreaker
}

func NewService(log *zap.Logger, cfg config.Config) *Service {
	const (
		failureThreshold = 5
		recoveryRequests = 2
	)
	return &Service{
		log:    log.Named("identity-client"),
		client: &http.Client{Timeout: time.Minute},
		cfg:    cfg.IdentityHTTPServer,
		cb:     cb.New(failureThreshold, 30*time.Second, recoveryRequests),
	}
}

// UserExists resolves the opaque borrower id against the identity service.
// A token may outlive its user; a deleted user must not borrow. An unknown
// user is a policy outcome, not a fault — it must not trip the breaker.
func (s *Service) UserExists(ctx context.Context, userID string) error {
	var policyErr error
	err := s.cb.Call(func() error {
		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			fmt.Sprintf("http://%s/api/v1/users/%s", net.JoinHostPort(s.cfg.Host, s.cfg.Port), userID),
			nil)
		if err != nil {
			return err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			return nil
		case http.StatusNotFound:
			policyErr = errs.ErrUnauthorized
			return nil
		default:
			return fmt.Errorf("identity service: unexpected status %d", resp.StatusCode)
		}
	})
	if err != nil {
		return err
	}
	return policyErr
}
