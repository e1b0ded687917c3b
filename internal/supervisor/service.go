package supervisor

import (
	"context"
	"fmt"
)

// Runner is a server whose Start blocks until ctx is cancelled or the
// listener fails. Both httpserver.Server and edge.Server satisfy it.
type Runner interface {
	Start(ctx context.Context) error
}

// ServerService adapts a Runner to suture.Service.
type ServerService struct {
	name   string
	runner Runner
}

// NewServerService wraps runner under name, which suture uses in its events.
func NewServerService(name string, runner Runner) *ServerService {
	return &ServerService{name: name, runner: runner}
}

// Serve implements suture.Service. A failure while ctx is live is returned
// so the supervisor restarts the server.
func (s *ServerService) Serve(ctx context.Context) error {
	err := s.runner.Start(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return nil
}

func (s *ServerService) String() string {
	return s.name
}
