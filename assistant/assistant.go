/*
Package assistant assembles the natural-language context bundle for the
conversational completion service and returns its reply verbatim.

The assistant is advisory only. It reads a domain snapshot, never mutates
anything, and its failures stay inside this package's error space so a slow
or broken completion service can never affect core state. Pass a ctx with a
deadline to bound the call.
*/
package assistant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yeorum/leavedesk/leave"
)

// ErrAssistant wraps every completion-service failure.
var ErrAssistant = errors.New("assistant failure")

// Completer is a single request/response exchange with a conversational
// completion service.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Advisor builds the context bundle and relays questions.
type Advisor struct {
	completer Completer
	log       *zap.Logger
}

func NewAdvisor(c Completer, log *zap.Logger) *Advisor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Advisor{completer: c, log: log}
}

// Ask answers a free-text question for employee using the snapshot: name,
// computed remaining balance, full personal history, the policy statement
// with the configured daily limit, and the exclusion list. The raw reply is
// returned as-is and must be treated as read-only advisory text.
func (a *Advisor) Ask(ctx context.Context, snap *leave.Snapshot, employee, question string) (string, error) {
	balance, err := leave.RemainingLeave(snap, employee)
	if err != nil {
		return "", err
	}

	prompt := buildPrompt(snap, employee, balance, question)
	reply, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		a.log.Warn("completion failed", zap.String("employee", employee), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrAssistant, err)
	}
	return reply, nil
}
