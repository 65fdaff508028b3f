// Package assistant decides, per question, whether the server answers or
// the embedded engine does.
package assistant

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/FatjonaGashi/library-management-system/catalog"
	"github.com/FatjonaGashi/library-management-system/engine"
)

// ============================================================================
// ASSISTANT: Remote/local composition
// ============================================================================
// Per submission, exactly one of {remote, local} runs to completion:
//
//	prefer remote off              → local
//	prefer remote on, no token     → local, "requires authentication" prefix
//	prefer remote on, token        → remote
//	remote call returned an error  → local, "failed" prefix
//
// Prefixes only go on text results. Tables come back unmodified.
// No retries. Any timeout belongs to the Remote implementation.
// ============================================================================

// Disclosure prefixes prepended to local text answers on a degraded path.
const (
	UnauthenticatedPrefix = "Server AI requires authentication. Using local AI instead. "
	RemoteFailedPrefix    = "Server AI failed. Using local AI instead. "
)

var errNoRemote = errors.New("no remote configured")

// Remote answers a query on the server. *remote.Client satisfies it.
type Remote interface {
	Query(ctx context.Context, token, query string) (engine.Result, error)
}

// Path records which branch produced an Outcome.
type Path string

const (
	PathLocal                   Path = "local"
	PathRemote                  Path = "remote"
	PathFallbackUnauthenticated Path = "fallback-unauthenticated"
	PathFallbackRemoteFailed    Path = "fallback-remote-failed"
)

// Request is one question plus the caller's data snapshot.
// Books and Users are the unscoped collections the client holds; the
// assistant narrows them to what Viewer may see before computing locally.
type Request struct {
	Query      string
	Viewer     *catalog.User
	Credential string
	Books      []catalog.Book
	Users      []catalog.User
}

// Outcome is the answer and how it was obtained.
// RemoteErr is set on PathFallbackRemoteFailed.
type Outcome struct {
	Result    engine.Result
	Path      Path
	RemoteErr error
}

// Assistant composes a Remote with the local engine.
type Assistant struct {
	mu           sync.Mutex
	remote       Remote
	preferRemote bool
	logger       *zap.Logger
	engineOpts   []engine.Option
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithRemote sets the server collaborator. Without one, a preferred remote
// path behaves as a failed call.
func WithRemote(r Remote) Option { return func(a *Assistant) { a.remote = r } }

// PreferRemote sets the initial state of the "use server AI" toggle.
func PreferRemote(on bool) Option { return func(a *Assistant) { a.preferRemote = on } }

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assistant) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithEngineOptions passes options through to engine.Interpret.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(a *Assistant) { a.engineOpts = append(a.engineOpts, opts...) }
}

// New builds an Assistant. The toggle starts off.
func New(opts ...Option) *Assistant {
	a := &Assistant{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetPreferRemote flips the toggle for later submissions.
func (a *Assistant) SetPreferRemote(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.preferRemote = on
}

// PrefersRemote reports the toggle state.
func (a *Assistant) PrefersRemote() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.preferRemote
}

// Ask answers req. It never fails; transport errors degrade to the local
// engine. Concurrent calls are serialized so answers arrive in submission
// order.
func (a *Assistant) Ask(ctx context.Context, req Request) Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.preferRemote {
		return Outcome{Result: a.local(req), Path: PathLocal}
	}

	if req.Credential == "" {
		a.logger.Warn("server AI requested without credential, answering locally",
			zap.String("query", req.Query))
		return Outcome{
			Result: disclose(UnauthenticatedPrefix, a.local(req)),
			Path:   PathFallbackUnauthenticated,
		}
	}

	err := errNoRemote
	if a.remote != nil {
		var res engine.Result
		res, err = a.remote.Query(ctx, req.Credential, req.Query)
		if err == nil {
			return Outcome{Result: res, Path: PathRemote}
		}
	}

	a.logger.Warn("server AI failed, answering locally",
		zap.String("query", req.Query),
		zap.Error(err))
	return Outcome{
		Result:    disclose(RemoteFailedPrefix, a.local(req)),
		Path:      PathFallbackRemoteFailed,
		RemoteErr: err,
	}
}

func (a *Assistant) local(req Request) engine.Result {
	snap := catalog.Scope(req.Viewer, req.Books, req.Users)

	var actor catalog.ID
	if req.Viewer != nil {
		actor = req.Viewer.ID
	}
	return engine.Interpret(req.Query, snap.Books, snap.Users, actor, a.engineOpts...)
}

func disclose(prefix string, res engine.Result) engine.Result {
	if !res.IsText() {
		return res
	}
	return engine.NewText(prefix + res.Text)
}
