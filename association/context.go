package association

import (
	"context"
	"sync"

	"github.com/goliatone/go-meetings/pkg/types"
)

// Context memoizes association resolution for a single (entity, pass)
// pair. It is exclusively owned by the pass that created it, never
// persisted, and discarded after the pass completes.
//
// The first Get for a name runs its resolver; concurrent Gets for the same
// name share the in-flight resolution, and later Gets return the cached
// value or error without re-invoking the resolver. A failure in any
// resolver cancels the pass: every outstanding and subsequent Get returns
// the first failure.
type Context struct {
	registrar *Registrar
	entity    types.ActivityEntity

	passCtx context.Context
	cancel  context.CancelCauseFunc

	mu    sync.Mutex
	memo  map[string]*resolution
	waits map[string]string
}

type resolution struct {
	done  chan struct{}
	value Value
	err   error
}

// NewContext opens a resolution context for the entity. The parent context
// bounds every resolver invoked during the pass.
func (r *Registrar) NewContext(parent context.Context, entity types.ActivityEntity) *Context {
	if parent == nil {
		parent = context.Background()
	}
	passCtx, cancel := context.WithCancelCause(parent)
	return &Context{
		registrar: r,
		entity:    entity,
		passCtx:   passCtx,
		cancel:    cancel,
		memo:      make(map[string]*resolution),
		waits:     make(map[string]string),
	}
}

// Entity returns the entity this context resolves for.
func (c *Context) Entity() types.ActivityEntity { return c.entity }

// Resolves reports whether the entity type behind this context registers
// the named association. The router uses it to skip names an entity type
// does not expose, such as membership associations on a user target.
func (c *Context) Resolves(name string) bool {
	return c.registrar.Has(c.entity.EntityType, name)
}

// Close releases the pass. Pending resolutions are cancelled.
func (c *Context) Close() {
	c.cancel(context.Canceled)
}

// Get resolves the named association, memoized per context instance.
func (c *Context) Get(ctx context.Context, name string) (Value, error) {
	return c.get(ctx, name, nil)
}

type chainGetter struct {
	owner *Context
	chain []string
}

func (g chainGetter) Get(ctx context.Context, name string) (Value, error) {
	return g.owner.get(ctx, name, g.chain)
}

func (c *Context) get(ctx context.Context, name string, chain []string) (Value, error) {
	for _, seen := range chain {
		if seen == name {
			err := types.NewCycleError(append(append([]string{}, chain...), name))
			c.cancel(err)
			return Value{}, err
		}
	}
	c.mu.Lock()
	if entry, ok := c.memo[name]; ok {
		if len(chain) == 0 {
			c.mu.Unlock()
			return c.await(ctx, entry)
		}
		// The caller is itself an in-flight resolution about to block on
		// another one. A chain scan alone cannot see cycles split across
		// goroutines (the router starts one per routed name), so walk the
		// wait-for edges: if the awaited resolution already waits on the
		// caller, blocking would deadlock.
		cur := chain[len(chain)-1]
		next := name
		for {
			if next == cur {
				err := types.NewCycleError(append(append([]string{}, chain...), name))
				c.mu.Unlock()
				c.cancel(err)
				return Value{}, err
			}
			successor, waiting := c.waits[next]
			if !waiting {
				break
			}
			next = successor
		}
		c.waits[cur] = name
		c.mu.Unlock()
		value, err := c.await(ctx, entry)
		c.mu.Lock()
		delete(c.waits, cur)
		c.mu.Unlock()
		return value, err
	}
	if c.passCtx.Err() != nil {
		c.mu.Unlock()
		return Value{}, failureCause(c.passCtx)
	}
	entry := &resolution{done: make(chan struct{})}
	c.memo[name] = entry
	c.mu.Unlock()

	fn, ok := c.registrar.resolver(c.entity.EntityType, name)
	if !ok {
		entry.err = types.NewConfigurationError(
			"unregistered association " + name + " for entity type " + c.entity.EntityType)
	} else {
		deps := chainGetter{owner: c, chain: append(append([]string{}, chain...), name)}
		entry.value, entry.err = fn(c.passCtx, deps, c.entity)
	}
	if entry.err != nil {
		// Fail the whole pass: partial recipient sets are unsafe to route on.
		c.cancel(entry.err)
	}
	close(entry.done)
	return entry.value, entry.err
}

func (c *Context) await(ctx context.Context, entry *resolution) (Value, error) {
	select {
	case <-entry.done:
		return entry.value, entry.err
	case <-ctx.Done():
		return Value{}, ctx.Err()
	case <-c.passCtx.Done():
		// Either another association failed or the pass was closed.
		select {
		case <-entry.done:
			return entry.value, entry.err
		default:
			return Value{}, failureCause(c.passCtx)
		}
	}
}

func failureCause(ctx context.Context) error {
	if cause := context.Cause(ctx); cause != nil {
		return cause
	}
	return ctx.Err()
}
