package association

import (
	"context"
	"sync"

	"github.com/goliatone/go-meetings/registry"
)

// routedRoles fixes the evaluation order of entity roles so recipient
// lists come out deterministic regardless of map iteration.
var routedRoles = []registry.EntityRole{registry.RoleActor, registry.RoleObject, registry.RoleTarget}

// Recipients computes the per-channel recipient sets for one activity.
// Each routed association resolves at most once per (role, name) pair;
// independent names resolve concurrently while dependent names serialize
// through the context memo. The returned lists preserve declaration order
// with duplicates removed. Roles absent from contexts (an activity without
// a target, for example) are skipped.
func Recipients(ctx context.Context, spec registry.ActivityType, contexts map[registry.EntityRole]*Context) (map[registry.Channel][]string, error) {
	type lookup struct {
		role registry.EntityRole
		name string
	}

	// Kick off every distinct (role, association) resolution up front.
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		results  = make(map[lookup]Value)
		firstErr error
	)
	seen := make(map[lookup]bool)
	for _, stream := range spec.Streams {
		for _, role := range routedRoles {
			assocCtx := contexts[role]
			if assocCtx == nil {
				continue
			}
			for _, name := range stream.Router[role] {
				if !assocCtx.Resolves(name) {
					// Not every entity type exposes every routed
					// association; a user target has no member list.
					continue
				}
				key := lookup{role: role, name: name}
				if seen[key] {
					continue
				}
				seen[key] = true
				wg.Add(1)
				go func(key lookup, assocCtx *Context) {
					defer wg.Done()
					value, err := assocCtx.Get(ctx, key.name)
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						if firstErr == nil {
							firstErr = err
						}
						return
					}
					results[key] = value
				}(key, assocCtx)
			}
		}
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	out := make(map[registry.Channel][]string, len(spec.Streams))
	for channel, stream := range spec.Streams {
		var recipients []string
		dedupe := make(map[string]bool)
		for _, role := range routedRoles {
			if contexts[role] == nil {
				continue
			}
			for _, name := range stream.Router[role] {
				value := results[lookup{role: role, name: name}]
				for _, id := range value.Principals() {
					if id == "" || dedupe[id] {
						continue
					}
					dedupe[id] = true
					recipients = append(recipients, id)
				}
			}
		}
		out[channel] = recipients
	}
	return out, nil
}
