package scripts

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/milk9111/pinball/logger"
)

// Factory builds the script for a table id.
type Factory func(id string, log *zap.Logger) Script

// Registry maps table ids (see assets.TableID) to script factories. Ids are
// matched without case.
type Registry struct {
	factories map[string]Factory
	log       *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		log:       logger.OrNop(log),
	}
}

// DefaultRegistry knows every table shipped with rules.
func DefaultRegistry(log *zap.Logger) *Registry {
	r := NewRegistry(log)
	r.Register("exampletable", NewDrainRelease)
	r.Register("tna", NewTNA)
	return r
}

func (r *Registry) Register(id string, f Factory) {
	r.factories[strings.ToLower(id)] = f
}

// IDs lists the registered table ids in order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve returns the script for id. An unknown id gets a script that does
// nothing, with a warning.
func (r *Registry) Resolve(id string) Script {
	key := strings.ToLower(id)
	f, ok := r.factories[key]
	if !ok {
		r.log.Warn("no rules for table, running without scripts", zap.String("table", id), zap.Strings("known", r.IDs()))
		return noopScript{id: key}
	}
	return f(key, r.log)
}
