package kiln

import (
	"github.com/xraph/go-utils/di"
	"github.com/xraph/go-utils/log"
)

// construct picks the first constructor, most parameters first, whose
// parameters all resolve, and invokes it. Parameter errors are fatal; an
// absent required parameter moves on to the next candidate.
func (impl *Implementation) construct(id TypeID, r *resolution) (any, error) {
	candidates := impl.candidates()

	for i, ctor := range candidates {
		args, ok, err := r.arguments(ctor.Params)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		r.provider.flagAmbiguity(id, impl, candidates, i)

		return ctor.New(args)
	}

	return nil, ErrNoSatisfiableConstructor(id, impl.Name)
}

// arguments resolves params in order. ok is false when a required parameter
// has no descriptor.
func (r *resolution) arguments(params []Param) ([]any, bool, error) {
	args := make([]any, len(params))

	for i, param := range params {
		switch param.Mode {
		case di.DepLazy:
			if !r.provider.canResolve(param.Type) {
				return nil, false, nil
			}

			args[i] = NewLazy[any](r, param.Type)
		case di.DepLazyOptional:
			args[i] = NewOptionalLazy[any](r, param.Type)
		default:
			instance, found, err := r.provider.resolve(param.Type, r.current())
			if err != nil {
				return nil, false, err
			}

			if !found && !param.Mode.IsOptional() {
				return nil, false, nil
			}

			args[i] = instance
		}
	}

	return args, true, nil
}

// satisfiable reports, without constructing anything, whether every required
// parameter of ctor has a descriptor.
func (p *Provider) satisfiable(ctor Constructor) bool {
	for _, param := range ctor.Params {
		if param.Mode.IsOptional() {
			continue
		}

		if !p.canResolve(param.Type) {
			return false
		}
	}

	return true
}

// flagAmbiguity warns when a later constructor with the same parameter count
// as the chosen one could also have been satisfied. Declaration order decides.
func (p *Provider) flagAmbiguity(id TypeID, impl *Implementation, candidates []Constructor, chosen int) {
	arity := len(candidates[chosen].Params)

	for _, other := range candidates[chosen+1:] {
		if len(other.Params) != arity {
			return
		}

		if p.satisfiable(other) {
			p.logger.Warn("ambiguous constructor selection",
				log.String("service", id.String()),
				log.String("implementation", impl.Name),
				log.Int("params", arity),
			)

			return
		}
	}
}
