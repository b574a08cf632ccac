// Package registry implements spec.md §9's factory: an explicit,
// caller-constructed map from family name to constructor, rather than
// package-level init() registration. The original implementation
// registers every table type into a global static map at static-init
// time; func's redesign note says that pattern should become an
// explicit builder here so that which families a program links in
// is visible at the call site instead of hidden in side effects.
package registry

import (
	"fmt"

	"github.com/shawn-mcadam/func/funccontainer"
	"github.com/shawn-mcadam/func/internal/ordered"
	"github.com/shawn-mcadam/func/lut"
	"github.com/shawn-mcadam/func/lutdomain"
	"github.com/shawn-mcadam/func/poly"
)

// Constructor builds a table of a given family from a function
// container and a domain/step-size triple.
type Constructor[T poly.Float] func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error)

// Registry maps family names to constructors.
type Registry[T poly.Float] struct {
	constructors map[string]Constructor[T]
}

// New returns an empty registry.
func New[T poly.Float]() *Registry[T] {
	return &Registry[T]{constructors: make(map[string]Constructor[T])}
}

// Register adds (or replaces) the constructor for name.
func (r *Registry[T]) Register(name string, ctor Constructor[T]) *Registry[T] {
	r.constructors[name] = ctor
	return r
}

// Build looks up name and constructs a table with it.
func (r *Registry[T]) Build(name string, fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
	ctor, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: no table family registered under %q", lutdomain.ErrInvalidArgument, name)
	}
	return ctor(fc, p)
}

// Names lists every registered family name, in deterministic order.
func (r *Registry[T]) Names() []string {
	return ordered.SortedKeys(r.constructors)
}

// Standard returns a Registry pre-populated with every family package
// lut exports, under names built the way
// original_source/src/table_types/RegistrarDefinitionsStandard.cpp
// names its FUNC_REGISTER_EACH_ULUT_IMPL calls: a Uniform/NonUniform/
// NonUniformPseudo grid prefix, the family name, and a Table suffix.
// HighDegreeInterpolation and Padé are parameterized constructors, so
// Standard registers a representative, fully spelled-out set of them
// (orders 5-8 for HighDegreeInterpolation; every (M,N) up to
// poly.MaxCoefs coefficients for Padé) rather than every family the
// original's template instantiation could in principle produce.
func Standard[T poly.Float]() *Registry[T] {
	r := New[T]()
	r.Register("UniformConstantTaylorTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewConstantTaylor(fc, p)
	})
	r.Register("UniformLinearTaylorTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewLinearTaylor(fc, p)
	})
	r.Register("UniformLinearInterpolationTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewLinearInterpolation(fc, p)
	})
	r.Register("UniformQuadraticTaylorTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewQuadraticTaylor(fc, p)
	})
	r.Register("UniformQuadraticInterpolationTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewQuadraticInterpolation(fc, p)
	})
	r.Register("UniformCubicTaylorTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewCubicTaylor(fc, p)
	})
	r.Register("UniformCubicInterpolationTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewCubicInterpolation(fc, p)
	})
	r.Register("UniformCubicHermiteTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewCubicHermite(fc, p)
	})
	r.Register("NonUniformLinearInterpolationTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewLinearInterpolationNonuniform(fc, p)
	})
	r.Register("NonUniformPseudoLinearInterpolationTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewLinearInterpolationNonuniformPseudo(fc, p)
	})
	r.Register("NonUniformCubicHermiteTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewCubicHermiteNonuniform(fc, p)
	})
	r.Register("NonUniformPseudoCubicHermiteTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewCubicHermiteNonuniformPseudo(fc, p)
	})
	r.Register("NonUniformQuadraticTaylorTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewQuadraticTaylorNonuniform(fc, p)
	})
	r.Register("NonUniformPseudoQuadraticTaylorTable", func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
		return lut.NewQuadraticTaylorNonuniformPseudo(fc, p)
	})

	for order := 5; order <= poly.MaxCoefs; order++ {
		order := order
		r.Register(fmt.Sprintf("UniformHighDegreeInterpolation%dTable", order), func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
			return lut.NewHighDegreeInterpolation(fc, p, order)
		})
	}

	for m := 0; m <= poly.MaxCoefs-2; m++ {
		for n := 1; m+1+n <= poly.MaxCoefs; n++ {
			m, n := m, n
			r.Register(fmt.Sprintf("UniformPade%dx%dTable", m, n), func(fc *funccontainer.Container[T], p lut.Parameters[T]) (lut.Evaluator[T], error) {
				return lut.NewPade(fc, p, m, n)
			})
		}
	}

	return r
}
