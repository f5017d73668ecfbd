package animator

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"go.uber.org/zap"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithCapacity preallocates room for n instances.
//
// Parameters:
//   - n: the number of instances to reserve
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the capacity option to an animator
func WithCapacity(n int) AnimatorBuilderOption {
	return func(a *animator) {
		a.reserve(n)
	}
}

// WithInstance registers an instance during construction. A duplicate name is logged and skipped.
//
// Parameters:
//   - name: the scene object to drive
//   - s: its initial state
//
// Returns:
//   - AnimatorBuilderOption: a function that adds the instance to an animator
func WithInstance(name string, s State) AnimatorBuilderOption {
	return func(a *animator) {
		if _, err := a.Add(name, s); err != nil {
			logger.Log.Warn("animator instance skipped", zap.String("instance", name), zap.Error(err))
		}
	}
}
