package actions

import (
	"context"

	"hepflow/internal/holdingpen"
)

// Mark returns a step that writes value under key in the object's scratch
// state, overwriting whatever was there.
func Mark(key string, value any) StepFunc {
	return func(ctx context.Context, obj *holdingpen.Object, eng *holdingpen.Engine) error {
		obj.Extra.SetFlag(key, value)
		return nil
	}
}

// IsMarked returns a predicate that is true iff key is set to a truthy value.
func IsMarked(key string) PredicateFunc {
	return func(obj *holdingpen.Object) bool {
		return obj.Extra.Flagged(key)
	}
}
