package location

import "context"

// PreferenceRepository persists the per-client location preference.
// The prompt flag is read once at startup and written through on every
// permission outcome, success or failure.
type PreferenceRepository interface {
	// PromptAsked reports whether the permission prompt was already shown.
	PromptAsked(ctx context.Context) (bool, error)

	// SetPromptAsked records that the prompt was shown.
	SetPromptAsked(ctx context.Context, asked bool) error
}
