package agent

import (
	"github.com/AIter-Team/Flo/core"
	"github.com/AIter-Team/Flo/internal/util"
)

// Provider supplies dynamic instruction text at runtime.
// Implementations can derive instructions from session state, environment, etc.
type Provider interface {
	Instruction(sess *core.Session) (string, error)
}

// Func is a functional adapter to allow ordinary functions to be used as Providers.
type Func func(sess *core.Session) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(sess *core.Session) (string, error) { return f(sess) }

// Instruction represents either a static instruction string or a dynamic
// provider. Either way the resolved text is treated as a template over the
// session profile and state, re-rendered on every step so personalization
// changes take effect within the same turn.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(sess *core.Session) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve produces the final instruction text for one step: the provider (if
// any) is invoked, then template variables are substituted from the current
// session profile and state.
func (i Instruction) Resolve(sess *core.Session) (string, error) {
	text := i.text
	if i.provider != nil {
		resolved, err := i.provider.Instruction(sess)
		if err != nil {
			return "", err
		}
		text = resolved
	}
	return util.RenderTemplate(text, instructionData(sess))
}

// instructionData assembles the template variables visible to instruction
// prompts: session state keys overlaid with the canonical profile fields.
func instructionData(sess *core.Session) map[string]any {
	profile := sess.GetProfile()
	data := sess.StateSnapshot()
	data["user_name"] = profile.Name
	data["user_language"] = profile.Language
	data["user_currency"] = profile.Currency
	data["balance"] = profile.Balance
	return data
}
