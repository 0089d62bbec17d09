package builder

import (
	"fmt"

	"github.com/joshjon/kit/errtag"
)

// ErrTagStructural marks a malformed event stream: mismatched enter/exit,
// construction outside an open namespace, or a capture the current rule does
// not accept. It is a contract violation by the parser, not a user error, and
// aborts the build.
type ErrTagStructural struct{ errtag.InvalidArgument }

func (ErrTagStructural) Msg() string { return "Malformed rule event stream" }

func (e ErrTagStructural) Unwrap() error {
	return errtag.Tag[errtag.InvalidArgument](e.Cause())
}

// IsStructural reports whether err is a structural error.
func IsStructural(err error) bool {
	return errtag.HasTag[ErrTagStructural](err)
}

func structuralf(format string, args ...any) error {
	return errtag.Tag[ErrTagStructural](fmt.Errorf(format, args...))
}
