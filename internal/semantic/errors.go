package semantic

import (
	"fmt"

	cerrors "github.com/primelang/primec/internal/errors"
	"github.com/primelang/primec/internal/token"
)

// semErrf builds a Semantic-category compiler error with no position
// (matching spec.md §7's "actionable without line numbers" contract for the
// categories this validator raises).
func semErrf(format string, args ...interface{}) error {
	return cerrors.New(cerrors.Semantic, fmt.Sprintf(format, args...))
}

// semErrAtf attaches a position when one is available, for the CLI's
// optional caret-pointer formatting path.
func semErrAtf(pos token.Position, format string, args ...interface{}) error {
	return cerrors.NewAt(cerrors.Semantic, fmt.Sprintf(format, args...), pos)
}
