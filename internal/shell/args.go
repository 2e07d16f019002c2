package shell

import (
	"github.com/mattn/go-shellwords"

	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
)

// SplitArgs splits a command line the way a POSIX shell would, without env or
// backtick expansion. Operators such as ; or | are rejected rather than dropped.
// Position counts runes, not bytes.
func SplitArgs(line string) ([]string, error) {
	p := shellwords.NewParser()
	args, err := p.Parse(line)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cannot parse command")
	}
	if p.Position >= 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unexpected %q; quote it to use it literally", string([]rune(line)[p.Position]))
	}
	return args, nil
}
