package tablesync

import (
	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/gogf/gf/v2/text/gstr"
)

// Strategy decides how an existing table is brought to its definition.
type Strategy string

const (
	// Safe never touches an existing table.
	Safe Strategy = "safe"
	// Alter applies the minimal set of changes.
	Alter Strategy = "alter"
	// Drop drops and recreates the table.
	Drop Strategy = "drop"
)

// ParseStrategy validates a strategy name. The empty string means unset.
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(gstr.ToLower(gstr.Trim(name))); s {
	case "", Safe, Alter, Drop:
		return s, nil
	}
	return "", gerror.NewCodef(gcode.CodeInvalidConfiguration, "unknown migration strategy %q", name)
}

// ResolveStrategy picks the effective strategy of a table: the declared one,
// else the pool default, else safe in production and alter elsewhere.
// Production never drops and alters only when explicitly allowed.
func ResolveStrategy(declared, poolDefault Strategy, production, allowAlterInProduction bool) Strategy {
	strategy := declared
	if strategy == "" {
		strategy = poolDefault
	}
	if strategy == "" {
		strategy = Alter
		if production {
			strategy = Safe
		}
	}
	if production {
		switch {
		case strategy == Drop:
			strategy = Safe
		case strategy == Alter && !allowAlterInProduction:
			strategy = Safe
		}
	}
	return strategy
}
