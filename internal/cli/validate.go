package cli

import (
	"fmt"

	"github.com/julianstephens/tminus/internal/validation"
)

type ValidateCmd struct {
	Strict bool `help:"Exit with an error when conflicts are found."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	countdowns, projects := a.Tracker.Snapshot()
	ctx.printf("Validating %d countdowns and %d projects...\n", len(countdowns), len(projects))

	result := validation.New(a.Tracker.Location()).Validate(countdowns, projects)

	ctx.println()
	ctx.println(result.FormatReport())

	if result.HasConflicts() && cmd.Strict {
		return fmt.Errorf("%d conflicts found", len(result.Conflicts))
	}
	return nil
}
