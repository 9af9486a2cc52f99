package commands

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"
)

// ErrExportAndClear is returned when both legacy actions are requested.
var ErrExportAndClear = errors.New("--export-comments and --clear-comments cannot be used together")

// LegacyFlags keeps the root-level --export-comments and --clear-comments
// flags working alongside the export and clear subcommands.
type LegacyFlags struct {
	export *ExportCmd
	clear  *ClearCmd

	exportComments bool
	clearComments  bool
}

// NewLegacyFlags creates the legacy flags, sharing option values with the
// export and clear commands.
func NewLegacyFlags(export *ExportCmd, clear *ClearCmd) *LegacyFlags {
	return &LegacyFlags{export: export, clear: clear}
}

// Flags returns the legacy flags for registration on the root command.
// They are local so they do not clash with the subcommands' own flags.
func (l *LegacyFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "export-comments",
			Usage:       "export comments and exit (same as 'export')",
			Local:       true,
			Destination: &l.exportComments,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "format for --export-comments (markdown, json)",
			Value:       "markdown",
			Local:       true,
			Destination: &l.export.format,
		},
		&cli.BoolFlag{
			Name:        "clear-comments",
			Usage:       "delete all comments of the branch and exit (same as 'clear')",
			Local:       true,
			Destination: &l.clearComments,
		},
		&cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "skip the confirmation of --clear-comments",
			Local:       true,
			Destination: &l.clear.yes,
		},
	}
}

// Requested reports whether a legacy action was asked for.
func (l *LegacyFlags) Requested() bool {
	return l.exportComments || l.clearComments
}

// Run performs the requested legacy action.
func (l *LegacyFlags) Run(ctx context.Context, c *cli.Command) error {
	switch {
	case l.exportComments && l.clearComments:
		return ErrExportAndClear
	case l.exportComments:
		return l.export.export(ctx, c.Root().Writer, c.Root().ErrWriter)
	default:
		return l.clear.clear(ctx, c.Root().Writer)
	}
}
