// Package styles holds the color palettes and lipgloss styles shared by the
// TUI and the CLI output.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color

	// Line backgrounds, tinted from the background toward the diff colors.
	ColorAddedBg   color.Color
	ColorRemovedBg color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	SuccessStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style

	// Frame.
	HeaderStyle       lipgloss.Style
	HeaderBranchStyle lipgloss.Style
	HeaderModeStyle   lipgloss.Style
	FooterStyle       lipgloss.Style
	FooterKeyStyle    lipgloss.Style
	StatusStyle       lipgloss.Style
	PaneBorderStyle   lipgloss.Style

	// Commit log.
	LogSelectedStyle lipgloss.Style
	LogNormalStyle   lipgloss.Style
	LogShortIDStyle  lipgloss.Style
	LogMetaStyle     lipgloss.Style

	// Diff.
	FilePathStyle      lipgloss.Style
	FileStatusStyle    lipgloss.Style
	FileRuleStyle      lipgloss.Style
	HunkHeaderStyle    lipgloss.Style
	ExpandStyle        lipgloss.Style
	LineNumberStyle    lipgloss.Style
	AddedStyle         lipgloss.Style
	RemovedStyle       lipgloss.Style
	ContextStyle       lipgloss.Style
	CursorStyle        lipgloss.Style
	SearchMatchStyle   lipgloss.Style
	CurrentMatchStyle  lipgloss.Style
	CommentMarkerStyle lipgloss.Style
	ColumnDividerStyle lipgloss.Style

	// Modals.
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style
	ModalMetaStyle  lipgloss.Style
)

// Blend mixes b into a by t (0 is a, 1 is b) in the Lab color space.
func Blend(a, b color.Color, t float64) color.Color {
	ca, okA := colorful.MakeColor(a)
	cb, okB := colorful.MakeColor(b)
	if !okA || !okB {
		return a
	}
	return ca.BlendLab(cb, t).Clamped()
}

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	ColorAddedBg = Blend(p.Background, p.Success, 0.18)
	ColorRemovedBg = Blend(p.Background, p.Error, 0.18)

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSurface).
		Padding(0, 1)
	HeaderBranchStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Background(ColorSurface).
		Bold(true)
	HeaderModeStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Background(ColorSurface)
	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	FooterKeyStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	StatusStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	PaneBorderStyle = lipgloss.NewStyle().
		Foreground(ColorSurface)

	LogSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSurface).
		Bold(true)
	LogNormalStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	LogShortIDStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	LogMetaStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	FilePathStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	FileStatusStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	FileRuleStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	HunkHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	ExpandStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	LineNumberStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	AddedStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Background(ColorAddedBg)
	RemovedStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Background(ColorRemovedBg)
	ContextStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	CursorStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Bold(true)
	SearchMatchStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorWarning)
	CurrentMatchStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Bold(true)
	CommentMarkerStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)
	ColumnDividerStyle = lipgloss.NewStyle().
		Foreground(ColorSurface)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalMetaStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)
	surface := colorHexPtr(ColorSurface)
	warning := colorHexPtr(ColorWarning)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = secondary
	cfg.H4.Color = warning

	cfg.Strong.Color = primary
	cfg.HorizontalRule.Color = muted
	cfg.Code.Color = secondary

	return cfg
}
