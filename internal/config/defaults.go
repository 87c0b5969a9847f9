package config

const (
	// ConfigFileName is the name of the config file.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 1

	// DefaultRootLabel is the text of the tree root when none is configured.
	DefaultRootLabel = "tasks"

	// Glyph set names.
	GlyphsUnicode = "unicode"
	GlyphsASCII   = "ascii"

	// glyphsEnv overrides the configured glyph set.
	glyphsEnv = "TREELINE_GLYPHS"

	// Default palette (ANSI 256 codes).
	DefaultSelectedFG     = "230"
	DefaultSelectedBG     = "62"
	DefaultConnectorColor = "240"

	fileMode = 0o600
)
