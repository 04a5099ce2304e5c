package markdown

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Option names understood by the converter. Flavors and callers may set
// other names; they are ignored.
const (
	OptionTables               = "tables"
	OptionStrikethrough        = "strikethrough"
	OptionTasklists            = "tasklists"
	OptionSimplifiedAutoLink   = "simplifiedAutoLink"
	OptionSimpleLineBreaks     = "simpleLineBreaks"
	OptionNoHeaderID           = "noHeaderId"
	OptionGHCompatibleHeaderID = "ghCompatibleHeaderId"
	OptionFootnotes            = "footnotes"
	OptionDefinitionLists      = "definitionLists"
	OptionTypographer          = "typographer"
	OptionRawHTML              = "rawHTML"
	OptionCompleteHTMLDocument = "completeHTMLDocument"
	OptionMetadata             = "metadata"
	OptionXHTML                = "xhtml"
	OptionOpenLinksInNewWindow = "openLinksInNewWindow"
	OptionEmoji                = "emoji"
)

// OptionNames lists the supported options in a stable order.
var OptionNames = []string{
	OptionTables,
	OptionStrikethrough,
	OptionTasklists,
	OptionSimplifiedAutoLink,
	OptionSimpleLineBreaks,
	OptionNoHeaderID,
	OptionGHCompatibleHeaderID,
	OptionFootnotes,
	OptionDefinitionLists,
	OptionTypographer,
	OptionRawHTML,
	OptionCompleteHTMLDocument,
	OptionMetadata,
	OptionXHTML,
	OptionOpenLinksInNewWindow,
	OptionEmoji,
}

// OptionDescriptions is shown as flag usage.
var OptionDescriptions = map[string]string{
	OptionTables:               "Enable support for tables syntax",
	OptionStrikethrough:        "Enable support for strikethrough syntax ~~text~~",
	OptionTasklists:            "Enable support for GFM tasklists",
	OptionSimplifiedAutoLink:   "Turn on/off GFM autolink style",
	OptionSimpleLineBreaks:     "Parse line breaks as <br>, like GitHub does",
	OptionNoHeaderID:           "Turn on/off generated header id",
	OptionGHCompatibleHeaderID: "Generate header ids compatible with github style",
	OptionFootnotes:            "Enable support for footnotes",
	OptionDefinitionLists:      "Enable support for definition lists",
	OptionTypographer:          "Replace quotes, dashes and ellipses with typographic characters",
	OptionRawHTML:              "Keep raw HTML in the output",
	OptionCompleteHTMLDocument: "Output a complete html document, including <html>, <head> and <body> tags",
	OptionMetadata:             "Enable support for document metadata (front matter)",
	OptionXHTML:                "Render XHTML style void elements",
	OptionOpenLinksInNewWindow: "Open all links in new windows",
	OptionEmoji:                "Enable emoji support. Ex: :smile:",
}

// Options holds option values keyed by option name. Values are booleans or strings.
type Options map[string]any

// Bool reports whether the option is enabled. Strings such as "true" count as enabled.
func (o Options) Bool(name string) bool {
	switch v := o[name].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	return false
}

// String returns the string value of the option.
func (o Options) String(name string) string {
	switch v := o[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// ResolveOptions merges flavor option values with explicit ones.
// Explicit values win over the flavor.
func ResolveOptions(flavor map[string]any, explicit Options) Options {
	resolved := make(Options, len(flavor)+len(explicit))
	for name, value := range flavor {
		resolved[name] = value
	}
	for name, value := range explicit {
		resolved[name] = value
	}
	return resolved
}

// IsKnownOption reports whether name is a supported option.
func IsKnownOption(name string) bool {
	return slices.Contains(OptionNames, name)
}

// NormalizeOptions maps option names case-insensitively to the supported
// names. Configuration loaders lowercase keys, so "simplelinebreaks" becomes
// "simpleLineBreaks". Unknown names are kept as given.
func NormalizeOptions(values map[string]any) Options {
	normalized := make(Options, len(values))
	for name, value := range values {
		for _, known := range OptionNames {
			if strings.EqualFold(name, known) {
				name = known
				break
			}
		}
		normalized[name] = value
	}
	return normalized
}
