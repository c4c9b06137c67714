package narration

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. Keys are looked up in the Catalog; a key with no entry is
// printed as-is.
const (
	MsgSelected   = "selected"
	MsgUnselected = "unselected"

	MsgHeading    = "heading %d"
	MsgList       = "list"
	MsgListItem   = "list item"
	MsgQuote      = "quote"
	MsgCodeBlock  = "code block"
	MsgLink       = "link"
	MsgEmphasis   = "emphasis"
	MsgStrong     = "strong"
	MsgCode       = "code"
	MsgEndOfDoc   = "end of document"
	MsgStartOfDoc = "start of document"
	MsgNothing    = "no selection"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		MsgSelected:   "selected",
		MsgUnselected: "unselected",
		MsgHeading:    "heading %d",
		MsgList:       "list",
		MsgListItem:   "list item",
		MsgQuote:      "quote",
		MsgCodeBlock:  "code block",
		MsgLink:       "link",
		MsgEmphasis:   "emphasis",
		MsgStrong:     "strong",
		MsgCode:       "code",
		MsgEndOfDoc:   "end of document",
		MsgStartOfDoc: "start of document",
		MsgNothing:    "no selection",
	},
	language.Spanish: {
		MsgSelected:   "seleccionado",
		MsgUnselected: "no seleccionado",
		MsgHeading:    "encabezado %d",
		MsgList:       "lista",
		MsgListItem:   "elemento de lista",
		MsgQuote:      "cita",
		MsgCodeBlock:  "bloque de código",
		MsgLink:       "enlace",
		MsgEmphasis:   "énfasis",
		MsgStrong:     "negrita",
		MsgCode:       "código",
		MsgEndOfDoc:   "fin del documento",
		MsgStartOfDoc: "inicio del documento",
		MsgNothing:    "sin selección",
	},
}

var (
	messagesOnce sync.Once
	builder      *catalog.Builder
)

// messages returns the shared catalog of all translations.
func messages() *catalog.Builder {
	messagesOnce.Do(func() {
		var err error
		if builder, err = buildMessages(translations); err != nil {
			panic(err)
		}
	})
	return builder
}

func buildMessages(table map[language.Tag]map[string]string) (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range table {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("narration: message %q (%s): %w", key, tag, err)
			}
		}
	}
	return b, nil
}

// Catalog resolves message keys for one locale.
// A Catalog is safe for concurrent use.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// Supported returns the locales that have translations.
func Supported() []language.Tag {
	return []language.Tag{language.English, language.Spanish}
}

// NewCatalog returns a catalog for the supported locale closest to locale.
// Unknown or malformed locales fall back to English.
func NewCatalog(locale string) *Catalog {
	supported := Supported()
	tag := language.English
	if requested, err := language.Parse(locale); err == nil {
		_, idx, conf := language.NewMatcher(supported).Match(requested)
		if conf != language.No {
			tag = supported[idx]
		}
	}

	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages())),
	}
}

// DefaultCatalog returns the English catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog("en")
}

// Locale returns the resolved locale.
func (c *Catalog) Locale() language.Tag {
	return c.tag
}

// Get returns the localized message for key.
func (c *Catalog) Get(key string, args ...any) string {
	return c.printer.Sprintf(key, args...)
}
