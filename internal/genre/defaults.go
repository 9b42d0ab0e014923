package genre

import (
	_ "embed"
	"sync"
)

// Builtin is the mapping path value that selects the embedded table.
const Builtin = "builtin"

//go:embed defaults.json
var defaultMapping []byte

var (
	defaultOnce       sync.Once
	defaultTranslator *Translator
)

// Default returns a translator over the embedded Portuguese table covering
// the labels used by the three catalogs.
func Default() *Translator {
	defaultOnce.Do(func() {
		mapping, err := parseMapping(defaultMapping, ".json")
		if err != nil {
			panic("genre: embedded mapping is invalid: " + err.Error())
		}
		defaultTranslator = NewTranslator(mapping)
	})
	return defaultTranslator
}
