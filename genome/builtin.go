package genome

import (
	"bytes"
	"embed"
	"sort"
	"sync"

	"github.com/grailbio/base/log"
)

// Chromosome-length tables for the well-known reference builds, bundled with
// the package.  Tables are parsed on first use and read-only afterwards, so
// the returned pointers may be shared freely across goroutines.

//go:embed genomes/hg19.txt genomes/hg38.txt genomes/mm9.txt genomes/mm10.txt
var builtinData embed.FS

var (
	builtinOnce   sync.Once
	builtinTables map[string]*LengthTable
)

func loadBuiltins() {
	builtinTables = make(map[string]*LengthTable)
	for _, name := range []string{"hg19", "hg38", "mm9", "mm10"} {
		data, err := builtinData.ReadFile("genomes/" + name + ".txt")
		if err != nil {
			log.Panicf("genome: bundled table %s missing: %v", name, err)
		}
		t, err := LoadLengths(bytes.NewReader(data), name, "builtin:"+name)
		if err != nil {
			log.Panicf("genome: bundled table %s unreadable: %v", name, err)
		}
		builtinTables[name] = t
	}
}

// Builtin returns the bundled length table for a reference build ("hg19",
// "hg38", "mm9" or "mm10"), or nil if the name is not a bundled build.
func Builtin(name string) *LengthTable {
	builtinOnce.Do(loadBuiltins)
	return builtinTables[name]
}

// BuiltinNames returns the names of the bundled reference builds, sorted.
func BuiltinNames() []string {
	builtinOnce.Do(loadBuiltins)
	names := make([]string, 0, len(builtinTables))
	for name := range builtinTables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
