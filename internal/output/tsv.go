// # internal/output/tsv.go
package output

import (
	"fmt"
	"sort"
	"strings"

	"extricrate/internal/resolver"
)

type TSVGenerator struct {
	index resolver.ImportIndex
}

func NewTSVGenerator(index resolver.ImportIndex) *TSVGenerator {
	return &TSVGenerator{index: index}
}

// Generate emits one row per import leaf, keyed by the source location of the
// declaration it came from. Rows are ordered by file, then position.
func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("From\tTo\tKind\tName\tAlias\tFile\tLine\tColumn\n")

	files := make([]resolver.SourceFile, 0, len(t.index))
	for file := range t.index {
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	for _, file := range files {
		for _, record := range t.index[file] {
			span := record.Declaration.Span
			for _, leaf := range record.Declaration.Leaves {
				buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
					record.Module,
					leaf.Module,
					leaf.Kind,
					leaf.Name,
					leaf.Alias,
					file,
					span.Start.Line,
					span.Start.Column,
				))
			}
		}
	}

	return buf.String(), nil
}
