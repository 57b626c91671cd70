package extract

import (
	"fmt"

	"github.com/lu4p/cat"
)

// extractWithCat converts ODT and RTF transcripts to plain text. Filetype
// detection happens inside the library, so both routes share one entry point.
func extractWithCat(content []byte) (string, error) {
	txt, err := cat.FromBytes(content)
	if err != nil {
		return "", fmt.Errorf("extract document: %w", err)
	}
	return txt, nil
}
