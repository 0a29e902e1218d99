package automacao

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// ExtrairPaginasPDF devolve o texto de cada página do PDF, na ordem.
func ExtrairPaginasPDF(data []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("não foi possível abrir o PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return nil, fmt.Errorf("não foi possível extrair o texto da página %d: %w", n+1, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
