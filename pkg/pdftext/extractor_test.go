package pdftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRejectsNonPDFBytes(t *testing.T) {
	e := NewPDFExtractor()

	_, err := e.Extract("notes.txt", []byte("plain text, not a pdf"))

	assert.Error(t, err)
}

func TestExtractRejectsEmptyInput(t *testing.T) {
	e := NewPDFExtractor()

	_, err := e.Extract("empty.pdf", nil)

	assert.Error(t, err)
}
