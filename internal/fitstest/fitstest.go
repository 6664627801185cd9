// Package fitstest builds small FITS fixtures for tests.
package fitstest

import (
	"fmt"
	"os"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const (
	blockSize = 2880
	cardSize  = 80
)

// Card formats one 80-byte header card. The value must already be in FITS
// notation (numbers bare, strings quoted).
func Card(keyword, value string) []byte {
	return pad([]byte(fmt.Sprintf("%-8s= %s", keyword, value)), cardSize)
}

// Comment formats a valueless COMMENT card.
func Comment(text string) []byte {
	return pad([]byte("COMMENT "+text), cardSize)
}

// Header assembles cards plus the END card into padded header blocks.
func Header(cards ...[]byte) []byte {
	var out []byte
	for _, c := range cards {
		out = append(out, c...)
	}
	out = append(out, pad([]byte("END"), cardSize)...)
	return pad(out, blockSize*((len(out)+blockSize-1)/blockSize))
}

// Image builds a complete primary HDU with a zero-filled data block.
func Image(bitpix int, axes []int, extra ...[]byte) []byte {
	cards := [][]byte{
		Card("SIMPLE", "T"),
		Card("BITPIX", fmt.Sprintf("%d", bitpix)),
		Card("NAXIS", fmt.Sprintf("%d", len(axes))),
	}
	size := 0
	if len(axes) > 0 {
		size = abs(bitpix) / 8
	}
	for i, n := range axes {
		cards = append(cards, Card(fmt.Sprintf("NAXIS%d", i+1), fmt.Sprintf("%d", n)))
		size *= n
	}
	cards = append(cards, extra...)

	out := Header(cards...)
	if size > 0 {
		// The data block is zero-padded to a 2880-byte boundary.
		out = append(out, make([]byte, blockSize*((size+blockSize-1)/blockSize))...)
	}
	return out
}

// Write writes content to path, gzip-compressing when path ends in .gz.
func Write(t *testing.T, path string, content []byte) string {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	if len(path) > 3 && path[len(path)-3:] == ".gz" {
		gz := gzip.NewWriter(f)
		if _, err := gz.Write(content); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		if err := gz.Close(); err != nil {
			t.Fatalf("close fixture: %v", err)
		}
		return path
	}

	if _, err := f.Write(content); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func pad(b []byte, size int) []byte {
	for len(b) < size {
		b = append(b, ' ')
	}
	return b
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
