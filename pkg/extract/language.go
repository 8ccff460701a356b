package extract

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/src-d/enry/v2"
)

// sniffBytes is how much of the header feeds language detection.
const sniffBytes = 16 << 10

var cFamily = map[string]bool{
	"C":           true,
	"C++":         true,
	"Objective-C": true,
}

// headerLanguage guesses the language of the file at path from its name and
// leading bytes. It returns "" when the file cannot be read.
func headerLanguage(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	head := make([]byte, sniffBytes)

	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return ""
	}

	return enry.GetLanguage(filepath.Base(path), head[:n])
}

// IsCFamily reports whether lang is a language the preprocessor and parser
// accept.
func IsCFamily(lang string) bool {
	return cFamily[lang]
}
