// Package ingest decides what part of an uploaded reference document is kept
// on the form.
package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/MikeSquared-Agency/brief/internal/form"
)

// MaxChars is the number of characters kept from a text file.
const MaxChars = 4000

var ErrUnsupportedFileType = errors.New("unsupported file type")

// Supported maps accepted extensions to whether their text is extracted.
var Supported = map[string]bool{
	"txt":  true,
	"pdf":  false,
	"doc":  false,
	"docx": false,
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Check reports ErrUnsupportedFileType for names outside the accepted set,
// without reading anything.
func Check(name string) error {
	if _, ok := Supported[Extension(name)]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, name)
	}
	return nil
}

// Ingest builds the file record for an upload. Text files keep at most
// MaxChars characters; pdf, doc and docx keep only the name.
func Ingest(name string, r io.Reader) (form.File, error) {
	if err := Check(name); err != nil {
		return form.File{}, err
	}
	base := filepath.Base(name)
	if !Supported[Extension(name)] {
		return form.File{Name: base}, nil
	}
	content, err := readPrefix(r, MaxChars)
	if err != nil {
		return form.File{}, fmt.Errorf("read %s: %w", base, err)
	}
	return form.File{Name: base, Content: content}, nil
}

// Truncate keeps the first n characters of s.
func Truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Admit applies the ingestion policy to a file record whose content was
// extracted elsewhere, such as by a client: the extension must be accepted,
// text is cut to MaxChars and binary formats keep only the name.
func Admit(f form.File) (form.File, error) {
	if err := Check(f.Name); err != nil {
		return form.File{}, err
	}
	out := form.File{Name: filepath.Base(f.Name)}
	if Supported[Extension(f.Name)] {
		out.Content = Truncate(f.Content, MaxChars)
	}
	return out, nil
}

// readPrefix decodes r as text (UTF-8, or UTF-16 when a BOM says so) and
// returns its first n characters. Nothing past the n-th character is read
// beyond the decoder's buffer.
func readPrefix(r io.Reader, n int) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	br := bufio.NewReader(transform.NewReader(r, dec))

	var b strings.Builder
	for i := 0; i < n; i++ {
		ch, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		b.WriteRune(ch)
	}
	return b.String(), nil
}
