package parse

import "fmt"

// ErrUnsupportedFormat indicates a file extension ParseFile does not handle.
type ErrUnsupportedFormat struct {
	Path string
	Ext  string
}

func (e *ErrUnsupportedFormat) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("unsupported file format: %s (no extension)", e.Path)
	}
	return fmt.Sprintf("unsupported file format %q: %s", e.Ext, e.Path)
}
