package loader

import "fmt"

// UnsupportedFileFormatError is returned for a file whose extension no backend handles.
type UnsupportedFileFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFileFormatError) Error() string {
	return fmt.Sprintf("unsupported model format %q: %s", e.Ext, e.Path)
}

// ParseFailureError is returned for a model file that cannot be parsed. Line is 1-based, or 0 when
// the failure concerns the file as a whole.
type ParseFailureError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseFailureError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("failed to parse %s: %s", e.Path, e.Msg)
	}
	return fmt.Sprintf("failed to parse %s:%d: %s", e.Path, e.Line, e.Msg)
}
