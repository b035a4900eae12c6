package exchange

import (
	"errors"
	"fmt"
)

// ErrSourceNotFound is returned by imports whose source file does not exist.
var ErrSourceNotFound = errors.New("exchange: source file not found")

// FileError represents a problem with the shape of an import or export file
type FileError struct {
	Code    string
	Message string
}

func (e *FileError) Error() string {
	return e.Message
}

func fileError(code, format string, args ...any) error {
	return &FileError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// rowError attaches the 1-based data row number to err
func rowError(row int, err error) error {
	return fmt.Errorf("row %d: %w", row, err)
}
