package assets

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every LookupError.
var ErrNotFound = errors.New("asset not found")

// ErrNoEncodedData is reported for images stored only as raw bitmaps.
var ErrNoEncodedData = errors.New("no encoded data")

// ErrUnsupportedFormat is reported for sound blobs no decoder recognizes.
var ErrUnsupportedFormat = errors.New("unsupported format")

// LookupError reports a named image, sound or mesh missing from a Set,
// either because the table never defined it or because it failed to decode.
type LookupError struct {
	Kind string
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("assets: %s %q not found", e.Kind, e.Name)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrNotFound
}

// AssetDecodeError reports one embedded image or sound that could not be
// decoded. Build logs it and leaves the asset out of the Set.
type AssetDecodeError struct {
	Kind string
	Name string
	Err  error
}

func (e *AssetDecodeError) Error() string {
	return fmt.Sprintf("assets: decode %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *AssetDecodeError) Unwrap() error {
	return e.Err
}
