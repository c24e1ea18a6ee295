package assets

import "errors"

// Sentinel errors for asset operations.
var (
	ErrNotFound    = errors.New("asset not found")
	ErrInvalidName = errors.New("invalid asset name")
	ErrInvalidDir  = errors.New("invalid asset directory")
	ErrAssetRead   = errors.New("failed to read asset")
)
