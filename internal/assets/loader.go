package assets

// Loader defines the contract for reading build inputs as text.
// Implementations may read from disk, an embedded filesystem, memory, etc.
type Loader interface {
	// Load returns the content of the file at the given root-relative path.
	// Returns ErrAssetNotFound if the file does not exist.
	// Returns ErrInvalidAssetPath if the path is not a clean relative path.
	Load(path string) (string, error)
}
