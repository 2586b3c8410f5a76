package repository

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFilename overrides the artifact file name inside the store
// directory.
func WithFilename(name string) Option {
	return func(s *FileStore) {
		if name != "" {
			s.filename = name
		}
	}
}
