package assets

import (
	"log/slog"
	"strings"
)

// ServerBuilderOption is a functional option applied to a server during construction via NewServer.
type ServerBuilderOption func(*server)

// WithRoot sets the directory asset paths are resolved against.
//
// Parameters:
//   - root: the asset root directory
//
// Returns:
//   - ServerBuilderOption: a function that applies the root option to a server
func WithRoot(root string) ServerBuilderOption {
	return func(s *server) {
		s.root = root
	}
}

// WithLogger sets the logger used for load failures and watcher diagnostics.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - ServerBuilderOption: a function that applies the logger option to a server
func WithLogger(logger *slog.Logger) ServerBuilderOption {
	return func(s *server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkers sets the maximum number of concurrent file loads. Defaults to 4.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - ServerBuilderOption: a function that applies the worker option to a server
func WithWorkers(n int) ServerBuilderOption {
	return func(s *server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithSynchronousLoads makes every load complete before Load or Reload returns.
// Intended for tests and tools that need deterministic ordering.
//
// Parameters:
//   - sync: true to load on the calling goroutine
//
// Returns:
//   - ServerBuilderOption: a function that applies the synchronous option to a server
func WithSynchronousLoads(sync bool) ServerBuilderOption {
	return func(s *server) {
		s.synchronous = sync
	}
}

// WithMaxTextureSize caps the edge length of decoded textures. Larger images are scaled down.
//
// Parameters:
//   - size: the largest edge in pixels, or 0 for no limit
//
// Returns:
//   - ServerBuilderOption: a function that applies the texture size option to a server
func WithMaxTextureSize(size int) ServerBuilderOption {
	return func(s *server) {
		s.maxTextureSize = size
	}
}

// WithDecoder registers a decoder for an extension, replacing any existing one.
//
// Parameters:
//   - ext: the extension including the dot, e.g. ".object"
//   - dec: the decoder
//
// Returns:
//   - ServerBuilderOption: a function that applies the decoder option to a server
func WithDecoder(ext string, dec Decoder) ServerBuilderOption {
	return func(s *server) {
		s.decoders[strings.ToLower(ext)] = dec
	}
}
