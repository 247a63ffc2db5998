// Package assets is the designer's declarative file loader. It decodes asset files by extension on a
// worker pool, caches the typed values by path, and reports every completed load, edit, and removal
// as a discrete event drained once per scene tick.
package assets

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/fsnotify/fsnotify"
)

// LoadState is the load progress of one asset path.
type LoadState int

const (
	// LoadStateNotLoaded means no load was ever requested for the path.
	LoadStateNotLoaded LoadState = iota

	// LoadStateLoading means a load is in flight and no value is available yet.
	LoadStateLoading

	// LoadStateLoaded means a decoded value is available.
	LoadStateLoaded

	// LoadStateFailed means the first load failed. The path stays failed until the file changes.
	LoadStateFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadStateNotLoaded:
		return "NotLoaded"
	case LoadStateLoading:
		return "Loading"
	case LoadStateLoaded:
		return "Loaded"
	case LoadStateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// EventKind classifies an asset event.
type EventKind int

const (
	// EventCreated is emitted the first time a value becomes available for a path.
	EventCreated EventKind = iota

	// EventModified is emitted when an already available value is replaced.
	EventModified

	// EventRemoved is emitted when an available value is dropped.
	EventRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "Created"
	case EventModified:
		return "Modified"
	case EventRemoved:
		return "Removed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event reports a change to one asset path. Value is the decoded value the change produced,
// so consumers see every edit in order even when several arrive between two drains.
type Event struct {
	Kind  EventKind
	Path  string
	Value any
}

type entry struct {
	state  LoadState
	value  any
	loaded bool
	gen    uint64
}

// server is the implementation of the Server interface.
type server struct {
	mu *sync.RWMutex

	root     string
	logger   *slog.Logger
	decoders map[string]Decoder
	entries  map[string]*entry
	events   []Event

	pool           worker.DynamicWorkerPool
	workers        int
	synchronous    bool
	maxTextureSize int
	taskID         int
	inflight       sync.WaitGroup

	watcher *fsnotify.Watcher
	closed  bool
}

// Server loads, caches, and watches the asset files under one root directory.
//
// Asset paths are slash-separated and relative to the root. Loads complete asynchronously and in no
// particular order; consumers poll State or Get once per tick and drain the event queue with
// DrainEvents. Values handed out by Get are shared and must not be mutated.
type Server interface {
	// Root returns the directory asset paths are resolved against.
	//
	// Returns:
	//   - string: the asset root
	Root() string

	// Load requests a load of the asset at path. A path that is loading, loaded, or failed is left
	// alone; use Reload to force a fresh read.
	//
	// Parameters:
	//   - path: the asset path
	//
	// Returns:
	//   - LoadState: the state of the path after the request
	Load(path string) LoadState

	// Reload reads the asset at path again. The previous value stays available until the new one
	// decodes; a failed decode keeps the previous value.
	//
	// Parameters:
	//   - path: the asset path
	Reload(path string)

	// LoadFolder loads every file under dir whose extension matches one of exts, or every file with
	// a registered decoder when exts is empty.
	//
	// Parameters:
	//   - dir: the folder, relative to the root
	//   - exts: the extensions to load, including the dot
	//
	// Returns:
	//   - []string: the asset paths requested, sorted
	//   - error: error if the folder cannot be walked
	LoadFolder(dir string, exts ...string) ([]string, error)

	// Get returns the decoded value of an asset.
	//
	// Parameters:
	//   - path: the asset path
	//
	// Returns:
	//   - any: the decoded value
	//   - bool: false if no value is available
	Get(path string) (any, bool)

	// State returns the load state of an asset.
	//
	// Parameters:
	//   - path: the asset path
	//
	// Returns:
	//   - LoadState: the current state
	State(path string) LoadState

	// Set stores a value for path as if it had been loaded from disk, emitting a Created or Modified
	// event. Loads of the path still in flight are discarded.
	//
	// Parameters:
	//   - path: the asset path
	//   - value: the decoded value
	Set(path string, value any)

	// Remove drops the value of path, emitting a Removed event if one was available.
	//
	// Parameters:
	//   - path: the asset path
	Remove(path string)

	// DrainEvents returns the events queued since the last drain, in arrival order.
	//
	// Returns:
	//   - []Event: the queued events
	DrainEvents() []Event

	// Flush blocks until every load submitted before the call has completed.
	Flush()

	// Watch starts reloading assets when their files change under the root. The watcher stops
	// when ctx is cancelled or the server is closed.
	//
	// Parameters:
	//   - ctx: controls the watcher's lifetime
	//
	// Returns:
	//   - error: error if the watcher cannot be created
	Watch(ctx context.Context) error

	// Texture returns the decoded pixels of a texture asset, requesting a load the first time an
	// unknown path is asked for.
	//
	// Parameters:
	//   - path: the texture asset path
	//
	// Returns:
	//   - *image.RGBA: the pixels
	//   - bool: false if the texture is not loaded yet
	Texture(path string) (*image.RGBA, bool)

	// Close stops the worker pool and the watcher.
	Close()
}

var _ Server = &server{}

// NewServer creates a new asset Server rooted at the current directory unless WithRoot is given.
//
// Parameters:
//   - options: variadic list of ServerBuilderOption functions to configure the Server
//
// Returns:
//   - Server: a new Server instance
func NewServer(options ...ServerBuilderOption) Server {
	s := &server{
		mu:      &sync.RWMutex{},
		root:    ".",
		logger:  slog.Default(),
		entries: make(map[string]*entry),
		workers: 4,
	}
	s.decoders = defaultDecoders(&s.maxTextureSize)

	for _, opt := range options {
		opt(s)
	}

	if !s.synchronous {
		s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	}
	return s
}

// Get returns the decoded value of an asset converted to T.
//
// Parameters:
//   - s: the server to read from
//   - path: the asset path
//
// Returns:
//   - T: the value
//   - bool: false if no value is available or it is not a T
func Get[T any](s Server, path string) (T, bool) {
	var zero T
	v, ok := s.Get(path)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// CleanPath normalizes an asset path to the slash-separated form used as the cache key.
func CleanPath(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "./")
}

func (s *server) Root() string {
	return s.root
}

func (s *server) Load(path string) LoadState {
	path = CleanPath(path)
	s.mu.Lock()
	e := s.entryLocked(path)
	if e.state != LoadStateNotLoaded {
		state := e.state
		s.mu.Unlock()
		return state
	}
	gen := s.beginLocked(e)
	s.mu.Unlock()

	s.dispatch(path, gen)
	return s.State(path)
}

func (s *server) Reload(path string) {
	path = CleanPath(path)
	s.mu.Lock()
	gen := s.beginLocked(s.entryLocked(path))
	s.mu.Unlock()

	s.dispatch(path, gen)
}

func (s *server) LoadFolder(dir string, exts ...string) ([]string, error) {
	base := filepath.Join(s.root, filepath.FromSlash(dir))
	var paths []string
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !s.wants(p, exts) {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		paths = append(paths, CleanPath(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load folder %s: %w", dir, err)
	}

	slices.Sort(paths)
	for _, p := range paths {
		s.Load(p)
	}
	return paths, nil
}

func (s *server) Get(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[CleanPath(path)]
	if !ok || !e.loaded {
		return nil, false
	}
	return e.value, true
}

func (s *server) State(path string) LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[CleanPath(path)]
	if !ok {
		return LoadStateNotLoaded
	}
	return e.state
}

func (s *server) Set(path string, value any) {
	path = CleanPath(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryLocked(path)
	e.gen++
	s.storeLocked(path, e, value)
}

func (s *server) Remove(path string) {
	path = CleanPath(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[path]
	if !ok {
		return
	}
	delete(s.entries, path)
	if e.loaded {
		s.events = append(s.events, Event{Kind: EventRemoved, Path: path})
		s.logger.Debug("[Assets] removed", "path", path)
	}
}

func (s *server) DrainEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

func (s *server) Flush() {
	s.inflight.Wait()
}

func (s *server) Texture(path string) (*image.RGBA, bool) {
	path = CleanPath(path)
	s.mu.RLock()
	e, ok := s.entries[path]
	if ok && e.loaded {
		img, isImg := e.value.(*image.RGBA)
		s.mu.RUnlock()
		return img, isImg
	}
	s.mu.RUnlock()

	if !ok {
		s.Load(path)
	}
	return nil, false
}

func (s *server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if w != nil {
		w.Close()
	}
	s.inflight.Wait()
	if s.pool != nil {
		s.pool.Stop()
	}
}

// entryLocked returns the entry of path, creating it if needed. Callers hold s.mu.
func (s *server) entryLocked(path string) *entry {
	e, ok := s.entries[path]
	if !ok {
		e = &entry{}
		s.entries[path] = e
	}
	return e
}

// beginLocked starts a new load generation, invalidating loads already in flight. Callers hold s.mu.
func (s *server) beginLocked(e *entry) uint64 {
	e.gen++
	if !e.loaded {
		e.state = LoadStateLoading
	}
	s.inflight.Add(1)
	return e.gen
}

// storeLocked publishes a value and queues its event. Callers hold s.mu.
func (s *server) storeLocked(path string, e *entry, value any) {
	kind := EventModified
	if !e.loaded {
		kind = EventCreated
	}
	e.value = value
	e.loaded = true
	e.state = LoadStateLoaded
	s.events = append(s.events, Event{Kind: kind, Path: path, Value: value})
	s.logger.Debug("[Assets] "+strings.ToLower(kind.String()), "path", path)
}

// dispatch reads and decodes path on the worker pool, or inline when loads are synchronous.
func (s *server) dispatch(path string, gen uint64) {
	task := func() (any, error) {
		defer s.inflight.Done()
		value, err := s.read(path)
		s.complete(path, gen, value, err)
		return value, err
	}

	if s.pool == nil {
		task()
		return
	}

	s.mu.Lock()
	s.taskID++
	id := s.taskID
	s.mu.Unlock()
	s.pool.SubmitTask(worker.Task{ID: id, Payload: path, Do: task})
}

func (s *server) read(path string) (any, error) {
	dec, err := s.resolveDecoder(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	value, err := dec(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return value, nil
}

func (s *server) complete(path string, gen uint64, value any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[path]
	if !ok || e.gen != gen {
		return
	}
	if err != nil {
		if !e.loaded {
			e.state = LoadStateFailed
		}
		s.logger.Warn("[Assets] load failed", "path", path, "error", err)
		return
	}
	s.storeLocked(path, e, value)
}

// wants reports whether a file on disk should be loaded given an extension filter.
func (s *server) wants(path string, exts []string) bool {
	ext := Extension(path)
	if len(exts) > 0 {
		return slices.Contains(exts, ext)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.decoders[ext]
	return ok
}
