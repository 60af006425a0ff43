// Package session is the application context of one labelling session. It
// owns the store, the fast store, the track policies and the asset
// loader, and queues asynchronous results for the UI loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/asset"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/reducer"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/internal/store"
	"github.com/philipparndt/golabel/internal/track"
	"github.com/philipparndt/golabel/pkg/pointcloud"
	"github.com/philipparndt/golabel/pkg/viewer"
)

// Notifier is told about items whose assets could not be loaded
type Notifier func(itemIndex int, err error)

// ErrorHandler receives rejected actions
type ErrorHandler func(err error)

// Option configures a Session
type Option func(*Session)

// WithID sets the session id instead of a random one
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithLoader replaces the file loader
func WithLoader(l asset.Loader) Option {
	return func(s *Session) { s.loader = l }
}

// WithAssetDir sets the directory relative item urls are resolved against
func WithAssetDir(dir string) Option {
	return func(s *Session) { s.assetDir = dir }
}

// WithNotifier sets the asset failure callback
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notify = n }
}

// WithErrorHandler sets the handler for contract errors
func WithErrorHandler(h ErrorHandler) Option {
	return func(s *Session) { s.onError = h }
}

// WithHistoryLimit bounds the undo history of the store
func WithHistoryLimit(n int) Option {
	return func(s *Session) { s.storeOpts = append(s.storeOpts, store.WithHistoryLimit(n)) }
}

// Session is the context passed to views and handlers
type Session struct {
	id        string
	store     *store.Store
	fast      *store.FastStore
	tracks    *track.Index
	loader    asset.Loader
	assetDir  string
	notify    Notifier
	onError   ErrorHandler
	storeOpts []store.Option

	ctx    context.Context
	cancel context.CancelFunc
	unsub  func()

	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	closed  bool
	loading map[int]bool
	images  map[int]image.Image
	clouds  map[int]*pointcloud.Cloud
}

// New creates a session around an initial state
func New(initial state.State, opts ...Option) *Session {
	s := &Session{
		wake:    make(chan struct{}, 1),
		loading: map[int]bool{},
		images:  map[int]image.Image{},
		clouds:  map[int]*pointcloud.Cloud{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.loader == nil {
		s.loader = asset.NewFileLoader(s.assetDir, s.Post)
	}
	if s.notify == nil {
		s.notify = func(itemIndex int, err error) {
			logger.Logger().Warn("item not loaded", "item", itemIndex, "error", err)
		}
	}
	if s.onError == nil {
		s.onError = func(err error) {
			logger.Logger().Error("action rejected", "session", s.id, "error", err)
		}
	}

	initial.Session.ID = s.id
	s.store = store.New(initial, s.storeOpts...)
	s.fast = store.NewFastStore(initial)
	s.tracks = track.NewIndex(fallbackPolicy(initial))
	s.tracks.Sync(initial)
	s.unsub = s.store.Subscribe(func(st state.State) {
		s.fast.Sync(st)
		s.tracks.SetFallback(fallbackPolicy(st))
		s.tracks.Sync(st)
	})
	s.ctx, s.cancel = context.WithCancel(context.Background())
	logger.Logger().Debug("session created", "session", s.id, "items", len(initial.Task.Items))
	return s
}

// fallbackPolicy is the policy of the selected policy type, used for new
// tracks. It follows the selection and config reloads.
func fallbackPolicy(st state.State) track.Policy {
	types := st.Task.Config.PolicyTypes
	i := st.User.Select.PolicyType
	if i < 0 || i >= len(types) {
		return track.None{}
	}
	p, err := track.New(types[i])
	if err != nil {
		return track.None{}
	}
	return p
}

func (s *Session) ID() string                  { return s.id }
func (s *Session) Store() *store.Store         { return s.store }
func (s *Session) FastStore() *store.FastStore { return s.fast }
func (s *Session) Tracks() *track.Index        { return s.tracks }

// State returns the committed state
func (s *Session) State() state.State {
	return s.store.State()
}

// Dispatch forwards an action to the store. Contract errors also go to the
// error handler.
func (s *Session) Dispatch(a action.Action) error {
	err := s.store.Dispatch(a)
	var contract *reducer.ContractError
	if errors.As(err, &contract) {
		s.onError(err)
	}
	return err
}

// Undo steps back one annotation edit
func (s *Session) Undo() (bool, error) { return s.store.Undo() }

// Redo reapplies an undone edit
func (s *Session) Redo() (bool, error) { return s.store.Redo() }

// Post queues fn to run on the next Drain. It is safe to call from any
// goroutine.
func (s *Session) Post(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Wake is signalled after Post so that a blocking UI loop can call Drain
func (s *Session) Wake() <-chan struct{} { return s.wake }

// Drain runs the queued functions in posting order and returns how many
// ran. Functions posted while draining run in the next call.
func (s *Session) Drain() int {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()
	for _, fn := range queue {
		fn()
	}
	return len(queue)
}

// GoToItem selects an item and starts loading it
func (s *Session) GoToItem(index int) error {
	if err := s.Dispatch(action.GoToItem{ItemIndex: index}); err != nil {
		return err
	}
	return s.LoadItem(index)
}

// LoadItem starts the asset load of an item that is not loaded yet. The
// item becomes loaded once the result has been drained.
func (s *Session) LoadItem(index int) error {
	st := s.store.State()
	if index < 0 || index >= len(st.Task.Items) {
		return fmt.Errorf("item %d out of range", index)
	}
	item := st.Task.Items[index]

	s.mu.Lock()
	if s.closed || s.loading[index] || (item.Loaded && s.hasAssetLocked(index)) {
		s.mu.Unlock()
		return nil
	}
	s.loading[index] = true
	s.mu.Unlock()

	onError := func(err error) {
		s.finishLoad(index)
		s.notify(index, err)
	}
	if st.Task.Config.ItemType == state.ItemPointCloud {
		s.loader.LoadPointCloud(s.ctx, item.URL, func(cloud *pointcloud.Cloud) {
			s.finishLoad(index)
			s.mu.Lock()
			s.clouds[index] = cloud
			s.mu.Unlock()
			cfg := cloudViewerConfig(item, cloud)
			_ = s.Dispatch(action.LoadItem{ItemIndex: index, Width: cloud.Len(), Config: cfg})
		}, onError)
		return nil
	}
	s.loader.LoadImage(s.ctx, item.URL, func(w, h int, img image.Image) {
		s.finishLoad(index)
		s.mu.Lock()
		s.images[index] = img
		s.mu.Unlock()
		_ = s.Dispatch(action.LoadItem{ItemIndex: index, Width: w, Height: h})
	}, onError)
	return nil
}

// cloudViewerConfig frames the cloud unless the item already has a camera
func cloudViewerConfig(item state.Item, cloud *pointcloud.Cloud) *state.ViewerConfig {
	if item.ViewerConfig != nil || cloud.Len() == 0 {
		return nil
	}
	pc := viewer.NewCamera(cloud.Bounds).ViewerConfig()
	return &state.ViewerConfig{Type: state.ViewerPointCloud, PaneID: -1, PointCloud: &pc}
}

// FrameItem copies the camera stored with the current item into a point
// cloud viewer. It reports false when the item carries no camera.
func (s *Session) FrameItem(viewerID int) (bool, error) {
	st := s.store.State()
	item, ok := st.CurrentItem()
	if !ok || item.ViewerConfig == nil || item.ViewerConfig.PointCloud == nil {
		return false, nil
	}
	current, ok := st.User.ViewerConfigs[viewerID]
	if !ok || current.Type != state.ViewerPointCloud {
		return false, nil
	}
	pc := *item.ViewerConfig.PointCloud
	current.PointCloud = &pc
	return true, s.Dispatch(action.ChangeViewerConfig{ViewerID: viewerID, Config: current})
}

func (s *Session) finishLoad(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.loading, index)
}

func (s *Session) hasAssetLocked(index int) bool {
	return s.images[index] != nil || s.clouds[index] != nil
}

// Image returns the decoded image of a loaded item
func (s *Session) Image(index int) (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[index]
	return img, ok
}

// Cloud returns the point cloud of a loaded item
func (s *Session) Cloud(index int) (*pointcloud.Cloud, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clouds[index]
	return c, ok
}

// Close cancels pending loads and drops queued work
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.queue = nil
	s.mu.Unlock()

	s.cancel()
	if w, ok := s.loader.(interface{ Wait() }); ok {
		w.Wait()
	}
	s.unsub()
	logger.Logger().Debug("session closed", "session", s.id)
}
