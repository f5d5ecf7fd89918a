// Package listing holds the admin list screens' state: the fetched collection,
// the filter applied to it and the delete / status actions that change it.
//
// The collection is a write-through cache. It is only modified after the
// remote store confirms a change; a failed call leaves it exactly as it was.
package listing

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Remote is the slice of the resource client a list screen needs.
// List must return rows newest first.
type Remote[T any] interface {
	List(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Confirmer asks the user before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Notifier shows a failure notice the user has to acknowledge.
type Notifier interface {
	Notify(message string)
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

type NotifyFunc func(message string)

func (f NotifyFunc) Notify(message string) { f(message) }

// ViewState tells the renderer which of its screens to draw.
type ViewState int

const (
	ViewLoading ViewState = iota
	ViewError
	ViewEmpty
	ViewReady
)

func (s ViewState) String() string {
	switch s {
	case ViewLoading:
		return "loading"
	case ViewError:
		return "error"
	case ViewEmpty:
		return "empty"
	default:
		return "ready"
	}
}

type Options struct {
	// Resource names the rows in prompts and notices, e.g. "UMKM".
	Resource string
	// Statuses is the closed set a status filter may take besides All.
	Statuses  []string
	Policy    StatusPolicy
	Confirmer Confirmer
	Notifier  Notifier
	Logger    *log.Logger
	// OnChange runs after every change to the collection or the filter.
	OnChange func()
}

type Controller[T Patchable[T]] struct {
	remote Remote[T]
	opts   Options

	mu       sync.Mutex
	items    []T
	view     []T
	filter   FilterState
	loading  bool
	loaded   bool
	lastErr  error
	inflight map[uuid.UUID]string
}

func New[T Patchable[T]](remote Remote[T], opts Options) *Controller[T] {
	if opts.Resource == "" {
		opts.Resource = "item"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Confirmer == nil {
		opts.Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifyFunc(func(string) {})
	}
	return &Controller[T]{
		remote:   remote,
		opts:     opts,
		filter:   DefaultFilterState(),
		loading:  true,
		inflight: make(map[uuid.UUID]string),
	}
}

// Load replaces the collection with a fresh copy from the remote store. On
// failure the previous collection stays in place and the error is kept for
// the renderer. Loading is cleared either way.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	items, err := c.remote.List(ctx)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		fetchErr := &FetchError{Resource: c.opts.Resource, Err: err}
		c.lastErr = fetchErr
		c.mu.Unlock()
		c.opts.Logger.Printf("listing: %v", fetchErr)
		c.changed()
		return fetchErr
	}
	c.items = append([]T(nil), items...)
	c.loaded = true
	c.lastErr = nil
	c.refilterLocked()
	c.mu.Unlock()

	c.changed()
	return nil
}

func (c *Controller[T]) SetFilter(state FilterState) error {
	state = state.normalized()
	if err := c.checkStatus(state.Status); err != nil {
		return err
	}
	c.mu.Lock()
	c.filter = state
	c.refilterLocked()
	c.mu.Unlock()
	c.changed()
	return nil
}

func (c *Controller[T]) SetSearch(query string) {
	c.mu.Lock()
	c.filter.Search = query
	c.refilterLocked()
	c.mu.Unlock()
	c.changed()
}

func (c *Controller[T]) SetStatusFilter(status string) error {
	if status == "" {
		status = All
	}
	if err := c.checkStatus(status); err != nil {
		return err
	}
	c.mu.Lock()
	c.filter.Status = status
	c.refilterLocked()
	c.mu.Unlock()
	c.changed()
	return nil
}

func (c *Controller[T]) SetCategoryFilter(category string) {
	if category == "" {
		category = All
	}
	c.mu.Lock()
	c.filter.Category = category
	c.refilterLocked()
	c.mu.Unlock()
	c.changed()
}

// ResetFilter restores the state a freshly opened screen starts with.
func (c *Controller[T]) ResetFilter() {
	_ = c.SetFilter(DefaultFilterState())
}

// Delete removes the item after the user confirms and the remote store
// accepts the delete. It is not retried on failure.
func (c *Controller[T]) Delete(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	if c.indexLocked(id) < 0 {
		c.mu.Unlock()
		return ErrNotFound
	}
	if _, busy := c.inflight[id]; busy {
		c.mu.Unlock()
		return ErrMutationInFlight
	}
	c.mu.Unlock()

	prompt := fmt.Sprintf("Are you sure you want to delete this %s?", c.opts.Resource)
	if !c.opts.Confirmer.Confirm(ctx, prompt) {
		return ErrCancelled
	}

	if err := c.begin(id, "delete"); err != nil {
		return err
	}
	err := c.remote.Delete(ctx, id)

	c.mu.Lock()
	delete(c.inflight, id)
	if err != nil {
		c.mu.Unlock()
		return c.fail("delete", id, err, fmt.Sprintf("Failed to delete %s", c.opts.Resource))
	}
	if idx := c.indexLocked(id); idx >= 0 {
		c.items = append(c.items[:idx:idx], c.items[idx+1:]...)
	}
	c.refilterLocked()
	c.mu.Unlock()

	c.changed()
	return nil
}

// SetStatus moves an item to status when the policy allows it from the
// item's current status. Only the status field of the cached row changes.
func (c *Controller[T]) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	c.mu.Lock()
	idx := c.indexLocked(id)
	if idx < 0 {
		c.mu.Unlock()
		return ErrNotFound
	}
	current := c.items[idx].ItemStatus()
	c.mu.Unlock()

	if !c.opts.Policy.Allows(current, status) {
		return fmt.Errorf("%w: %s -> %s", ErrStatusChangeNotAllowed, current, status)
	}
	if err := c.begin(id, "update status"); err != nil {
		return err
	}
	err := c.remote.UpdateStatus(ctx, id, status)

	c.mu.Lock()
	delete(c.inflight, id)
	if err != nil {
		c.mu.Unlock()
		return c.fail("update status", id, err, "Failed to update status")
	}
	if idx := c.indexLocked(id); idx >= 0 {
		c.items[idx] = c.items[idx].WithStatus(status)
	}
	c.refilterLocked()
	c.mu.Unlock()

	c.changed()
	return nil
}

// Actions lists the statuses the item may be moved to right now. It is empty
// while another change to the item is in flight.
func (c *Controller[T]) Actions(id uuid.UUID) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexLocked(id)
	if idx < 0 {
		return nil
	}
	if _, busy := c.inflight[id]; busy {
		return nil
	}
	return c.opts.Policy.Targets(c.items[idx].ItemStatus())
}

func (c *Controller[T]) InFlight(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.inflight[id]
	return busy
}

// Items returns a copy of the authoritative collection.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// View returns a copy of the filtered collection.
func (c *Controller[T]) View() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.view...)
}

func (c *Controller[T]) Get(id uuid.UUID) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexLocked(id); idx >= 0 {
		return c.items[idx], true
	}
	var zero T
	return zero, false
}

func (c *Controller[T]) Filter() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller[T]) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.loading:
		return ViewLoading
	case c.lastErr != nil && !c.loaded:
		return ViewError
	case len(c.view) == 0:
		return ViewEmpty
	default:
		return ViewReady
	}
}

// CountByStatus tallies the whole collection, ignoring the filter.
func (c *Controller[T]) CountByStatus() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts := make(map[string]int)
	for _, item := range c.items {
		counts[item.ItemStatus()]++
	}
	return counts
}

func (c *Controller[T]) Resource() string { return c.opts.Resource }

func (c *Controller[T]) Statuses() []string { return append([]string(nil), c.opts.Statuses...) }

func (c *Controller[T]) begin(id uuid.UUID, op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[id]; busy {
		return ErrMutationInFlight
	}
	c.inflight[id] = op
	return nil
}

func (c *Controller[T]) fail(op string, id uuid.UUID, err error, notice string) error {
	mutationErr := &MutationError{Op: op, ID: id, Err: err}
	c.opts.Logger.Printf("listing: %s: %v", c.opts.Resource, mutationErr)
	c.opts.Notifier.Notify(notice)
	return mutationErr
}

func (c *Controller[T]) checkStatus(status string) error {
	if status == All || len(c.opts.Statuses) == 0 {
		return nil
	}
	for _, s := range c.opts.Statuses {
		if s == status {
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrUnknownStatus, status)
}

func (c *Controller[T]) indexLocked(id uuid.UUID) int {
	for i := range c.items {
		if c.items[i].ItemID() == id {
			return i
		}
	}
	return -1
}

func (c *Controller[T]) refilterLocked() {
	c.view = Filter(c.items, c.filter)
}

func (c *Controller[T]) changed() {
	if c.opts.OnChange != nil {
		c.opts.OnChange()
	}
}
