package media

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/storyreel/internal/assets"
	"github.com/abhisek/storyreel/internal/sequencer"
	"github.com/abhisek/storyreel/internal/transition"
)

// Grace sequencer phase names.
const (
	PhaseHoldOutgoing = "hold-outgoing"
	PhaseSwapKeyframe = "swap-keyframe"
)

const (
	// DefaultGraceWindow keeps the outgoing keyframe behind a forward video.
	// It is tuned by eye and not derived from the video length.
	DefaultGraceWindow = 4 * time.Second

	// DefaultReverseGraceWindow swaps the keyframe as soon as a reverse
	// transition starts.
	DefaultReverseGraceWindow = 0
)

// Listener receives transition lifecycle events. Any slot may be nil.
type Listener struct {
	OnStarted   func(from, to int, dir transition.Direction)
	OnCompleted func(from, to int)
	OnFailed    func(from, to int, err error)
}

// Options tunes the Driver.
type Options struct {
	GraceWindow        time.Duration
	ReverseGraceWindow time.Duration
}

// DefaultOptions returns the stock grace windows.
func DefaultOptions() Options {
	return Options{
		GraceWindow:        DefaultGraceWindow,
		ReverseGraceWindow: DefaultReverseGraceWindow,
	}
}

// Driver owns the transition video. It plays one transition at a time and
// always reports completion, on end or on any failure, exactly once.
type Driver struct {
	video    VideoElement
	resolver assets.Resolver
	clock    sequencer.Clock
	opts     Options
	logger   *zap.Logger

	mu         sync.Mutex
	listener   Listener
	gen        uint64
	run        *run
	visible    bool
	background int
	phase      string
	closed     bool
}

// run is the bookkeeping for one in-flight transition.
type run struct {
	gen      uint64
	from, to int
	dir      transition.Direction
	grace    *sequencer.Sequencer
	detach   []func()
	finished bool
}

// NewDriver returns a Driver showing scene 1's keyframe.
func NewDriver(video VideoElement, resolver assets.Resolver, clock sequencer.Clock, opts Options, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.GraceWindow < 0 {
		opts.GraceWindow = 0
	}
	if opts.ReverseGraceWindow < 0 {
		opts.ReverseGraceWindow = 0
	}
	return &Driver{
		video:      video,
		resolver:   resolver,
		clock:      clock,
		opts:       opts,
		logger:     logger,
		background: 1,
	}
}

// SetListener replaces the lifecycle listener.
func (d *Driver) SetListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listener = l
}

// Visible reports whether the video layer is covering the keyframe.
func (d *Driver) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

// Background returns the scene whose keyframe is rendered behind the video.
func (d *Driver) Background() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.background
}

// SetBackground shows scene i's keyframe when no transition is running.
func (d *Driver) SetBackground(i int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.run == nil {
		d.background = i
	}
}

// Phase returns the grace phase of the current transition, or "".
func (d *Driver) Phase() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// Start plays the transition from one scene to the next. A transition
// still in flight is abandoned without a completion callback.
func (d *Driver) Start(ctx context.Context, from, to int, dir transition.Direction) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.abandonLocked()
	d.gen++
	r := &run{gen: d.gen, from: from, to: to, dir: dir}
	d.run = r
	d.visible = true
	d.background = from

	window := d.opts.GraceWindow
	if dir == transition.Reverse {
		window = d.opts.ReverseGraceWindow
	}
	r.grace = sequencer.New(d.clock,
		sequencer.Phase{Name: PhaseHoldOutgoing, Duration: window, Enter: func() { d.enterPhase(r, PhaseHoldOutgoing) }},
		sequencer.Phase{Name: PhaseSwapKeyframe, Enter: func() { d.swap(r) }},
	)
	d.mu.Unlock()

	url := d.resolver.TransitionURL(from, to)
	d.logger.Debug("transition start",
		zap.Int("from", from),
		zap.Int("to", to),
		zap.Stringer("direction", dir),
		zap.String("url", url))

	d.video.Load(url)
	d.attach(r,
		d.video.OnEnded(func() { d.finish(r, nil) }),
		d.video.OnError(func(err error) { d.finish(r, err) }),
	)
	r.grace.Start()

	if dir == transition.Forward {
		d.video.Seek(0)
		d.video.SetRate(1)
		d.play(ctx, r)
		return
	}

	if dur, ok := d.video.Duration(); ok {
		d.playReverse(ctx, r, dur)
		return
	}
	d.attach(r, d.video.OnMetadata(func(dur time.Duration) {
		d.playReverse(ctx, r, dur)
	}))
}

func (d *Driver) playReverse(ctx context.Context, r *run, dur time.Duration) {
	if !d.current(r) {
		return
	}
	d.video.Seek(dur)
	d.video.SetRate(-1)
	d.play(ctx, r)
}

func (d *Driver) play(ctx context.Context, r *run) {
	if err := d.video.Play(ctx); err != nil {
		d.finish(r, err)
		return
	}

	d.mu.Lock()
	if r.gen != d.gen || r.finished {
		d.mu.Unlock()
		return
	}
	started := d.listener.OnStarted
	d.mu.Unlock()

	if started != nil {
		started(r.from, r.to, r.dir)
	}
}

func (d *Driver) enterPhase(r *run, phase string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r.gen == d.gen && !r.finished {
		d.phase = phase
	}
}

func (d *Driver) swap(r *run) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r.gen != d.gen || r.finished {
		return
	}
	d.phase = PhaseSwapKeyframe
	d.background = r.to
}

// finish ends r. On error the failure is reported before completion.
func (d *Driver) finish(r *run, err error) {
	d.mu.Lock()
	if r.gen != d.gen || r.finished {
		d.mu.Unlock()
		return
	}
	r.finished = true
	detach := r.detach
	r.detach = nil
	d.run = nil
	d.visible = false
	d.background = r.to
	d.phase = ""
	l := d.listener
	d.mu.Unlock()

	r.grace.Stop()
	for _, fn := range detach {
		fn()
	}
	if err != nil {
		d.video.Pause()
		d.logger.Warn("transition playback failed",
			zap.Int("from", r.from),
			zap.Int("to", r.to),
			zap.Error(err))
		if l.OnFailed != nil {
			l.OnFailed(r.from, r.to, err)
		}
	}
	if l.OnCompleted != nil {
		l.OnCompleted(r.from, r.to)
	}
}

func (d *Driver) attach(r *run, fns ...func()) {
	d.mu.Lock()
	if r.gen == d.gen && !r.finished {
		r.detach = append(r.detach, fns...)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (d *Driver) current(r *run) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return r.gen == d.gen && !r.finished
}

// abandonLocked drops the in-flight run without reporting it.
func (d *Driver) abandonLocked() {
	r := d.run
	if r == nil {
		return
	}
	r.finished = true
	d.run = nil
	d.phase = ""
	d.visible = false
	detach := r.detach
	r.detach = nil
	grace := r.grace
	// Detach funcs and Stop take other locks; none of them call back into d.
	for _, fn := range detach {
		fn()
	}
	if grace != nil {
		grace.Stop()
	}
}

// Close cancels the grace timer, stops the video and detaches every
// listener. No callback fires after Close returns.
func (d *Driver) Close() {
	d.mu.Lock()
	d.closed = true
	d.abandonLocked()
	d.gen++
	d.listener = Listener{}
	d.mu.Unlock()
	d.video.Pause()
}
