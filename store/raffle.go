package store

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultRollDuration = 3 * time.Second
	DefaultRollTick     = 50 * time.Millisecond
	DefaultPrize        = "特等獎"
)

// Choose who may win. When duplicate winners are allowed everybody is in the
// pool. Otherwise anybody whose *name* already appears in the history sits this
// one out, even if they were imported again under a new id.
//
// The result keeps the order of participants.
func ComputeEligible(participants []Participant, history []WinnerRecord, allow_duplicate_winners bool) []Participant {
	if allow_duplicate_winners {
		return participants
	}

	won := make(map[string]struct{}, len(history))
	for _, h := range history {
		won[h.Name] = struct{}{}
	}

	var eligible []Participant
	for _, p := range participants {
		if _, ok := won[p.Name]; !ok {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// SelectWinner picks uniformly from eligible, which must not be empty.
func SelectWinner(rng RNG, eligible []Participant) Participant {
	// behold, the chosen one
	return eligible[rng.Intn(len(eligible))]
}

// Roll is the timing of the rolling animation shown before a winner is revealed.
type Roll struct {
	Duration time.Duration
	Tick     time.Duration
}

func (r Roll) withDefaults() Roll {
	if r.Duration <= 0 {
		r.Duration = DefaultRollDuration
	}
	if r.Tick <= 0 {
		r.Tick = DefaultRollTick
	}
	return r
}

// Drawer runs the rolling animation. It owns at most one running roll at a
// time and the goroutine behind it.
//
// The names it shows come from its own random source, separate from the one
// used to pick the winner, so the animation can never change the result.
type Drawer struct {
	rng RNG

	mu      sync.Mutex
	drawing bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewDrawer(rng RNG) *Drawer {
	return &Drawer{rng: rng}
}

// Drawing reports whether a roll is currently running.
func (d *Drawer) Drawing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drawing
}

// Start begins rolling through participants. onTick is called with a random
// participant right away and then every roll.Tick until roll.Duration has
// passed. onFinish is called exactly once, with completed set to false if the
// roll was stopped early. Both callbacks run on the roll goroutine. The drawer
// is already idle when onFinish runs, so onFinish may Start the next roll.
func (d *Drawer) Start(participants []Participant, roll Roll, onTick func(Participant), onFinish func(completed bool)) error {
	if len(participants) == 0 {
		return ErrEmptyParticipants
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drawing {
		return ErrDrawInProgress
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.drawing = true
	d.cancel = cancel
	d.done = make(chan struct{})

	go d.run(ctx, d.done, participants, roll.withDefaults(), onTick, onFinish)
	return nil
}

func (d *Drawer) run(ctx context.Context, done chan struct{}, participants []Participant, roll Roll, onTick func(Participant), onFinish func(bool)) {
	defer close(done)

	ticker := time.NewTicker(roll.Tick)
	defer ticker.Stop()
	deadline := time.NewTimer(roll.Duration)
	defer deadline.Stop()

	completed := false
	tick := func() {
		if onTick != nil {
			onTick(participants[d.rng.Intn(len(participants))])
		}
	}

	tick()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-deadline.C:
			completed = true
			break loop
		case <-ticker.C:
			// a cancel racing a tick must win
			if ctx.Err() != nil {
				break loop
			}
			tick()
		}
	}

	d.mu.Lock()
	d.drawing = false
	d.cancel()
	d.cancel = nil
	d.mu.Unlock()

	if onFinish != nil {
		onFinish(completed)
	}
}

// Stop cancels a running roll and waits for its goroutine, onFinish included,
// to exit. No callback is delivered once Stop returns. Stop must not be called
// from inside a callback.
func (d *Drawer) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}
