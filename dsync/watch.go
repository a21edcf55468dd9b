package dsync

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rjeczalik/notify"
	"golang.org/x/sync/errgroup"
)

// DefaultInterval is how often Watch checks for pending changes
// when it is given no interval.
const DefaultInterval = time.Second

// Watch subscribes to filesystem changes under t.Src (recursively),
// then performs one synchronization pass.
// After that, every interval,
// if anything has changed since the last check
// (including during the first pass),
// Watch runs passes until one reports no change.
// That drains bursts, such as many files arriving together.
//
// Watch returns nil when ctx is canceled,
// after the notification subscription has been stopped and its goroutine has exited.
// An encode in progress at that moment runs to completion first.
// Any synchronization error ends the watch and is returned.
func (t *Tree) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	// Subscribe before the first pass,
	// so changes made while it runs are not missed.
	fsch := make(chan notify.EventInfo, 100)
	err := notify.Watch(t.Src+"/...", fsch, notify.All)
	if err != nil {
		return errors.Wrapf(err, "watching %s/...", t.Src)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		pending atomic.Bool
		g       errgroup.Group
	)

	// This goroutine monitors the filesystem watcher.
	// It never touches the destination tree.
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil

			case _, ok := <-fsch:
				if !ok {
					log.Print("file-events channel closed, exiting filesystem watcher")
					return nil
				}
				pending.Store(true)
			}
		}
	})

	err = t.watch(ctx, interval, &pending)

	cancel()
	notify.Stop(fsch)
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}

func (t *Tree) watch(ctx context.Context, interval time.Duration, pending *atomic.Bool) error {
	_, err := t.Sync(ctx)
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "syncing %s to %s", t.Src, t.Dst)
	}
	return t.poll(ctx, interval, pending)
}

func (t *Tree) poll(ctx context.Context, interval time.Duration, pending *atomic.Bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	t.progress("WATCHING", t.Src)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if !pending.Swap(false) {
				continue
			}
			err := t.SyncUntilStable(ctx)
			if ctx.Err() != nil {
				return nil
			}
			if err != nil {
				return errors.Wrapf(err, "syncing %s to %s", t.Src, t.Dst)
			}
			t.progress("WATCHING", t.Src)
		}
	}
}

// SyncUntilStable runs synchronization passes until one reports no change.
func (t *Tree) SyncUntilStable(ctx context.Context) error {
	for {
		changed, err := t.Sync(ctx)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
	}
}
