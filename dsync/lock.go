package dsync

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bobg/flock"
	"github.com/pkg/errors"
)

// LockName is the name of the lock file in a destination root.
// It begins with a dot, so synchronization ignores it.
const LockName = ".direncode.lock"

// LockWait is how long Lock blocks before logging that it is waiting.
var LockWait = time.Second

// Lock takes an advisory lock on the destination tree rooted at dst,
// so that only one process at a time mutates it.
// It blocks while another process holds the lock,
// logging a message if that takes longer than LockWait.
// The caller must call the returned function to release the lock.
func Lock(dst string) (unlock func() error, err error) {
	path := filepath.Join(dst, LockName)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "creating lock file %s", path)
	}
	err = f.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "closing lock file %s", path)
	}

	locker := new(flock.Locker)
	err = lockNotice(func() error { return locker.Lock(path) }, LockWait, func() {
		log.Printf("waiting for lock on %s (is another direncode using %s?)", path, dst)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "locking %s", path)
	}
	return func() error {
		return errors.Wrapf(locker.Unlock(path), "unlocking %s", path)
	}, nil
}

// lockNotice calls lock and waits for it to return.
// If that takes longer than d, it calls notice first.
func lockNotice(lock func() error, d time.Duration, notice func()) error {
	done := make(chan error, 1)
	go func() {
		done <- lock()
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		notice()
		return <-done
	}
}
