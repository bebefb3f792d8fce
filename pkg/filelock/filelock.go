// SPDX-License-Identifier: GPL-3.0-or-later

// Package filelock keeps a single plugin instance per polled host.
package filelock

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

const suffix = ".pulp_tasks.lock"

func New(dir string) *Locker {
	return &Locker{
		dir:   dir,
		locks: make(map[string]*flock.Flock),
	}
}

type Locker struct {
	mu    sync.Mutex
	dir   string
	locks map[string]*flock.Flock
}

// Lock tries to take the lock for name without blocking.
// It returns false with a nil error if another process holds the lock.
func (l *Locker) Lock(name string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	filename := l.filename(name)

	if _, ok := l.locks[filename]; ok {
		return true, nil
	}

	locker := flock.New(filename)

	ok, err := locker.TryLock()
	if ok {
		l.locks[filename] = locker
	} else {
		_ = locker.Close()
	}

	return ok, err
}

func (l *Locker) Unlock(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	filename := l.filename(name)

	locker, ok := l.locks[filename]
	if !ok {
		return
	}

	delete(l.locks, filename)
	_ = locker.Close()
}

func (l *Locker) UnlockAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, locker := range l.locks {
		delete(l.locks, key)
		_ = locker.Close()
	}
}

func (l *Locker) isLocked(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.locks[l.filename(name)]
	return ok
}

func (l *Locker) filename(name string) string {
	return filepath.Join(l.dir, lockName(name)+suffix)
}

var nameReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")

// host names may carry a port or an IPv6 literal
func lockName(name string) string {
	if name == "" {
		return "default"
	}
	return nameReplacer.Replace(name)
}
