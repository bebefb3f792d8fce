// SPDX-License-Identifier: GPL-3.0-or-later

package collector

import (
	"context"
	"fmt"
	"sync"
)

type recordLogger struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
	errors   []string
}

func (l *recordLogger) Infof(format string, a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, a...))
}

func (l *recordLogger) Warningf(format string, a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, a...))
}

func (l *recordLogger) Errorf(format string, a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, a...))
}

type mockSink struct {
	metrics []Metric
	errOn   map[string]error
}

func (s *mockSink) Dispatch(m Metric) error {
	if err := s.errOn[m.TypeInstance]; err != nil {
		return err
	}
	s.metrics = append(s.metrics, m)
	return nil
}

type resettingSink struct {
	mockSink
	resets int
}

func (s *resettingSink) Reset() {
	s.resets++
	s.metrics = nil
}


type mockFetcher struct {
	tasks []Task
	err   error
	calls int
}

func (f *mockFetcher) FetchTasks(context.Context) ([]Task, error) {
	f.calls++
	return f.tasks, f.err
}

func tasksWithStates(states ...string) []Task {
	tasks := make([]Task, 0, len(states))
	for _, s := range states {
		tasks = append(tasks, Task{State: s})
	}
	return tasks
}
