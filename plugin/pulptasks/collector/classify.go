// SPDX-License-Identifier: GPL-3.0-or-later

package collector

import (
	"github.com/samber/lo"
)

const (
	RunningTasks = "running_tasks"
	WaitingTasks = "waiting_tasks"

	stateRunning = "running"
	stateWaiting = "waiting"
)

// Counts maps a tracked field name to the number of tasks in that state.
type Counts map[string]int64

// Classify counts running and waiting tasks. Both fields are always present.
func Classify(tasks []Task) Counts {
	byState := lo.CountValuesBy(tasks, func(t Task) string { return t.State })

	return Counts{
		RunningTasks: int64(byState[stateRunning]),
		WaitingTasks: int64(byState[stateWaiting]),
	}
}
