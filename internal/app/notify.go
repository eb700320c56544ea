// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package app

import (
	"sync"
	"time"
)

// Level of a notification
type Level string

// Levels
const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a message for the user
type Notification struct {
	Level   Level     `json:"level" yaml:"level"`
	Message string    `json:"message" yaml:"message"`
	Time    time.Time `json:"time" yaml:"time"`
}

// Notifier receives user facing messages. The controller never renders anything itself.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

// Notify implements Notifier
func (f NotifierFunc) Notify(n Notification) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

// NotificationLog keeps the most recent notifications in memory
type NotificationLog struct {
	mu    sync.Mutex
	items []Notification
	max   int
}

// NewNotificationLog creates a log holding at most max entries
func NewNotificationLog(max int) *NotificationLog {
	if max <= 0 {
		max = 50
	}
	return &NotificationLog{max: max}
}

// Notify implements Notifier
func (l *NotificationLog) Notify(n Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, n)
	if over := len(l.items) - l.max; over > 0 {
		l.items = append([]Notification(nil), l.items[over:]...)
	}
}

// Recent returns a copy of the logged notifications, oldest first
func (l *NotificationLog) Recent() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Notification{}, l.items...)
}

// Drain returns and forgets the logged notifications
func (l *NotificationLog) Drain() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.items
	l.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
