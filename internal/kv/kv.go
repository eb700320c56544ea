// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package kv provides the durable key/value cache used in local-only mode.
// Every Put replaces the whole value of a key in one write.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written
var ErrNotFound = errors.New("kv: key not found")

// Backend names
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Store is a durable key/value store
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a backend
type Config struct {
	Backend     string
	SQLitePath  string
	BadgerDir   string
	RedisURL    string
	RedisPrefix string
}

// Open creates the backend named by cfg.Backend
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case BackendBadger:
		return NewBadgerStore(cfg.BadgerDir)
	case BackendRedis:
		return NewRedisStore(cfg.RedisURL, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("unsupported kv backend: %s", cfg.Backend)
	}
}
