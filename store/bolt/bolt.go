/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package bolt provides a core.Warehouse that keeps its values in a
// BoltDB file, so values informed in one pass can be probed in later
// passes (and later processes).
//
// Values are stored as JSON, so a probed value looks like something
// from encoding/json (numbers are float64s, for example).
package bolt

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Comcast/tako/core"

	"go.etcd.io/bbolt"
)

// DefaultBucket is the bucket used when none is given.
var DefaultBucket = "warehouse"

// Warehouse is a core.Warehouse backed by a BoltDB bucket.
//
// Reset only resets the Bot state.  Use Clear to remove stored
// values.
type Warehouse struct {
	core.BaseBot

	// Debug enables debug logging.
	Debug bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	filename string
	bucket   []byte
	db       *bbolt.DB
}

// NewWarehouse makes a Warehouse.  Call Open before use.
func NewWarehouse(filename, bucket string) *Warehouse {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &Warehouse{
		filename: filename,
		bucket:   []byte(bucket),
	}
}

func (w *Warehouse) logf(msg string, args ...interface{}) {
	if !w.Debug {
		return
	}
	l := w.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Debug("bolt warehouse "+msg, append(args, "bucket", string(w.bucket))...)
}

// Open opens the database file and makes sure the bucket exists.
func (w *Warehouse) Open() error {
	opts := &bbolt.Options{
		Timeout: time.Second,
	}

	db, err := bbolt.Open(w.filename, 0644, opts)
	if err != nil {
		return err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(w.bucket)
		return err
	}); err != nil {
		db.Close()
		return err
	}
	w.db = db
	w.logf("open", "filename", w.filename)
	return nil
}

// Close closes the database.
func (w *Warehouse) Close() error {
	w.logf("close")
	return w.db.Close()
}

func (w *Warehouse) Inform(key string, v interface{}) error {
	js, err := json.Marshal(&v)
	if err != nil {
		return err
	}
	w.logf("inform", "key", key, "value", string(js))
	return w.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(w.bucket).Put([]byte(key), js)
	})
}

func (w *Warehouse) Probe(key string, def interface{}) (interface{}, bool, error) {
	var (
		v     interface{}
		found bool
	)
	err := w.db.View(func(tx *bbolt.Tx) error {
		bs := tx.Bucket(w.bucket).Get([]byte(key))
		if bs == nil {
			return nil
		}
		found = true
		return json.Unmarshal(bs, &v)
	})
	if err != nil {
		return nil, false, err
	}
	w.logf("probe", "key", key, "found", found)
	if !found {
		return def, false, nil
	}
	return v, true, nil
}

func (w *Warehouse) Uninform(key string) error {
	w.logf("uninform", "key", key)
	return w.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(w.bucket)
		k := []byte(key)
		if b.Get(k) == nil {
			return &core.KeyError{Key: key}
		}
		return b.Delete(k)
	})
}

func (w *Warehouse) Clear() error {
	w.logf("clear")
	return w.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(w.bucket); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(w.bucket)
		return err
	})
}

// Keys returns the stored keys in order.
func (w *Warehouse) Keys() ([]string, error) {
	var acc []string
	err := w.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(w.bucket).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			acc = append(acc, string(k))
		}
		return nil
	})
	return acc, err
}
