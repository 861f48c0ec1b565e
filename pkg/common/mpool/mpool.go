// Copyright 2023 The StarRocks Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mpool implements the memory-accounting pool every owned buffer
// is charged to. The pool does not cache or reuse memory; it exists so
// that aggregate usage is observable and capped per query/scan context.
package mpool

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/gavinljj/starrocks/pkg/common/moerr"
	"github.com/gavinljj/starrocks/pkg/logutil"
)

const (
	MB = 1 << 20
	GB = 1 << 30
	PB = 1 << 50
)

// MPoolStats counters are updated atomically and never reset.
type MPoolStats struct {
	NumAlloc      atomic.Int64
	NumFree       atomic.Int64
	NumCurrBytes  atomic.Int64
	HighWaterMark atomic.Int64
}

func (s *MPoolStats) RecordAlloc(sz int64) {
	s.NumAlloc.Add(1)
	curr := s.NumCurrBytes.Add(sz)
	for {
		hwm := s.HighWaterMark.Load()
		if curr <= hwm || s.HighWaterMark.CompareAndSwap(hwm, curr) {
			break
		}
	}
}

func (s *MPoolStats) RecordFree(sz int64) {
	s.NumFree.Add(1)
	s.NumCurrBytes.Add(-sz)
}

type MPool struct {
	tag   string
	cap   int64
	stats MPoolStats
}

var globalPools sync.Map // tag -> *MPool
var globalStats MPoolStats

// NewMPool creates a pool with the given tag. A cap of 0 means the
// effectively-unlimited default (1 PB).
func NewMPool(tag string, cap int64) (*MPool, error) {
	if cap < 0 {
		return nil, moerr.NewInvalidArgNoCtx("mpool cap", cap)
	}
	if cap == 0 {
		cap = PB
	}
	m := &MPool{tag: tag, cap: cap}
	globalPools.Store(tag, m)
	return m, nil
}

// MustNewZero creates an anonymous, uncapped pool or panics.
func MustNewZero() *MPool {
	m, err := NewMPool("zero_default", 0)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *MPool) Tag() string {
	return m.tag
}

func (m *MPool) Cap() int64 {
	return m.cap
}

func (m *MPool) Stats() *MPoolStats {
	return &m.stats
}

// CurrNB returns the number of bytes still available under the cap.
func (m *MPool) CurrNB() int64 {
	return m.cap - m.stats.NumCurrBytes.Load()
}

// Alloc returns a zeroed buffer of exactly sz bytes charged to the pool.
func (m *MPool) Alloc(sz int) ([]byte, error) {
	if sz < 0 {
		return nil, moerr.NewInvalidArgNoCtx("alloc size", sz)
	}
	if sz == 0 {
		return nil, nil
	}
	if m.stats.NumCurrBytes.Load()+int64(sz) > m.cap {
		return nil, moerr.NewOOMNoCtx()
	}
	m.stats.RecordAlloc(int64(sz))
	globalStats.RecordAlloc(int64(sz))
	return make([]byte, sz), nil
}

// Free releases a buffer obtained from Alloc or Realloc. Freeing nil is a
// no-op.
func (m *MPool) Free(buf []byte) {
	if buf == nil {
		return
	}
	sz := int64(cap(buf))
	m.stats.RecordFree(sz)
	globalStats.RecordFree(sz)
}

// Realloc grows old to sz bytes, preserving content and zeroing the tail.
// The old buffer is released.
func (m *MPool) Realloc(old []byte, sz int) ([]byte, error) {
	if sz <= cap(old) {
		return old[:sz], nil
	}
	buf, err := m.Alloc(sz)
	if err != nil {
		return nil, err
	}
	copy(buf, old)
	m.Free(old)
	return buf, nil
}

// DeleteMPool unregisters the pool, reporting any un-freed bytes.
func DeleteMPool(m *MPool) {
	if m == nil {
		return
	}
	globalPools.Delete(m.tag)
	if leaked := m.stats.NumCurrBytes.Load(); leaked != 0 {
		logutil.Errorf("mpool %s destroyed with %d bytes leaked", m.tag, leaked)
	}
}

type poolUsage struct {
	Tag           string `json:"tag"`
	Cap           int64  `json:"cap"`
	NumAlloc      int64  `json:"num_alloc"`
	NumFree       int64  `json:"num_free"`
	NumCurrBytes  int64  `json:"num_curr_bytes"`
	HighWaterMark int64  `json:"high_water_mark"`
}

func statsUsage(tag string, cap int64, s *MPoolStats) poolUsage {
	return poolUsage{
		Tag:           tag,
		Cap:           cap,
		NumAlloc:      s.NumAlloc.Load(),
		NumFree:       s.NumFree.Load(),
		NumCurrBytes:  s.NumCurrBytes.Load(),
		HighWaterMark: s.HighWaterMark.Load(),
	}
}

// ReportMemUsage returns a JSON description of pool usage. Tag "" reports
// every live pool, "global" the process-wide aggregate.
func ReportMemUsage(tag string) string {
	var usages []poolUsage
	if tag == "" || tag == "global" {
		usages = append(usages, statsUsage("global", 0, &globalStats))
	}
	if tag != "global" {
		globalPools.Range(func(_, v any) bool {
			m := v.(*MPool)
			if tag == "" || m.tag == tag {
				usages = append(usages, statsUsage(m.tag, m.cap, &m.stats))
			}
			return true
		})
	}
	data, err := json.Marshal(usages)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// GlobalStats returns the process-wide aggregate counters.
func GlobalStats() *MPoolStats {
	return &globalStats
}
