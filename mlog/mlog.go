/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2017 Markus Stenberg
 *
 * Created:       Sat Dec 30 13:41:33 2017 mstenber
 * Last modified: Tue Apr  3 09:02:14 2018 mstenber
 * Edit time:     121 min
 *
 */

// mlog is maybe-log. It is a small wrapper of standard 'log' that
// only prints what was asked for:
//
// - the MLOG environment variable (or the -mlog flag) holds a regular
// expression; only calls whose file tag matches it are printed. By
// default nothing is, and disabled calls cost one atomic load.
//
// - call stack depth relative to the shallowest printed call is shown
// as leading dots, which makes nested operations readable.
package mlog

import (
	"flag"
	"fmt"
	"log"
	"os"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	stateUninitialized int32 = iota
	stateDisabled
	stateEnabled
)

const maxDepth = 100

var flagPattern = flag.String("mlog", "", "Enable debug logging for file tags matching the given regular expression")

// status is accessed atomically, everything in st only with st.mutex
// held.
var status int32

var st struct {
	mutex    sync.Mutex
	logger   *log.Logger
	pattern  string
	re       *regexp.Regexp
	matches  map[string]bool
	minDepth int
	callers  []uintptr
}

func init() {
	st.logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
	Reset()
}

// Reset forgets the pattern and the depth baseline; the next call
// re-reads MLOG and the flag.
func Reset() {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	atomic.StoreInt32(&status, stateUninitialized)
	st.minDepth = maxDepth
	st.callers = make([]uintptr, maxDepth)
}

// IsEnabled can be used to check if mlog is in use at all before
// doing something expensive.
func IsEnabled() bool {
	return atomic.LoadInt32(&status) != stateDisabled
}

// SetLogger replaces the output logger. Calling the returned function
// restores the previous one.
func SetLogger(l *log.Logger) (undo func()) {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	old := st.logger
	st.logger = l
	return func() {
		st.mutex.Lock()
		defer st.mutex.Unlock()
		st.logger = old
	}
}

// SetPattern overrides the environment/flag provided pattern. Calling
// the returned function restores the previous one.
func SetPattern(p string) (undo func()) {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	old := st.pattern
	setPattern(p)
	return func() {
		st.mutex.Lock()
		defer st.mutex.Unlock()
		setPattern(old)
	}
}

func setPattern(p string) {
	st.pattern = p
	if p == "" {
		atomic.StoreInt32(&status, stateDisabled)
		return
	}
	re, err := regexp.Compile(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mlog: ignoring invalid pattern %q: %v\n", p, err)
		st.pattern = ""
		atomic.StoreInt32(&status, stateDisabled)
		return
	}
	st.re = re
	st.matches = make(map[string]bool)
	atomic.StoreInt32(&status, stateEnabled)
}

func ensureInitialized() {
	if atomic.LoadInt32(&status) != stateUninitialized {
		return
	}
	p := os.Getenv("MLOG")
	if *flagPattern != "" {
		p = *flagPattern
	}
	setPattern(p)
}

// Printf is a drop-in replacement of log.Printf that uses the name of
// the calling source file as the tag. runtime.Caller is not free, so
// prefer Printf2 in hot paths.
func Printf(format string, args ...interface{}) {
	if atomic.LoadInt32(&status) == stateDisabled {
		return
	}
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return
	}
	Printf2(file, format, args...)
}

// Printf2 prints if tag matches the pattern. By convention the tag
// is the package relative path of the calling file without suffix,
// e.g. "storage/file/file".
func Printf2(tag string, format string, args ...interface{}) {
	if atomic.LoadInt32(&status) == stateDisabled {
		return
	}
	st.mutex.Lock()
	defer st.mutex.Unlock()
	ensureInitialized()
	if atomic.LoadInt32(&status) != stateEnabled {
		return
	}
	match, ok := st.matches[tag]
	if !ok {
		match = st.re.MatchString(tag)
		st.matches[tag] = match
	}
	if !match {
		return
	}
	depth := runtime.Callers(1, st.callers)
	if depth < st.minDepth {
		st.minDepth = depth
	}
	if depth -= st.minDepth; depth > 0 {
		format = strings.Repeat(".", depth) + format
	}
	st.logger.Printf(format, args...)
}
