// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package track records which article URLs have already been fully
// processed, backed by an append-only flat file with one URL per line.
//
// A URL is recorded only after its PDF has been written, but the PDF
// write and the tracking append are not atomic: a crash between the two
// reprocesses the URL on the next run. Processing is at-least-once.
package track

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Tracker holds the set of processed URLs and the path of its backing file.
type Tracker struct {
	path string
	done map[string]struct{}
}

// Load reads the tracking file at path and returns a Tracker over its
// contents. Blank lines are ignored. A missing file yields an empty
// tracker; any other read failure is an error, since an unreadable
// tracking file would cause every URL to be reprocessed.
func Load(path string) (*Tracker, error) {
	t := &Tracker{
		path: path,
		done: make(map[string]struct{}),
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("opening tracking file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		t.done[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading tracking file %s: %w", path, err)
	}
	return t, nil
}

// Contains reports whether url has been recorded as processed. Matching
// is exact string equality: no URL normalization is applied, so two
// semantically identical URLs differing in surface form are distinct.
func (t *Tracker) Contains(url string) bool {
	_, ok := t.done[url]
	return ok
}

// MarkDone appends url to the tracking file and adds it to the in-memory
// set. The set is updated only after the append succeeds, so a failed
// append leaves the URL eligible for reprocessing.
func (t *Tracker) MarkDone(url string) error {
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening tracking file %s: %w", t.path, err)
	}

	_, writeErr := fmt.Fprintln(f, url)
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("appending to tracking file: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing tracking file: %w", closeErr)
	}

	t.done[url] = struct{}{}
	return nil
}

// Len returns the number of recorded URLs.
func (t *Tracker) Len() int {
	return len(t.done)
}
