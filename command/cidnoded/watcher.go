// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/logger"
)

// editors write a file in several steps
const reloadDelay = 500 * time.Millisecond

// configWatcher - calls reload after the configuration file changes
type configWatcher struct {
	log      *logger.L
	watcher  *fsnotify.Watcher
	fileName string
	reload   func()
}

// watch the directory so a file replaced by rename is still seen
func newConfigWatcher(fileName string, reload func()) (*configWatcher, error) {
	filePath, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(filePath)); nil != err {
		watcher.Close()
		return nil, err
	}

	return &configWatcher{
		log:      logger.New("watcher"),
		watcher:  watcher,
		fileName: filePath,
		reload:   reload,
	}, nil
}

// Run - background process
func (w *configWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Infof("watching: %q", w.fileName)

	defer w.watcher.Close()

	// stopped until the first event
	timer := time.NewTimer(reloadDelay)
	if !timer.Stop() {
		<-timer.C
	}

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != w.fileName || !isChange(event) {
				continue
			}
			log.Debugf("file event: %v", event)
			timer.Reset(reloadDelay)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watch error: %s", err)

		case <-timer.C:
			log.Info("configuration changed")
			w.reload()
		}
	}
	timer.Stop()
	log.Info("stopped")
}

func isChange(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Chmod) != 0
}
