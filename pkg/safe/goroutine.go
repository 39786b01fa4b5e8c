// Copyright 2025 Arcade Team
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

package safe

import (
	"fmt"
	"runtime/debug"

	"github.com/go-arcade/quizhub/pkg/log"
)

// Go starts a new goroutine to run the given function f safely.
func Go(f func()) {
	go func() { _ = Do(f) }()
}

// Do runs f and converts a panic into an error.
func Do(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered from panic: %v", r)
			log.Errorw("recovered from panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	f()
	return nil
}

// DoErr is Do for functions that already return an error.
func DoErr(f func() error) (err error) {
	if perr := Do(func() { err = f() }); perr != nil {
		return perr
	}
	return err
}
