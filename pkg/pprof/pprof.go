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

package pprof

import (
	"net/http"
	"net/http/pprof"
	"strings"
)

const DefaultPath = "/debug/pprof"

var profiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

// Register mounts the runtime profiling handlers under prefix.
func Register(mux *http.ServeMux, prefix string) {
	if prefix == "" {
		prefix = DefaultPath
	}
	prefix = strings.TrimRight(prefix, "/")

	mux.HandleFunc(prefix+"/", pprof.Index)
	mux.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
	mux.HandleFunc(prefix+"/profile", pprof.Profile)
	mux.HandleFunc(prefix+"/symbol", pprof.Symbol)
	mux.HandleFunc(prefix+"/trace", pprof.Trace)
	for _, name := range profiles {
		mux.Handle(prefix+"/"+name, pprof.Handler(name))
	}
}
