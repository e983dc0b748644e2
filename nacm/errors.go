// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nacm

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrCacheBuildFailed names a resource-exhaustion-class failure while
	// building a message cache. No function in this package returns it: a
	// failed message-cache build is turned into a deny decision directly.
	ErrCacheBuildFailed = errors.NewKind("nacm: cache build failed: %s")
	// ErrNoSession names a session ID with no per-session state. No
	// function in this package returns it: Session registers an unknown ID
	// on first use, and InvalidateSessionCache/ClearSessionCache ignore one.
	ErrNoSession = errors.NewKind("nacm: unknown session %d")
)
