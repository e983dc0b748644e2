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

package cache

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrNilConfig is returned when a cache is built from a nil Config,
	// which is always a caller bug rather than a recoverable condition.
	ErrNilConfig = errors.NewKind("nacm cache: nil config")
	// ErrNoDatastoreRoot is returned when a message cache is built without
	// a datastore snapshot to evaluate data-rules against.
	ErrNoDatastoreRoot = errors.NewKind("nacm cache: no datastore root")
)
