// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package metrics registers its collectors with the default Prometheus
// registry via promauto at import time. A host that wants to expose them
// mounts promhttp.Handler() itself; this package has no HTTP surface of
// its own (§1: no REST API in scope).
package metrics
