// File: adapters/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package adapters bridges the runtime's capability contracts to external
// collaborators: hclog-backed logging and deep-copy-backed Lifespan state.
package adapters
