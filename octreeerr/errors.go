// Package octreeerr defines the sentinel errors used across the octree
// module, per the error-kind taxonomy in the design: domain errors are fatal
// (wrapped into a panic at the call site), communication and serialization
// errors are returned to the caller unwrapped beyond %w context.
package octreeerr

import "errors"

var (
	// ErrNonFiniteCoordinate marks a NaN or infinite point coordinate.
	ErrNonFiniteCoordinate = errors.New("non-finite coordinate")

	// ErrLevelOverflow marks a requested level beyond morton.LMax.
	ErrLevelOverflow = errors.New("level exceeds LMax")

	// ErrEmptyPointSet marks an operation that requires at least one point.
	ErrEmptyPointSet = errors.New("empty point set")

	// ErrCollectiveMismatch marks a communicator collective called with
	// arguments that break the rendezvous contract between ranks; chanmesh
	// raises it when a SendRecv names a peer outside the rank range.
	ErrCollectiveMismatch = errors.New("collective call mismatch across ranks")

	// ErrInvalidHandle marks a cgoapi.Handle unknown to the process-wide
	// handle table: already destroyed, or never issued by Build/ReadHDF5.
	ErrInvalidHandle = errors.New("invalid handle")
)
