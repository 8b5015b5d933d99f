// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package udex

// Status is the lifecycle state of a VM instance.
type Status uint8

const (
	// Uninitialized is the default / unset state.
	Uninitialized Status = iota

	// Ready indicates the VM is serving calls.
	Ready

	// Stopped indicates the VM has been shut down. A stopped VM can't be
	// initialized again.
	Stopped
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Ready:
		return "Ready"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}
