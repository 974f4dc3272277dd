//go:build tinygo && !atmega328p

package main

import (
	"machine"

	"github.com/itohio/gotouch/pkg/touch"
)

// fastPin has no register implementation on this target.
func fastPin(machine.Pin) *touch.Specialized {
	return nil
}
