//go:build tinygo

//go:generate tinygo flash -target=arduino

package main

import (
	"machine"
	"time"

	"github.com/itohio/gotouch/pkg/touch"
	"github.com/itohio/gotouch/pkg/wire"
)

var (
	uart = machine.UART0
	bank *touch.Bank

	// Current filter, changed by UART commands
	filter = wire.Command{Samples: DEFAULT_SAMPLES}

	commands  wire.Parser
	lastSweep time.Time
)

func main() {
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	var err error
	bank, err = touch.NewBank(machineGPIO{}, cpuInterrupts{}, sensors()...)
	if err != nil {
		// The table is static, so this only happens after a bad edit.
		for {
			println("sensor table:", err.Error())
			time.Sleep(time.Second)
		}
	}

	// Sensor plates share pins with LEDs; start with every LED off.
	bank.ResetAllOutputs()

	lastSweep = time.Now()

	for {
		processSerial()

		now := time.Now()
		if now.Sub(lastSweep) >= SWEEP_INTERVAL_MS*time.Millisecond {
			sweep(now)
			lastSweep = now
		}

		time.Sleep(100 * time.Microsecond)
	}
}

// sweep measures every sensor, lights the LEDs of touched sensors and
// prints one line: "unix_micros,<filter>,v0,v1,...\n".
func sweep(now time.Time) {
	print(now.UnixNano() / 1000)
	print(",")
	printFilter()

	for i := range bank.Len() {
		id := bank.ID(i)
		var v touch.Sample
		if filter.Median {
			v = bank.Median(id)
		} else {
			v = bank.Average(id, filter.Samples)
		}

		bank.Indicate(id, v >= TOUCH_THRESHOLD)

		print(",")
		print(uint8(v))
	}
	print("\n")
}

func printFilter() {
	if filter.Median {
		print("m")
		return
	}
	print("a")
	print(filter.Samples)
}

// processSerial applies filter commands without blocking.
func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		if cmd, ok := commands.Feed(data); ok {
			filter = cmd
		}
	}
}
