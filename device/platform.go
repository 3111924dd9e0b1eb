package device

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

const (
	// MaxWorkGroupSize bounds the local size of a dispatch.
	MaxWorkGroupSize = 1024

	defaultLocalMemSize = 32 * 1024 // bytes
)

// Device describes a compute device.
type Device struct {
	Name             string
	Vendor           string
	ComputeUnits     int
	MaxWorkGroupSize int
	LocalMemSize     int // bytes of group-local memory
	Features         []string
}

func (d Device) String() string {
	return fmt.Sprintf("%s (%d compute units, %d B local memory)", d.Name, d.ComputeUnits, d.LocalMemSize)
}

// Platform groups devices sharing a runtime.
type Platform struct {
	Name    string
	Version string
	Devices []Device
}

// Devices enumerates the available platforms. The Go runtime exposes a
// single platform whose only device is the host CPU.
func Devices() []Platform {
	return []Platform{{
		Name:    "Go runtime",
		Version: runtime.Version(),
		Devices: []Device{hostDevice()},
	}}
}

func hostDevice() Device {
	name := strings.TrimSpace(cpuid.CPU.BrandName)
	if name == "" {
		name = runtime.GOARCH + " CPU"
	}
	local := cpuid.CPU.Cache.L1D
	if local <= 0 {
		local = defaultLocalMemSize
	}
	return Device{
		Name:             name,
		Vendor:           cpuid.CPU.VendorString,
		ComputeUnits:     runtime.GOMAXPROCS(0),
		MaxWorkGroupSize: MaxWorkGroupSize,
		LocalMemSize:     local,
		Features:         cpuid.CPU.FeatureSet(),
	}
}

// ListPlatformsDevices renders Devices() the way the "devices" command
// prints it.
func ListPlatformsDevices() string {
	var sb strings.Builder
	for i, p := range Devices() {
		fmt.Fprintf(&sb, "Platform %d: %s, version: %s\n", i, p.Name, p.Version)
		for j, d := range p.Devices {
			fmt.Fprintf(&sb, "  Device %d: %s\n", j, d.Name)
			fmt.Fprintf(&sb, "    vendor: %s\n", d.Vendor)
			fmt.Fprintf(&sb, "    compute units: %d\n", d.ComputeUnits)
			fmt.Fprintf(&sb, "    max work-group size: %d\n", d.MaxWorkGroupSize)
			fmt.Fprintf(&sb, "    local memory: %d B\n", d.LocalMemSize)
			if len(d.Features) > 0 {
				fmt.Fprintf(&sb, "    features: %s\n", strings.Join(d.Features, " "))
			}
		}
	}
	return sb.String()
}
