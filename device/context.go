package device

import "time"

// Context binds a device to the resources created on it.
type Context struct {
	device Device
	epoch  time.Time
}

// NewContext selects a device by platform and device index.
func NewContext(platformID, deviceID int) (*Context, error) {
	platforms := Devices()
	if platformID < 0 || platformID >= len(platforms) {
		return nil, deviceError("get context", StatusInvalidPlatform, "no platform %d (%d available)", platformID, len(platforms))
	}
	devices := platforms[platformID].Devices
	if deviceID < 0 || deviceID >= len(devices) {
		return nil, deviceError("get context", StatusDeviceNotFound, "no device %d on platform %d", deviceID, platformID)
	}
	return NewContextFor(devices[deviceID])
}

// NewContextFor creates a context on an explicitly described device.
func NewContextFor(d Device) (*Context, error) {
	if d.ComputeUnits <= 0 {
		return nil, deviceError("get context", StatusInvalidDevice, "device %q has no compute units", d.Name)
	}
	if d.MaxWorkGroupSize <= 0 || d.MaxWorkGroupSize > MaxWorkGroupSize {
		d.MaxWorkGroupSize = MaxWorkGroupSize
	}
	return &Context{device: d, epoch: time.Now()}, nil
}

// Device returns the device the context runs on.
func (c *Context) Device() Device {
	return c.device
}

// now returns nanoseconds elapsed on the context's monotonic clock.
func (c *Context) now() int64 {
	return time.Since(c.epoch).Nanoseconds()
}
