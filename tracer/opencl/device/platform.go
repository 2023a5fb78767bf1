//go:build opencl

package device

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unsafe"

	"github.com/achilleasa/gopencl/v1.2/cl"
)

const (
	platformBufferSize = 100
	deviceBufferSize   = 100
	dataBufferSize     = 1024
)

var (
	indentRegex = regexp.MustCompile("(?m)^")
)

// Information about a system's opencl platform and supported devices.
type PlatformInfo struct {
	Profile    string
	Version    string
	Name       string
	Vendor     string
	Extensions string
	Devices    []*Device
}

func (pl PlatformInfo) String() string {
	var buf bytes.Buffer

	buf.WriteString(
		fmt.Sprintf(
			"Version:    %s\nName:       %s\nVendor:     %s\nExtensions: %s\nDevices:\n",
			pl.Version,
			pl.Name,
			pl.Vendor,
			pl.Extensions,
		),
	)

	for dIdx, d := range pl.Devices {
		buf.WriteString(fmt.Sprintf("  Device %02d:\n", dIdx))
		buf.WriteString(indentRegex.ReplaceAllString(d.String(), "    "))
		buf.WriteString("\n\n")
	}

	return buf.String()
}

// Get information about supported opencl platforms and devices. A system
// without any opencl platform yields an empty list.
func GetPlatformInfo() ([]PlatformInfo, error) {
	pids := make([]cl.PlatformID, platformBufferSize)
	data := make([]byte, dataBufferSize)
	dataLen := uint64(0)

	devices := make([]cl.DeviceId, deviceBufferSize)
	deviceCount := uint32(0)

	pidCount := uint32(0)
	errCode := cl.GetPlatformIDs(uint32(len(pids)), &pids[0], &pidCount)
	if errCode != cl.SUCCESS || pidCount == 0 {
		return []PlatformInfo{}, nil
	}

	infoList := make([]PlatformInfo, int(pidCount))
	for pIdx := 0; pIdx < int(pidCount); pIdx++ {
		info := &infoList[pIdx]
		info.Devices = make([]*Device, 0)

		dataLen = 0
		cl.GetPlatformInfo(pids[pIdx], cl.PLATFORM_PROFILE, dataBufferSize, unsafe.Pointer(&data[0]), &dataLen)
		info.Profile = trimInfoString(data, dataLen)

		dataLen = 0
		cl.GetPlatformInfo(pids[pIdx], cl.PLATFORM_VERSION, dataBufferSize, unsafe.Pointer(&data[0]), &dataLen)
		info.Version = trimInfoString(data, dataLen)

		dataLen = 0
		cl.GetPlatformInfo(pids[pIdx], cl.PLATFORM_NAME, dataBufferSize, unsafe.Pointer(&data[0]), &dataLen)
		info.Name = trimInfoString(data, dataLen)

		dataLen = 0
		cl.GetPlatformInfo(pids[pIdx], cl.PLATFORM_VENDOR, dataBufferSize, unsafe.Pointer(&data[0]), &dataLen)
		info.Vendor = trimInfoString(data, dataLen)

		dataLen = 0
		cl.GetPlatformInfo(pids[pIdx], cl.PLATFORM_EXTENSIONS, dataBufferSize, unsafe.Pointer(&data[0]), &dataLen)
		info.Extensions = trimInfoString(data, dataLen)

		// Enumerate CPU devices
		deviceCount = 0
		errCode = cl.GetDeviceIDs(pids[pIdx], cl.DEVICE_TYPE_CPU, uint32(deviceBufferSize), &devices[0], &deviceCount)
		if errCode == cl.SUCCESS {
			info.Devices = appendDevices(info.Devices, devices[:deviceCount], CpuDevice, info.Name)
		}

		// Enumerate GPU devices
		deviceCount = 0
		errCode = cl.GetDeviceIDs(pids[pIdx], cl.DEVICE_TYPE_GPU, uint32(deviceBufferSize), &devices[0], &deviceCount)
		if errCode == cl.SUCCESS {
			info.Devices = appendDevices(info.Devices, devices[:deviceCount], GpuDevice, info.Name)
		}

		for _, dev := range info.Devices {
			err := dev.detectSpeed()
			if err != nil {
				return nil, err
			}
		}
	}

	return infoList, nil
}

func appendDevices(list []*Device, ids []cl.DeviceId, devType DeviceType, platform string) []*Device {
	data := make([]byte, dataBufferSize)
	for _, id := range ids {
		dataLen := uint64(0)
		cl.GetDeviceInfo(id, cl.DEVICE_NAME, dataBufferSize, unsafe.Pointer(&data[0]), &dataLen)
		list = append(list, &Device{
			Name:     trimInfoString(data, dataLen),
			Platform: platform,
			Id:       id,
			Type:     devType,
		})
	}
	return list
}

// Scan all available opencl platforms and select devices that match the given
// type mask and name. Devices whose name contains any of the blacklisted
// substrings (case-insensitive) are skipped.
func SelectDevices(typeMask DeviceType, matchName string, blackList []string) ([]*Device, error) {
	platforms, err := GetPlatformInfo()
	if err != nil {
		return nil, err
	}
	list := make([]*Device, 0)
	for _, p := range platforms {
		for _, d := range p.Devices {
			if !matchesDevice(d, typeMask, matchName, blackList) {
				continue
			}
			list = append(list, d)
		}
	}
	return list, nil
}

func matchesDevice(d *Device, typeMask DeviceType, matchName string, blackList []string) bool {
	if d.Type&typeMask != d.Type {
		return false
	}

	if matchName != "" && !strings.Contains(d.Name, matchName) {
		return false
	}

	name := strings.ToLower(d.Name)
	for _, entry := range blackList {
		entry = strings.TrimSpace(entry)
		if entry != "" && strings.Contains(name, strings.ToLower(entry)) {
			return false
		}
	}

	return true
}

// Strip the trailing NUL from an opencl info string.
func trimInfoString(data []byte, dataLen uint64) string {
	if dataLen == 0 || int(dataLen) > len(data) {
		return ""
	}
	return string(data[0 : dataLen-1])
}
