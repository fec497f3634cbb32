/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package dds gives access to the cf-ad9361-dds-core-lpc IIO device
// registers through its debugfs direct_reg_access file.
//
// The handle is resolved once. Every write opens the register file,
// writes one "0x<addr> 0x<value>" line and closes it again, so nothing
// is held between calls. Writes are not serialized here; callers that
// need mutual exclusion across registers have to provide it.
package dds

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"jinr.ru/greenlab/go-dds/pkg/config"
	"jinr.ru/greenlab/go-dds/pkg/dds/ifc"
	"jinr.ru/greenlab/go-dds/pkg/log"
)

// DeviceInfo describes one entry of the IIO devices directory
type DeviceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Core is the cf-ad9361-dds-core-lpc IIO debugfs device
type Core struct {
	fs          afero.Fs
	deviceID    string
	regFilePath string
}

var _ ifc.Core = &Core{}

func defaults(cfg *config.DeviceConfig, fs afero.Fs) (*config.DeviceConfig, afero.Fs) {
	if cfg == nil {
		cfg = config.NewDefaultConfig().DeviceConfig
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return cfg, fs
}

// OpenDefault opens the DDS core at the standard sysfs and debugfs locations
func OpenDefault(ctx context.Context) (*Core, error) {
	return Open(ctx, nil, nil)
}

// Open finds the IIO device named cfg.DeviceName and builds the path
// to its direct_reg_access file. Nil cfg and fs mean defaults and the OS filesystem.
// If several devices report the same name the first one listed wins.
func Open(ctx context.Context, cfg *config.DeviceConfig, fs afero.Fs) (*Core, error) {
	cfg, fs = defaults(cfg, fs)
	log.Debug("Looking for IIO device: name: %s dir: %s", cfg.DeviceName, cfg.IIODevicesDir)

	var found *DeviceInfo
	err := scan(ctx, fs, cfg.IIODevicesDir, func(info *DeviceInfo) bool {
		if info.Name == cfg.DeviceName {
			found = info
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrDeviceNotFound{Name: cfg.DeviceName, Dir: cfg.IIODevicesDir}
	}

	deviceID, err := deviceIDFromPath(found.Path)
	if err != nil {
		return nil, err
	}

	c := &Core{
		fs:          fs,
		deviceID:    deviceID,
		regFilePath: filepath.Join(cfg.DebugIIODir, deviceID, config.RegAccessFile),
	}
	log.Info("Found %s: device: %s register file: %s", cfg.DeviceName, c.deviceID, c.regFilePath)
	return c, nil
}

// List returns all IIO devices which have a name file
func List(ctx context.Context, cfg *config.DeviceConfig, fs afero.Fs) ([]*DeviceInfo, error) {
	cfg, fs = defaults(cfg, fs)
	var devices []*DeviceInfo
	err := scan(ctx, fs, cfg.IIODevicesDir, func(info *DeviceInfo) bool {
		devices = append(devices, info)
		return true
	})
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// scan visits devices in directory order until visit returns false
func scan(ctx context.Context, fs afero.Fs, dir string, visit func(*DeviceInfo) bool) error {
	d, err := fs.Open(dir)
	if err != nil {
		return ErrDiscovery{Op: "open", Path: dir, Err: err}
	}
	names, err := d.Readdirnames(-1)
	d.Close()
	if err != nil {
		return ErrDiscovery{Op: "list", Path: dir, Err: err}
	}

	for _, entry := range names {
		if err := ctx.Err(); err != nil {
			return ErrDiscovery{Op: "scan", Path: dir, Err: err}
		}
		devicePath := filepath.Join(dir, entry)
		namePath := filepath.Join(devicePath, config.NameFile)
		if _, err := fs.Stat(namePath); err != nil {
			if !os.IsNotExist(err) {
				log.Debug("Skipping %s: %s", devicePath, err)
			}
			continue
		}
		data, err := afero.ReadFile(fs, namePath)
		if err != nil {
			return ErrDiscovery{Op: "read", Path: namePath, Err: err}
		}
		info := &DeviceInfo{
			ID:   entry,
			Name: strings.TrimSpace(string(data)),
			Path: devicePath,
		}
		log.Debug("IIO device: %s name: %s", info.ID, info.Name)
		if !visit(info) {
			return nil
		}
	}
	return nil
}

func deviceIDFromPath(path string) (string, error) {
	id := filepath.Base(path)
	switch id {
	case "", ".", "..", string(filepath.Separator):
		return "", ErrInvalidDeviceID{Path: path}
	}
	if !utf8.ValidString(id) {
		return "", ErrInvalidDeviceID{Path: path}
	}
	return id, nil
}

func (c *Core) DeviceID() string {
	return c.deviceID
}

func (c *Core) RegFilePath() string {
	return c.regFilePath
}

// WriteRegister writes "0x<addr> 0x<value>" to direct_reg_access in one write call.
// The driver applies it; nothing is read back.
func (c *Core) WriteRegister(ctx context.Context, addr, value uint32) error {
	if err := ctx.Err(); err != nil {
		return &WriteError{Path: c.regFilePath, Err: err}
	}
	reg := &Reg{Addr: addr, Value: value}
	log.Debug("Writing register: device: %s %s", c.deviceID, reg.Command())

	f, err := c.fs.OpenFile(c.regFilePath, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return &WriteError{Path: c.regFilePath, Err: err}
	}
	payload := []byte(reg.Command())
	n, err := f.Write(payload)
	if err == nil && n < len(payload) {
		err = io.ErrShortWrite
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return &WriteError{Path: c.regFilePath, Err: err}
	}
	return nil
}

// SetIChannelSource sets the I channel source (DDS_CHAN_CNTRL_7)
func (c *Core) SetIChannelSource(ctx context.Context, source uint32) error {
	return c.WriteRegister(ctx, RegMap[RegChanCntrl7I], source)
}

// SetQChannelSource sets the Q channel source (DDS_CHAN_CNTRL_8)
func (c *Core) SetQChannelSource(ctx context.Context, source uint32) error {
	return c.WriteRegister(ctx, RegMap[RegChanCntrl8Q], source)
}

// SetChannelSource dispatches to the I or Q setter
func SetChannelSource(ctx context.Context, core ifc.Core, channel string, source uint32) error {
	alias, err := ParseChannel(channel)
	if err != nil {
		return err
	}
	if alias == RegChanCntrl7I {
		return core.SetIChannelSource(ctx, source)
	}
	return core.SetQChannelSource(ctx, source)
}
