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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// DeviceConfig tells where to look for the DDS core
type DeviceConfig struct {
	IIODevicesDir string `yaml:"iioDevicesDir,omitempty"`
	DebugIIODir   string `yaml:"debugIIODir,omitempty"`
	DeviceName    string `yaml:"deviceName,omitempty"`
}

type ApiConfig struct {
	Address string `yaml:"address,omitempty"`
	Port    int    `yaml:"port,omitempty"`
}

// Addr returns host:port to bind the API server or to reach it
func (c *ApiConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}

type Config struct {
	*DeviceConfig `yaml:"device,omitempty"`
	*ApiConfig    `yaml:"api,omitempty"`
	LogLevel      string `yaml:"logLevel,omitempty"`
	// empty means register writes are not journaled
	JournalPath string `yaml:"journalPath,omitempty"`
	filepath    string
}

// ErrConfigFileExists returned on attempt to overwrite config without permission
type ErrConfigFileExists struct {
	Path string
}

func (e ErrConfigFileExists) Error() string {
	return fmt.Sprintf("Config file already exists: %s", e.Path)
}

func (c *Config) FilePath() string {
	return c.filepath
}

func (c *Config) SetFilePath(path string) {
	c.filepath = path
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(c.filepath), 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0644)
}

// Load reads the config file over the current values.
// A missing file is not an error, defaults stay in place.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filepath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", c.filepath, err)
	}
	c.fillDefaults()
	return nil
}

func (c *Config) fillDefaults() {
	def := NewDefaultConfig()
	if c.DeviceConfig == nil {
		c.DeviceConfig = def.DeviceConfig
	}
	if c.IIODevicesDir == "" {
		c.IIODevicesDir = def.IIODevicesDir
	}
	if c.DebugIIODir == "" {
		c.DebugIIODir = def.DebugIIODir
	}
	if c.DeviceName == "" {
		c.DeviceName = def.DeviceName
	}
	if c.ApiConfig == nil {
		c.ApiConfig = def.ApiConfig
	}
	if c.Address == "" {
		c.Address = def.Address
	}
	if c.Port == 0 {
		c.Port = def.Port
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultJournalPath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), JournalFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		DeviceConfig: &DeviceConfig{
			IIODevicesDir: DefaultIIODevicesDir,
			DebugIIODir:   DefaultDebugIIODir,
			DeviceName:    DefaultDeviceName,
		},
		ApiConfig: &ApiConfig{
			Address: DefaultApiAddress,
			Port:    DefaultApiPort,
		},
		LogLevel: DefaultLogLevel,
		filepath: DefaultConfigPath(),
	}
}
