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

const (
	ConfigDir  = ".go-dds"
	ConfigFile = "config"

	// IIO devices known to the kernel, one directory (symlink) per device
	DefaultIIODevicesDir = "/sys/bus/iio/devices"
	// debugfs root holding per-device register access files
	DefaultDebugIIODir = "/sys/kernel/debug/iio"
	// value of <device>/name the DDS core driver reports
	DefaultDeviceName = "cf-ad9361-dds-core-lpc"

	NameFile      = "name"
	RegAccessFile = "direct_reg_access"

	DefaultApiAddress = "127.0.0.1"
	DefaultApiPort    = 8010
	DefaultLogLevel   = "info"
	JournalFile       = "journal.db"
)
