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

package dds

import (
	"fmt"
)

// ErrDeviceNotFound returned when no IIO device reports the wanted name
type ErrDeviceNotFound struct {
	Name string
	Dir  string
}

func (e ErrDeviceNotFound) Error() string {
	return fmt.Sprintf("%s IIO device not found in %s", e.Name, e.Dir)
}

// ErrInvalidDeviceID returned when the matched device path has no usable last element
type ErrInvalidDeviceID struct {
	Path string
}

func (e ErrInvalidDeviceID) Error() string {
	return fmt.Sprintf("Could not get IIO device id from path %q", e.Path)
}

// ErrDiscovery wraps filesystem errors hit while scanning IIO devices
type ErrDiscovery struct {
	Op   string
	Path string
	Err  error
}

func (e ErrDiscovery) Error() string {
	return fmt.Sprintf("IIO discovery: %s %s: %s", e.Op, e.Path, e.Err)
}

func (e ErrDiscovery) Unwrap() error {
	return e.Err
}

// WriteError is returned when a register poke could not be written
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write to %s: %s", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ErrUnknownChannel returned for a channel other than i or q
type ErrUnknownChannel struct {
	Channel string
}

func (e ErrUnknownChannel) Error() string {
	return fmt.Sprintf("Unknown channel %q. Must be one of: i, q", e.Channel)
}
