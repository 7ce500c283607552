// Package discmonitor watches udev netlink events for audio disc insertion
// on the configured drive and hands the device to a callback, which the
// watch command uses to start an extraction automatically.
package discmonitor
