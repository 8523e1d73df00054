// Package plugins implements the secret detectors sekret can be configured
// with. Each detector type is registered under a class name; FromClassname
// builds a configured instance from that name and its parameters.
package plugins
