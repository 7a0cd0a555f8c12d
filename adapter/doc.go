// Package adapter bridges zap into the go-kit logging contract used
// throughout this module.
package adapter
